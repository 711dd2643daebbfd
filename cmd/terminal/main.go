// 交易终端主程序
// 功能：提供下单表单、订单簿深度、交易对目录与钱包的本地服务
// 架构：基于 DDD，行情由模拟源推送，执行网关可切换纸面引擎或远端后端
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/execution"
	"github.com/wyfcoding/tradingterminal/internal/market"
	markethandler "github.com/wyfcoding/tradingterminal/internal/market/interfaces/http"
	"github.com/wyfcoding/tradingterminal/internal/marketdata"
	bookapp "github.com/wyfcoding/tradingterminal/internal/orderbook/application"
	bookdomain "github.com/wyfcoding/tradingterminal/internal/orderbook/domain"
	bookhandler "github.com/wyfcoding/tradingterminal/internal/orderbook/interfaces/http"
	tradingapp "github.com/wyfcoding/tradingterminal/internal/trading/application"
	tradingdomain "github.com/wyfcoding/tradingterminal/internal/trading/domain"
	tradinghandler "github.com/wyfcoding/tradingterminal/internal/trading/interfaces/http"
	walletapp "github.com/wyfcoding/tradingterminal/internal/wallet/application"
	wallethandler "github.com/wyfcoding/tradingterminal/internal/wallet/interfaces/http"
	"github.com/wyfcoding/tradingterminal/pkg/config"
	"github.com/wyfcoding/tradingterminal/pkg/logger"
	"github.com/wyfcoding/tradingterminal/pkg/metrics"
	"github.com/wyfcoding/tradingterminal/pkg/middleware"
)

func main() {
	// 1. 加载配置
	configPath := "configs/config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting trading terminal",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 4. 初始化交易对目录
	catalog := market.NewCatalog(buildMarkets(cfg.Markets))

	// 5. 初始化订单簿服务
	normalize := bookdomain.NormalizeByMax
	if cfg.OrderBook.Normalize == "first" {
		normalize = bookdomain.NormalizeByFirst
	}
	bookSvc := bookapp.NewBookService(normalize)

	// 6. 初始化钱包服务
	walletSvc := walletapp.NewWalletService(catalog, buildInitialBalances(ctx, cfg.InitialBalances))

	// 7. 初始化执行网关
	gateway := buildGateway(ctx, cfg.Execution, bookSvc)

	// 8. 初始化下单服务
	tradingSvc := tradingapp.NewTradingService(gateway, walletSvc, bookSvc, catalog, walletSvc)

	// 9. 启动模拟行情源
	simCtx, simCancel := context.WithCancel(context.Background())
	defer simCancel()
	sim := marketdata.NewSimulator(
		buildFeeds(cfg),
		&meteredSink{svc: bookSvc, metrics: metricsInstance},
		time.Duration(cfg.MarketData.IntervalMS)*time.Millisecond,
		marketDataSeed(cfg.MarketData.Seed),
	)
	go sim.Run(simCtx)

	// 10. 创建并启动 HTTP 服务器
	httpServer := createHTTPServer(cfg, metricsInstance, tradingSvc, bookSvc, walletSvc, catalog)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		logger.Info(ctx, "Starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 11. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down trading terminal")
	simCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "Trading terminal stopped")
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(
	cfg *config.Config,
	m *metrics.Metrics,
	tradingSvc *tradingapp.TradingService,
	bookSvc *bookapp.BookService,
	walletSvc *walletapp.WalletService,
	catalog *market.Catalog,
) *http.Server {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 添加中间件
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinMetricsMiddleware(m))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	// 注册路由
	root := router.Group("")
	tradinghandler.NewTradingHandler(tradingSvc, m).RegisterRoutes(root)
	bookhandler.NewBookHandler(bookSvc).RegisterRoutes(root)
	markethandler.NewMarketHandler(catalog).RegisterRoutes(root)
	wallethandler.NewWalletHandler(walletSvc, m).RegisterRoutes(root)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}

// buildMarkets 将配置转换为交易对目录条目
func buildMarkets(items []config.MarketConfig) []market.Market {
	markets := make([]market.Market, 0, len(items))
	for _, item := range items {
		minSize, err := decimal.NewFromString(item.MinOrderSize)
		if err != nil {
			minSize = decimal.Zero
		}
		markets = append(markets, market.Market{
			Symbol:          item.Symbol,
			Name:            item.Name,
			BaseCurrency:    item.BaseCurrency,
			QuoteCurrency:   item.QuoteCurrency,
			PricePrecision:  2,
			AmountPrecision: tradingdomain.AssetPrecision,
			MinOrderSize:    minSize,
			Status:          market.StatusActive,
		})
	}
	return markets
}

// buildInitialBalances 解析期初余额配置，非法数值跳过并告警
func buildInitialBalances(ctx context.Context, raw map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(raw))
	for asset, amount := range raw {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			logger.Warn(ctx, "Skipping invalid initial balance", "asset", asset, "amount", amount)
			continue
		}
		out[asset] = d
	}
	return out
}

// buildGateway 按配置选择执行网关实现
func buildGateway(ctx context.Context, cfg config.ExecutionConfig, prices tradingdomain.ReferencePriceProvider) tradingdomain.ExecutionGateway {
	switch cfg.Mode {
	case "rest":
		logger.Info(ctx, "Using REST execution gateway", "endpoint", cfg.Endpoint)
		return execution.NewRESTGateway(cfg.Endpoint, time.Duration(cfg.Timeout)*time.Second)
	default:
		logger.Info(ctx, "Using paper execution gateway", "latency_ms", cfg.PaperLatencyMS)
		return execution.NewPaper(prices, time.Duration(cfg.PaperLatencyMS)*time.Millisecond)
	}
}

// buildFeeds 将交易对配置转换为模拟行情参数
func buildFeeds(cfg *config.Config) []marketdata.SymbolFeed {
	levels := cfg.OrderBook.DefaultDepth
	if levels <= 0 {
		levels = bookapp.DefaultDepth
	}
	feeds := make([]marketdata.SymbolFeed, 0, len(cfg.Markets))
	for _, mk := range cfg.Markets {
		feeds = append(feeds, marketdata.SymbolFeed{
			Symbol:    mk.Symbol,
			BasePrice: mk.BasePrice,
			TickSize:  mk.TickSize,
			Levels:    levels,
		})
	}
	return feeds
}

// meteredSink 在行情落库的同时累加快照更新计数
type meteredSink struct {
	svc     *bookapp.BookService
	metrics *metrics.Metrics
}

func (s *meteredSink) Apply(snapshot *bookdomain.Snapshot, lastPrice decimal.Decimal) {
	s.svc.Apply(snapshot, lastPrice)
	s.metrics.BookUpdatesTotal.Inc()
}

// marketDataSeed 为 0 时按时间取种
func marketDataSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
