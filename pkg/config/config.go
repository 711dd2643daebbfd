// Package config 提供 TOML 配置加载、环境变量覆盖与 schema 校验
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 终端配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	// 执行网关配置
	Execution ExecutionConfig `mapstructure:"execution"`
	// 行情配置
	MarketData MarketDataConfig `mapstructure:"marketdata"`
	// 订单簿配置
	OrderBook OrderBookConfig `mapstructure:"orderbook"`
	// 交易对列表
	Markets []MarketConfig `mapstructure:"markets"`
	// 期初余额（模拟账户），资产 -> 数量
	InitialBalances map[string]string `mapstructure:"initial_balances"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	// 日志级别：debug, info, warn, error
	Level string `mapstructure:"level"`
	// 输出格式：json 或 text
	Format string `mapstructure:"format"`
	// 输出目标：stdout, file, both
	Output string `mapstructure:"output"`
	// 日志文件路径
	FilePath string `mapstructure:"file_path"`
	// 最大文件大小（MB）
	MaxSize int `mapstructure:"max_size"`
	// 最大备份文件数
	MaxBackups int `mapstructure:"max_backups"`
	// 最大保留天数
	MaxAge int `mapstructure:"max_age"`
	// 是否压缩
	Compress bool `mapstructure:"compress"`
	// 是否输出调用者信息
	WithCaller bool `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// Prometheus 监听端口
	Port int `mapstructure:"port"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// 每秒请求数
	QPS int `mapstructure:"qps"`
	// 突发容量
	Burst int `mapstructure:"burst"`
}

// ExecutionConfig 执行网关配置
type ExecutionConfig struct {
	// 模式：paper（进程内纸面引擎）或 rest（远端后端）
	Mode string `mapstructure:"mode"`
	// 远端后端地址（mode=rest 时必填）
	Endpoint string `mapstructure:"endpoint"`
	// 请求超时（秒）
	Timeout int `mapstructure:"timeout"`
	// 纸面引擎模拟延迟（毫秒）
	PaperLatencyMS int `mapstructure:"paper_latency_ms"`
}

// MarketDataConfig 行情配置
type MarketDataConfig struct {
	// 推送间隔（毫秒）
	IntervalMS int `mapstructure:"interval_ms"`
	// 随机种子，0 表示按时间取种
	Seed int64 `mapstructure:"seed"`
}

// OrderBookConfig 订单簿配置
type OrderBookConfig struct {
	// 深度条归一化方式：max（默认）或 first（兼容旧版终端）
	Normalize string `mapstructure:"normalize"`
	// 深度视图默认档位数
	DefaultDepth int `mapstructure:"default_depth"`
}

// MarketConfig 交易对配置
type MarketConfig struct {
	Symbol        string `mapstructure:"symbol"`
	Name          string `mapstructure:"name"`
	BaseCurrency  string `mapstructure:"base_currency"`
	QuoteCurrency string `mapstructure:"quote_currency"`
	// 模拟行情基准价
	BasePrice float64 `mapstructure:"base_price"`
	// 模拟行情价格步长
	TickSize float64 `mapstructure:"tick_size"`
	// 最小下单量
	MinOrderSize string `mapstructure:"min_order_size"`
}

// Load 从 TOML 文件加载配置，支持 TERMINAL_ 前缀的环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvPrefix("TERMINAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	switch c.Execution.Mode {
	case "", "paper":
	case "rest":
		if c.Execution.Endpoint == "" {
			return fmt.Errorf("execution endpoint is required for rest mode")
		}
	default:
		return fmt.Errorf("unknown execution mode: %s", c.Execution.Mode)
	}
	switch c.OrderBook.Normalize {
	case "", "max", "first":
	default:
		return fmt.Errorf("unknown orderbook normalize mode: %s", c.OrderBook.Normalize)
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	for _, mk := range c.Markets {
		if mk.Symbol == "" || mk.BaseCurrency == "" || mk.QuoteCurrency == "" {
			return fmt.Errorf("market %q needs symbol, base_currency and quote_currency", mk.Symbol)
		}
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/terminal.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.qps", 50)
	v.SetDefault("ratelimit.burst", 100)

	v.SetDefault("execution.mode", "paper")
	v.SetDefault("execution.timeout", 10)
	v.SetDefault("execution.paper_latency_ms", 200)

	v.SetDefault("marketdata.interval_ms", 1000)
	v.SetDefault("marketdata.seed", 0)

	v.SetDefault("orderbook.normalize", "max")
	v.SetDefault("orderbook.default_depth", 15)
}
