package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/tradingterminal/internal/market"
	"github.com/wyfcoding/tradingterminal/pkg/response"
)

// MarketHandler HTTP 处理器
// 负责处理交易对目录查询请求
type MarketHandler struct {
	catalog *market.Catalog
}

// NewMarketHandler 创建 HTTP 处理器实例
func NewMarketHandler(catalog *market.Catalog) *MarketHandler {
	return &MarketHandler{catalog: catalog}
}

// RegisterRoutes 注册路由
func (h *MarketHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/markets")
	{
		api.GET("", h.ListMarkets)       // 交易对列表
		api.GET("/:symbol", h.GetMarket) // 单个交易对
	}
}

// ListMarkets 返回全部交易对
func (h *MarketHandler) ListMarkets(c *gin.Context) {
	response.Success(c, h.catalog.List())
}

// GetMarket 返回指定交易对
func (h *MarketHandler) GetMarket(c *gin.Context) {
	symbol := c.Param("symbol")
	mk, err := h.catalog.Get(symbol)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	response.Success(c, mk)
}
