package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/tradingterminal/internal/orderbook/application"
	"github.com/wyfcoding/tradingterminal/pkg/response"
)

// BookHandler HTTP 处理器
// 负责处理订单簿深度查询请求
type BookHandler struct {
	svc *application.BookService
}

// NewBookHandler 创建 HTTP 处理器实例
func NewBookHandler(svc *application.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *BookHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/orderbook")
	{
		api.GET("/:symbol", h.GetDepth) // 获取聚合深度
	}
}

// GetDepth 获取指定交易对的聚合深度视图
// 可选参数 depth 控制档位数，缺省使用服务默认值。
func (h *BookHandler) GetDepth(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "symbol is required", nil)
		return
	}

	depth := 0
	if raw := c.Query("depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.ErrorWithStatus(c, http.StatusBadRequest, "depth must be a positive integer", nil)
			return
		}
		depth = n
	}

	response.Success(c, h.svc.Depth(symbol, depth))
}
