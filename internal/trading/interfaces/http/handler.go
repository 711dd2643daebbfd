package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/tradingterminal/internal/trading/application"
	"github.com/wyfcoding/tradingterminal/pkg/logger"
	"github.com/wyfcoding/tradingterminal/pkg/metrics"
	"github.com/wyfcoding/tradingterminal/pkg/response"
)

// TradingHandler HTTP 处理器
// 负责处理下单表单相关的 HTTP 请求
type TradingHandler struct {
	svc     *application.TradingService
	metrics *metrics.Metrics
}

// NewTradingHandler 创建 HTTP 处理器实例
func NewTradingHandler(svc *application.TradingService, m *metrics.Metrics) *TradingHandler {
	return &TradingHandler{svc: svc, metrics: m}
}

// RegisterRoutes 注册路由
func (h *TradingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/orders")
	{
		api.POST("", h.SubmitOrder)            // 提交订单
		api.POST("/preview", h.Preview)        // 表单派生字段预览
		api.POST("/size", h.Size)              // 按余额比例推算数量
		api.POST("/dismiss", h.Dismiss)        // 关闭结果提示
		api.GET("/session/:id", h.SessionState) // 查询会话状态
	}
}

// SubmitOrderRequest 提交订单请求
type SubmitOrderRequest struct {
	SessionID  string `json:"session_id"`
	Symbol     string `json:"symbol" binding:"required"`
	Side       string `json:"side" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Amount     string `json:"amount"`
	LimitPrice string `json:"limit_price"`
}

func (r SubmitOrderRequest) command() application.SubmitOrderCommand {
	return application.SubmitOrderCommand{
		SessionID:  r.SessionID,
		Symbol:     r.Symbol,
		Side:       r.Side,
		Type:       r.Type,
		Amount:     r.Amount,
		LimitPrice: r.LimitPrice,
	}
}

// SubmitOrder 提交订单
func (h *TradingHandler) SubmitOrder(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	h.metrics.SubmissionsInFlight.Inc()
	result, err := h.svc.SubmitOrder(c.Request.Context(), req.command())
	h.metrics.SubmissionsInFlight.Dec()

	if err != nil {
		if errors.Is(err, application.ErrSubmissionInFlight) {
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), nil)
			return
		}
		logger.Error(c.Request.Context(), "Failed to submit order", "symbol", req.Symbol, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	switch result.State.Phase {
	case application.PhaseSucceeded:
		h.metrics.OrdersSubmitted.Inc()
	case application.PhaseFailed:
		if len(result.State.ValidationErrors) > 0 {
			h.metrics.OrdersRejected.Inc()
		} else {
			h.metrics.OrdersFailed.Inc()
		}
	}

	response.Success(c, result)
}

// Preview 计算表单派生字段
func (h *TradingHandler) Preview(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	dto, err := h.svc.Preview(c.Request.Context(), req.command())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to preview order", "symbol", req.Symbol, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	response.Success(c, dto)
}

// SizeRequest 按余额比例推算数量请求
type SizeRequest struct {
	Symbol     string `json:"symbol" binding:"required"`
	Side       string `json:"side" binding:"required"`
	Type       string `json:"type"`
	LimitPrice string `json:"limit_price"`
	Percent    int    `json:"percent" binding:"required"`
}

// Size 按可用余额比例推算下单数量
func (h *TradingHandler) Size(c *gin.Context) {
	var req SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	dto, err := h.svc.Size(c.Request.Context(), application.SizeCommand{
		Symbol:     req.Symbol,
		Side:       req.Side,
		Type:       req.Type,
		LimitPrice: req.LimitPrice,
		Percent:    req.Percent,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to size order", "symbol", req.Symbol, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	response.Success(c, dto)
}

// DismissRequest 关闭结果提示请求
type DismissRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Dismiss 关闭成功或失败提示，会话回到空闲
func (h *TradingHandler) Dismiss(c *gin.Context) {
	var req DismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.svc.Dismiss(req.SessionID) {
		response.ErrorWithStatus(c, http.StatusNotFound, "session not found", nil)
		return
	}
	response.Success(c, gin.H{"session_id": req.SessionID})
}

// SessionState 查询会话当前提交状态
func (h *TradingHandler) SessionState(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "session id is required", nil)
		return
	}

	state, ok := h.svc.State(id)
	if !ok {
		response.ErrorWithStatus(c, http.StatusNotFound, "session not found", nil)
		return
	}
	response.Success(c, gin.H{"session_id": id, "state": state})
}
