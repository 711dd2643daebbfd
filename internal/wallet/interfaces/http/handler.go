package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/tradingterminal/internal/wallet/application"
	"github.com/wyfcoding/tradingterminal/internal/wallet/domain"
	"github.com/wyfcoding/tradingterminal/pkg/logger"
	"github.com/wyfcoding/tradingterminal/pkg/metrics"
	"github.com/wyfcoding/tradingterminal/pkg/response"
)

// WalletHandler HTTP 处理器
// 负责处理余额、流水与提现相关的 HTTP 请求
type WalletHandler struct {
	svc     *application.WalletService
	metrics *metrics.Metrics
}

// NewWalletHandler 创建 HTTP 处理器实例
func NewWalletHandler(svc *application.WalletService, m *metrics.Metrics) *WalletHandler {
	return &WalletHandler{svc: svc, metrics: m}
}

// RegisterRoutes 注册路由
func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/wallet")
	{
		api.GET("/balances", h.ListBalances)          // 资产余额
		api.GET("/transactions", h.ListTransactions)  // 资金流水
		api.POST("/deposits", h.Deposit)              // 充值申请
		api.POST("/withdrawals", h.RequestWithdrawal) // 提现申请
	}
}

// ListBalances 返回全部资产余额
func (h *WalletHandler) ListBalances(c *gin.Context) {
	response.Success(c, h.svc.ListBalances())
}

// ListTransactions 返回资金流水，最近的在前
// 可选参数 limit 控制条数。
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.ErrorWithStatus(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}
	response.Success(c, h.svc.History(limit))
}

// DepositRequest 充值申请请求
type DepositRequest struct {
	Asset  string `json:"asset" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// Deposit 受理充值申请
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	tx, err := h.svc.Deposit(c.Request.Context(), domain.DepositRequest{
		Asset:  req.Asset,
		Amount: req.Amount,
	})
	if err != nil {
		var vErr *application.DepositValidationError
		if errors.As(err, &vErr) {
			response.ErrorWithStatus(c, http.StatusBadRequest, "deposit request invalid", gin.H{"issues": vErr.Issues})
			return
		}
		logger.Error(c.Request.Context(), "Failed to deposit", "asset", req.Asset, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	response.Success(c, tx)
}

// WithdrawRequest 提现申请请求
type WithdrawRequest struct {
	Asset   string `json:"asset" binding:"required"`
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
	Memo    string `json:"memo"`
}

// RequestWithdrawal 受理提现申请
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	tx, err := h.svc.RequestWithdrawal(c.Request.Context(), domain.WithdrawRequest{
		Asset:   req.Asset,
		Address: req.Address,
		Amount:  req.Amount,
		Memo:    req.Memo,
	})
	if err != nil {
		var vErr *application.WithdrawValidationError
		if errors.As(err, &vErr) {
			response.ErrorWithStatus(c, http.StatusBadRequest, "withdraw request invalid", gin.H{"issues": vErr.Issues})
			return
		}
		if errors.Is(err, application.ErrInsufficientFunds) {
			response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		logger.Error(c.Request.Context(), "Failed to request withdrawal", "asset", req.Asset, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	h.metrics.WithdrawalsTotal.Inc()
	response.Success(c, tx)
}
