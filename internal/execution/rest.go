package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wyfcoding/tradingterminal/internal/trading/domain"
)

// submitRequest 远端下单请求体
type submitRequest struct {
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	LimitPrice string `json:"limit_price,omitempty"`
}

// submitResponse 远端下单应答体
type submitResponse struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// RESTGateway 远端交易后端的 REST 客户端
// 后端拒绝时把应答中的原因原样包装为 ExecutionError 透传。
type RESTGateway struct {
	client *resty.Client
}

// NewRESTGateway 构造 REST 执行网关
func NewRESTGateway(baseURL string, timeout time.Duration) *RESTGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0) // 下单不自动重试，避免重复委托
	return &RESTGateway{client: client}
}

// SubmitOrder 提交订单到远端后端
func (g *RESTGateway) SubmitOrder(ctx context.Context, order domain.ValidatedOrder) (string, error) {
	req := submitRequest{
		Symbol: order.Symbol,
		Side:   string(order.Side),
		Type:   string(order.Type),
		Amount: order.Amount.String(),
	}
	if order.Type == domain.OrderTypeLimit {
		req.LimitPrice = order.LimitPrice.String()
	}

	var resp submitResponse
	res, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post("/orders")
	if err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}
	if res.IsError() {
		reason := resp.Message
		if reason == "" {
			reason = fmt.Sprintf("execution backend returned %s", res.Status())
		}
		return "", domain.NewExecutionError(reason)
	}
	if resp.OrderID == "" {
		return "", domain.NewExecutionError("execution backend returned no order id")
	}
	return resp.OrderID, nil
}
