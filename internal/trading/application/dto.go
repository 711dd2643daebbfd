package application

import "github.com/wyfcoding/tradingterminal/internal/trading/domain"

// SubmitOrderCommand 提交订单命令
type SubmitOrderCommand struct {
	SessionID  string
	Symbol     string
	Side       string
	Type       string
	Amount     string
	LimitPrice string
}

// Draft 将命令转换为订单草稿
func (c SubmitOrderCommand) Draft() domain.OrderDraft {
	return domain.OrderDraft{
		Symbol:     c.Symbol,
		Side:       domain.OrderSide(c.Side),
		Type:       domain.OrderType(c.Type),
		Amount:     c.Amount,
		LimitPrice: c.LimitPrice,
	}
}

// SizeCommand 按余额比例推算数量命令
type SizeCommand struct {
	Symbol     string
	Side       string
	Type       string
	LimitPrice string
	Percent    int
}

// PreviewDTO 表单派生字段视图
type PreviewDTO struct {
	// 预估总额（计价货币），"~" 展示；无法计算时为空串
	EstimatedTotal string `json:"estimated_total"`
	// 当前参考价，尚无行情时为空串
	ReferencePrice string `json:"reference_price"`
	// 非致命的校验提示，随输入实时反馈
	Issues domain.ValidationErrors `json:"issues,omitempty"`
}

// SizeDTO 比例推算结果
type SizeDTO struct {
	// 推算出的数量，已按资产精度舍入；无法计算时为 "0"
	Amount string `json:"amount"`
	// 是否可计算（参考价可用）
	Computable bool `json:"computable"`
}

// SubmitResultDTO 提交结果视图
type SubmitResultDTO struct {
	SessionID string          `json:"session_id"`
	State     SubmissionState `json:"state"`
}
