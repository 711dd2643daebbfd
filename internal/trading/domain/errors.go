package domain

import "fmt"

// ValidationCode 校验错误码
type ValidationCode string

const (
	// ErrCodeInvalidSymbol 交易对不存在或不可交易
	ErrCodeInvalidSymbol ValidationCode = "INVALID_SYMBOL"
	// ErrCodeInvalidSide 买卖方向非法
	ErrCodeInvalidSide ValidationCode = "INVALID_SIDE"
	// ErrCodeInvalidType 订单类型非法
	ErrCodeInvalidType ValidationCode = "INVALID_TYPE"
	// ErrCodeInvalidAmount 数量缺失、无法解析或非正数
	ErrCodeInvalidAmount ValidationCode = "INVALID_AMOUNT"
	// ErrCodeMissingLimitPrice 限价单限价缺失、无法解析或非正数
	ErrCodeMissingLimitPrice ValidationCode = "MISSING_LIMIT_PRICE"
	// ErrCodeInsufficientBalance 可用余额不足（提交时校验，不在输入过程中提示）
	ErrCodeInsufficientBalance ValidationCode = "INSUFFICIENT_BALANCE"
)

// ValidationError 单条校验错误
// 可恢复，按字段内联提示给用户，不会中断表单会话。
type ValidationError struct {
	// 错误码
	Code ValidationCode `json:"code"`
	// 出错字段
	Field string `json:"field"`
	// 提示信息
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors 校验错误集合
// 各规则独立评估，集合收集全部失败项而非首个失败项。
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return "validation passed"
	}
	msg := es[0].Error()
	if len(es) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(es)-1)
	}
	return msg
}

// Has 判断集合中是否包含指定错误码
func (es ValidationErrors) Has(code ValidationCode) bool {
	for _, e := range es {
		if e.Code == code {
			return true
		}
	}
	return false
}

// ExecutionError 执行网关返回的拒绝
// 原因对核心不透明，原样透传给 Failed 状态展示，表单数据保留以便重试。
type ExecutionError struct {
	// 网关给出的拒绝原因
	Reason string
}

func (e *ExecutionError) Error() string {
	return e.Reason
}

// NewExecutionError 包装网关拒绝原因
func NewExecutionError(reason string) *ExecutionError {
	return &ExecutionError{Reason: reason}
}
