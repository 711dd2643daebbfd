package domain

import (
	"github.com/shopspring/decimal"
)

// Validate 校验订单草稿
// 各规则独立评估并收集全部失败项；返回值二选一：
// 要么得到 ValidatedOrder 且错误集合为空，要么错误集合非空。
//
// 余额校验是提交时的闸门而非输入时的错误：数量本身非法时不再叠加
// 余额错误，避免掩盖根因；买入方向在参考价不可用时跳过余额校验，
// 留待获得行情后由下一次提交重新评估。
func Validate(draft OrderDraft, balances BalanceSnapshot, referencePrice decimal.Decimal) (ValidatedOrder, ValidationErrors) {
	var errs ValidationErrors

	if !draft.Side.Valid() {
		errs = append(errs, ValidationError{
			Code:    ErrCodeInvalidSide,
			Field:   "side",
			Message: "side must be BUY or SELL",
		})
	}
	if !draft.Type.Valid() {
		errs = append(errs, ValidationError{
			Code:    ErrCodeInvalidType,
			Field:   "type",
			Message: "type must be LIMIT or MARKET",
		})
	}

	amount, amountOK := parsePositive(draft.Amount)
	if !amountOK {
		errs = append(errs, ValidationError{
			Code:    ErrCodeInvalidAmount,
			Field:   "amount",
			Message: "amount must be a positive number",
		})
	}

	var limitPrice decimal.Decimal
	if draft.Type == OrderTypeLimit {
		var priceOK bool
		limitPrice, priceOK = parsePositive(draft.LimitPrice)
		if !priceOK {
			errs = append(errs, ValidationError{
				Code:    ErrCodeMissingLimitPrice,
				Field:   "limit_price",
				Message: "limit price is required for limit orders and must be positive",
			})
		}
	}

	// 余额闸门：只在数量本身合法时评估，错误按规则单独上报
	if amountOK {
		switch draft.Side {
		case OrderSideBuy:
			price := referencePrice
			if draft.Type == OrderTypeLimit {
				price = limitPrice
			}
			if price.IsPositive() && amount.Mul(price).GreaterThan(balances.QuoteAvailable) {
				errs = append(errs, ValidationError{
					Code:    ErrCodeInsufficientBalance,
					Field:   "amount",
					Message: "insufficient quote balance for this order",
				})
			}
		case OrderSideSell:
			if amount.GreaterThan(balances.BaseAvailable) {
				errs = append(errs, ValidationError{
					Code:    ErrCodeInsufficientBalance,
					Field:   "amount",
					Message: "insufficient base balance for this order",
				})
			}
		}
	}

	if len(errs) > 0 {
		return ValidatedOrder{}, errs
	}

	order := ValidatedOrder{
		Symbol: draft.Symbol,
		Side:   draft.Side,
		Type:   draft.Type,
		Amount: amount,
	}
	// 市价单不携带限价
	if draft.Type == OrderTypeLimit {
		order.LimitPrice = limitPrice
	}
	return order, nil
}

// parsePositive 解析一个必须为正的十进制数
func parsePositive(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}
