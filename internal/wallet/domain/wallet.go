// Package domain 包含钱包模块的领域模型
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType 资金流水类型
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTrade      TransactionType = "TRADE"
)

// TransactionStatus 资金流水状态
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

// Balance 单一资产余额
type Balance struct {
	// 资产符号
	Asset string `json:"asset"`
	// 可用余额
	Available decimal.Decimal `json:"available"`
	// 冻结余额（在途提现等）
	Frozen decimal.Decimal `json:"frozen"`
}

// Transaction 资金流水
type Transaction struct {
	// 流水 ID
	TransactionID string `json:"transaction_id"`
	// 类型
	Type TransactionType `json:"type"`
	// 资产符号
	Asset string `json:"asset"`
	// 金额
	Amount decimal.Decimal `json:"amount"`
	// 状态
	Status TransactionStatus `json:"status"`
	// 备注/Memo，可选
	Memo string `json:"memo,omitempty"`
	// 发生时间
	CreatedAt time.Time `json:"created_at"`
}

// WithdrawRequest 提现申请
type WithdrawRequest struct {
	// 资产符号
	Asset string `json:"asset"`
	// 提现地址
	Address string `json:"address"`
	// 金额（表单原始输入）
	Amount string `json:"amount"`
	// 备注/Memo，可选
	Memo string `json:"memo"`
}

// DepositRequest 充值申请
type DepositRequest struct {
	// 资产符号
	Asset string `json:"asset"`
	// 金额（表单原始输入）
	Amount string `json:"amount"`
}

// Validate 校验充值申请，收集全部失败项
func (r DepositRequest) Validate() []string {
	var issues []string
	if r.Asset == "" {
		issues = append(issues, "asset is required")
	}
	if amt, err := decimal.NewFromString(r.Amount); err != nil || !amt.IsPositive() {
		issues = append(issues, "amount must be a positive number")
	}
	return issues
}

// minAddressLength 提现地址最短长度
const minAddressLength = 10

// Validate 校验提现申请，收集全部失败项
func (r WithdrawRequest) Validate() []string {
	var issues []string
	if r.Asset == "" {
		issues = append(issues, "asset is required")
	}
	if len(r.Address) < minAddressLength {
		issues = append(issues, "address must be at least 10 characters")
	}
	if amt, err := decimal.NewFromString(r.Amount); err != nil || !amt.IsPositive() {
		issues = append(issues, "amount must be a positive number")
	}
	return issues
}
