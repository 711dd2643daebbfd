// Package application 提供下单表单的应用服务与提交状态机
package application

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/trading/domain"
)

// ErrSubmissionInFlight 已有一笔提交在途，拒绝并发提交
var ErrSubmissionInFlight = errors.New("a submission is already in flight for this session")

// SubmissionPhase 提交生命周期阶段
type SubmissionPhase string

const (
	PhaseIdle       SubmissionPhase = "IDLE"
	PhaseValidating SubmissionPhase = "VALIDATING"
	PhaseSubmitting SubmissionPhase = "SUBMITTING"
	PhaseSucceeded  SubmissionPhase = "SUCCEEDED"
	PhaseFailed     SubmissionPhase = "FAILED"
)

// SubmissionState 提交状态
// 带标签的状态值：Phase 决定哪些负载字段有意义，
// "正在提交"与"已失败"之类的非法组合无从表达。
type SubmissionState struct {
	Phase SubmissionPhase `json:"phase"`
	// 后端分配的订单 ID，仅 Succeeded 阶段有值
	OrderID string `json:"order_id,omitempty"`
	// 校验失败明细，仅校验失败的 Failed 阶段有值
	ValidationErrors domain.ValidationErrors `json:"validation_errors,omitempty"`
	// 网关拒绝原因，仅执行失败的 Failed 阶段有值，原样透传
	FailureReason string `json:"failure_reason,omitempty"`
}

// FormSession 表单会话
// 每个下单表单对应一个会话，独占持有自己的订单草稿；
// 状态只能经由状态机流转：Idle → Validating → Submitting →
// Succeeded/Failed → Idle。同一会话任意时刻至多一笔在途提交。
type FormSession struct {
	mu    sync.Mutex
	state SubmissionState
	draft domain.OrderDraft
}

// NewFormSession 创建处于 Idle 阶段的会话
func NewFormSession() *FormSession {
	return &FormSession{state: SubmissionState{Phase: PhaseIdle}}
}

// State 返回当前提交状态
func (s *FormSession) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft 返回当前草稿
func (s *FormSession) Draft() domain.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Edit 记录一次已提交的输入变更
// 处于终态（Succeeded/Failed）的会话随用户编辑回到 Idle。
func (s *FormSession) Edit(draft domain.OrderDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
	if s.state.Phase == PhaseSucceeded || s.state.Phase == PhaseFailed {
		s.state = SubmissionState{Phase: PhaseIdle}
	}
}

// Dismiss 显式关闭成功或失败提示，回到 Idle
// 在途提交不受影响。
func (s *FormSession) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhaseSucceeded || s.state.Phase == PhaseFailed {
		s.state = SubmissionState{Phase: PhaseIdle}
	}
}

// FailValidation 以表单级校验失败结束一次提交
// 供应用服务在进入状态机前就能判定的规则（如交易对不存在）使用，
// 流转与校验失败一致：Idle → Validating → Failed，不触碰网关。
func (s *FormSession) FailValidation(draft domain.OrderDraft, errs domain.ValidationErrors) (SubmissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhaseSubmitting {
		return SubmissionState{}, ErrSubmissionInFlight
	}
	s.draft = draft
	s.state = SubmissionState{Phase: PhaseFailed, ValidationErrors: errs}
	return s.state, nil
}

// Submit 驱动一次完整的提交流转
//
// 校验同步完成；校验失败立即进入 Failed，不触碰网关。校验通过后进入
// Submitting 并恰好调用一次网关——这是整个流程唯一的挂起点。期间新的
// 提交请求返回 ErrSubmissionInFlight 且不会产生第二次网关调用。
// 余额与参考价在提交时传入最新值，不跨挂起点缓存。
func (s *FormSession) Submit(ctx context.Context, draft domain.OrderDraft, balances domain.BalanceSnapshot, gateway domain.ExecutionGateway, referencePrice decimal.Decimal) (SubmissionState, error) {
	s.mu.Lock()
	if s.state.Phase == PhaseSubmitting {
		s.mu.Unlock()
		return SubmissionState{}, ErrSubmissionInFlight
	}

	s.draft = draft
	s.state = SubmissionState{Phase: PhaseValidating}

	order, verrs := domain.Validate(draft, balances, referencePrice)
	if len(verrs) > 0 {
		s.state = SubmissionState{Phase: PhaseFailed, ValidationErrors: verrs}
		state := s.state
		s.mu.Unlock()
		return state, nil
	}

	s.state = SubmissionState{Phase: PhaseSubmitting}
	s.mu.Unlock()

	orderID, err := gateway.SubmitOrder(ctx, order)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// 草稿保留，用户可直接重试
		s.state = SubmissionState{Phase: PhaseFailed, FailureReason: err.Error()}
		return s.state, nil
	}
	// 草稿视为已消耗，会话回到空白表单
	s.draft = domain.OrderDraft{}
	s.state = SubmissionState{Phase: PhaseSucceeded, OrderID: orderID}
	return s.state, nil
}
