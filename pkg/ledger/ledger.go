// 文件: pkg/ledger/ledger.go
// 账本 - 多资产余额状态
//
// 核心职责:
// 1. 维护 (账户, 资产) -> 余额 的内存表
// 2. 余额分为 Available (可用) 和 Locked (锁定) 两部分
// 3. 所有写操作必须通过 Txn (见 txn.go)，保证单次调用的原子性
//
// 设计说明:
// - 账户 0 固定为合约托管账户，挂单锁定的资产都转入这里
// - 金额使用 uint64 原始单位 (类似 satoshi)，不做浮点运算
// - 引擎层对所有公开操作串行化，State 内部只需保护外部只读访问

package ledger

import (
	"errors"
	"sync"
)

// =============================================================================
// 错误定义
// =============================================================================

var (
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInsufficientLocked  = errors.New("insufficient locked balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrTxnClosed           = errors.New("transaction already committed or rolled back")
)

// =============================================================================
// 基础类型
// =============================================================================

// AccountID 账户标识
type AccountID int64

// AssetID 资产标识 (如 "USDC", "BTC", "ETH")
type AssetID string

// EscrowAccount 合约托管账户
// 挂单锁定的 asset0 和手续费押金都记在这个账户名下
const EscrowAccount AccountID = 0

// Balance 单一资产余额
//
// Available: 可自由支配
// Locked:    被挂单/手续费押金占用
type Balance struct {
	Available uint64
	Locked    uint64
}

// Total 总余额
func (b Balance) Total() uint64 {
	return b.Available + b.Locked
}

// balanceKey (账户, 资产) 复合键
type balanceKey struct {
	Account AccountID
	Asset   AssetID
}

// =============================================================================
// State - 账本状态
// =============================================================================

// State 账本状态
//
// 使用示例:
//
//	st := ledger.NewState()
//	txn := st.Begin()
//	if err := txn.Credit(alice, "USDC", 1000); err != nil {
//	    txn.Rollback()
//	    return err
//	}
//	txn.Commit()
type State struct {
	mu       sync.RWMutex
	balances map[balanceKey]Balance
}

// NewState 创建空账本
func NewState() *State {
	return &State{
		balances: make(map[balanceKey]Balance),
	}
}

// Balance 读取余额 (不存在的账户返回零值)
func (s *State) Balance(account AccountID, asset AssetID) Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[balanceKey{account, asset}]
}

// Available 读取可用余额
func (s *State) Available(account AccountID, asset AssetID) uint64 {
	return s.Balance(account, asset).Available
}

// Locked 读取锁定余额
func (s *State) Locked(account AccountID, asset AssetID) uint64 {
	return s.Balance(account, asset).Locked
}
