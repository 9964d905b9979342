// 文件: pkg/ledger/txn.go
// 账本事务 - 撤销日志实现
//
// 每次公开操作 (下单/撤单/成交/撮合) 对应一个 Txn:
// - 操作过程中直接改写 State，同时记录每个键的修改前快照
// - Commit: 丢弃日志，修改生效
// - Rollback: 逆序回放快照，状态逐字节还原
//
// 为什么用撤销日志而不是写缓冲?
// - 操作过程中的每次读都能看到本事务之前的写，不需要二级查找
// - 失败路径 (价格不交叉/余额不足) 必须零残留，逆序回放最直接

package ledger

// undoEntry 单个键的修改前快照
type undoEntry struct {
	key     balanceKey
	prev    Balance
	existed bool
}

// Txn 账本事务
//
// 非并发安全: 一个 Txn 只能被创建它的调用链使用。
// 引擎保证同一时刻最多一个进行中的 Txn。
type Txn struct {
	state  *State
	undo   []undoEntry
	closed bool
}

// Begin 开启事务
func (s *State) Begin() *Txn {
	s.mu.Lock()
	return &Txn{state: s}
}

// touch 记录 key 的修改前快照 (每个键只记一次)
func (t *Txn) touch(key balanceKey) {
	for i := range t.undo {
		if t.undo[i].key == key {
			return
		}
	}
	prev, existed := t.state.balances[key]
	t.undo = append(t.undo, undoEntry{key: key, prev: prev, existed: existed})
}

// Commit 提交事务
func (t *Txn) Commit() {
	if t.closed {
		return
	}
	t.closed = true
	t.undo = nil
	t.state.mu.Unlock()
}

// Rollback 回滚事务，状态还原到 Begin 时刻
func (t *Txn) Rollback() {
	if t.closed {
		return
	}
	t.closed = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		e := t.undo[i]
		if e.existed {
			t.state.balances[e.key] = e.prev
		} else {
			delete(t.state.balances, e.key)
		}
	}
	t.undo = nil
	t.state.mu.Unlock()
}

// =============================================================================
// 余额操作
// =============================================================================

// Balance 事务内读取余额
func (t *Txn) Balance(account AccountID, asset AssetID) Balance {
	return t.state.balances[balanceKey{account, asset}]
}

// Credit 增加可用余额
func (t *Txn) Credit(account AccountID, asset AssetID, amount uint64) error {
	if t.closed {
		return ErrTxnClosed
	}
	key := balanceKey{account, asset}
	b := t.state.balances[key]
	if b.Available+amount < b.Available {
		return ErrBalanceOverflow
	}
	t.touch(key)
	b.Available += amount
	t.state.balances[key] = b
	return nil
}

// Debit 扣减可用余额
func (t *Txn) Debit(account AccountID, asset AssetID, amount uint64) error {
	if t.closed {
		return ErrTxnClosed
	}
	key := balanceKey{account, asset}
	b := t.state.balances[key]
	if b.Available < amount {
		return ErrInsufficientBalance
	}
	t.touch(key)
	b.Available -= amount
	t.state.balances[key] = b
	return nil
}

// Lock 可用转锁定
func (t *Txn) Lock(account AccountID, asset AssetID, amount uint64) error {
	if t.closed {
		return ErrTxnClosed
	}
	key := balanceKey{account, asset}
	b := t.state.balances[key]
	if b.Available < amount {
		return ErrInsufficientBalance
	}
	if b.Locked+amount < b.Locked {
		return ErrBalanceOverflow
	}
	t.touch(key)
	b.Available -= amount
	b.Locked += amount
	t.state.balances[key] = b
	return nil
}

// Unlock 锁定转可用
func (t *Txn) Unlock(account AccountID, asset AssetID, amount uint64) error {
	if t.closed {
		return ErrTxnClosed
	}
	key := balanceKey{account, asset}
	b := t.state.balances[key]
	if b.Locked < amount {
		return ErrInsufficientLocked
	}
	t.touch(key)
	b.Locked -= amount
	b.Available += amount
	t.state.balances[key] = b
	return nil
}

// SpendLocked 直接扣减锁定余额 (成交/手续费支付时调用)
func (t *Txn) SpendLocked(account AccountID, asset AssetID, amount uint64) error {
	if t.closed {
		return ErrTxnClosed
	}
	key := balanceKey{account, asset}
	b := t.state.balances[key]
	if b.Locked < amount {
		return ErrInsufficientLocked
	}
	t.touch(key)
	b.Locked -= amount
	t.state.balances[key] = b
	return nil
}

// Transfer 可用余额划转
func (t *Txn) Transfer(from, to AccountID, asset AssetID, amount uint64) error {
	if err := t.Debit(from, asset, amount); err != nil {
		return err
	}
	return t.Credit(to, asset, amount)
}
