// 文件: pkg/ledger/txn_test.go
// 账本事务测试
//
// 测试策略:
// 1. Commit 后修改可见
// 2. Rollback 后状态逐字节还原 (包括新建的键被删除)
// 3. 余额不足 / 溢出路径

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice AccountID = 100
	bob   AccountID = 200

	usdc AssetID = "USDC"
	btc  AssetID = "BTC"
)

func TestTxn_CommitVisible(t *testing.T) {
	st := NewState()

	txn := st.Begin()
	require.NoError(t, txn.Credit(alice, usdc, 1_000))
	require.NoError(t, txn.Lock(alice, usdc, 400))
	txn.Commit()

	b := st.Balance(alice, usdc)
	assert.Equal(t, uint64(600), b.Available)
	assert.Equal(t, uint64(400), b.Locked)
	assert.Equal(t, uint64(1_000), b.Total())
}

func TestTxn_RollbackRestoresState(t *testing.T) {
	st := NewState()

	txn := st.Begin()
	require.NoError(t, txn.Credit(alice, usdc, 1_000))
	txn.Commit()

	// 混合已有键和新键的修改，全部回滚
	txn = st.Begin()
	require.NoError(t, txn.Debit(alice, usdc, 300))
	require.NoError(t, txn.Credit(bob, btc, 50))
	require.NoError(t, txn.Credit(EscrowAccount, usdc, 300))
	txn.Rollback()

	assert.Equal(t, Balance{Available: 1_000}, st.Balance(alice, usdc))
	assert.Equal(t, Balance{}, st.Balance(bob, btc))
	assert.Equal(t, Balance{}, st.Balance(EscrowAccount, usdc))
}

func TestTxn_DebitInsufficient(t *testing.T) {
	st := NewState()

	txn := st.Begin()
	require.NoError(t, txn.Credit(alice, usdc, 100))
	err := txn.Debit(alice, usdc, 101)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	txn.Commit()

	// 失败操作不应留下痕迹
	assert.Equal(t, uint64(100), st.Available(alice, usdc))
}

func TestTxn_LockUnlockSpend(t *testing.T) {
	st := NewState()

	txn := st.Begin()
	require.NoError(t, txn.Credit(alice, btc, 10))
	require.NoError(t, txn.Lock(alice, btc, 10))
	assert.ErrorIs(t, txn.Lock(alice, btc, 1), ErrInsufficientBalance)

	require.NoError(t, txn.SpendLocked(alice, btc, 4))
	require.NoError(t, txn.Unlock(alice, btc, 6))
	assert.ErrorIs(t, txn.Unlock(alice, btc, 1), ErrInsufficientLocked)
	txn.Commit()

	b := st.Balance(alice, btc)
	assert.Equal(t, uint64(6), b.Available)
	assert.Equal(t, uint64(0), b.Locked)
}

func TestTxn_Transfer(t *testing.T) {
	st := NewState()

	txn := st.Begin()
	require.NoError(t, txn.Credit(alice, usdc, 500))
	require.NoError(t, txn.Transfer(alice, bob, usdc, 200))
	txn.Commit()

	assert.Equal(t, uint64(300), st.Available(alice, usdc))
	assert.Equal(t, uint64(200), st.Available(bob, usdc))
}

func TestTxn_ClosedRejectsWrites(t *testing.T) {
	st := NewState()

	txn := st.Begin()
	txn.Commit()
	assert.ErrorIs(t, txn.Credit(alice, usdc, 1), ErrTxnClosed)

	txn = st.Begin()
	txn.Rollback()
	assert.ErrorIs(t, txn.Debit(alice, usdc, 1), ErrTxnClosed)
}
