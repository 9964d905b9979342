// 文件: pkg/vault/vault.go
// 手续费金库
//
// 核心职责:
// 1. 托管用户充值的手续费资产 (链原生资产，如 ETH)
// 2. 下单时按挂单声明的 matcher_fee 锁定押金 (不足则按可用余额封顶)
// 3. 成交/撮合时从押金里给撮合者付费，永远不超过剩余押金
// 4. 撤单或完全成交后，把没用掉的押金解锁还给挂单者
//
// 设计说明:
// - 金库本身不持有状态，余额都记在账本 (pkg/ledger) 上
// - 押金封顶是有意为之: 手续费付不满只会少付，绝不阻塞成交结算

package vault

import (
	"errors"

	"obx.com/pkg/ledger"
)

// =============================================================================
// 错误定义
// =============================================================================

var (
	// ErrNotFeeAsset 充值的资产不是指定的手续费资产
	ErrNotFeeAsset = errors.New("attached asset is not the fee asset")
)

// =============================================================================
// Vault - 手续费金库
// =============================================================================

// Vault 手续费金库
type Vault struct {
	feeAsset ledger.AssetID
}

// New 创建金库
// feeAsset: 指定的手续费资产 (链原生资产)
func New(feeAsset ledger.AssetID) *Vault {
	return &Vault{feeAsset: feeAsset}
}

// FeeAsset 返回手续费资产标识
func (v *Vault) FeeAsset() ledger.AssetID {
	return v.feeAsset
}

// Deposit 充值手续费资产
// asset 必须等于指定的手续费资产，否则整个调用失败
func (v *Vault) Deposit(txn *ledger.Txn, account ledger.AccountID, asset ledger.AssetID, amount uint64) error {
	if asset != v.feeAsset {
		return ErrNotFeeAsset
	}
	return txn.Credit(account, v.feeAsset, amount)
}

// EscrowFee 锁定手续费押金
//
// 锁定 min(fee, 可用余额)，返回实际锁定数。
// 余额不够声明的 fee 时不报错: 后续付费会被实际押金封顶。
func (v *Vault) EscrowFee(txn *ledger.Txn, account ledger.AccountID, fee uint64) uint64 {
	avail := txn.Balance(account, v.feeAsset).Available
	locked := fee
	if avail < locked {
		locked = avail
	}
	if locked == 0 {
		return 0
	}
	// 可用充足，Lock 不会失败
	if err := txn.Lock(account, v.feeAsset, locked); err != nil {
		return 0
	}
	return locked
}

// PayFee 从 maker 的押金里给 matcher 付费
//
// 实付 = min(want, maker 剩余押金)，返回实付金额。
func (v *Vault) PayFee(txn *ledger.Txn, maker, matcher ledger.AccountID, want uint64) (uint64, error) {
	locked := txn.Balance(maker, v.feeAsset).Locked
	paid := want
	if locked < paid {
		paid = locked
	}
	if paid == 0 {
		return 0, nil
	}
	if err := txn.SpendLocked(maker, v.feeAsset, paid); err != nil {
		return 0, err
	}
	if err := txn.Credit(matcher, v.feeAsset, paid); err != nil {
		return 0, err
	}
	return paid, nil
}

// ReleaseFee 解锁未用完的押金
func (v *Vault) ReleaseFee(txn *ledger.Txn, account ledger.AccountID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return txn.Unlock(account, v.feeAsset, amount)
}

// Balance 读取账户的手续费余额
func (v *Vault) Balance(state *ledger.State, account ledger.AccountID) ledger.Balance {
	return state.Balance(account, v.feeAsset)
}
