// 文件: pkg/engine/matcher.go
// 撮合 - match_orders
//
// 任何人都可以把两张互补的挂单配对撮合，赚取双方的手续费:
// - 互补: A 卖的正是 B 要买的，B 卖的正是 A 要买的
// - 交叉: A 的限价不高于 B 的反向限价，存在正的成交空间
// - 成交量: 较小一方的全部剩余被吃掉，较大一方按对方报价部分成交
//
// 价格比较全部用整数交叉相乘 (128 位)，不碰浮点。

package engine

import (
	"context"
	"math"
	"math/bits"
	"time"

	"obx.com/pkg/ledger"
	"obx.com/pkg/order"
	"obx.com/pkg/trade"
)

// =============================================================================
// 整数价格运算
// =============================================================================

// mulDiv 计算 floor(x*y/z)，中间积用 128 位避免溢出
// 商超出 uint64 时饱和返回 MaxUint64 (调用方都会再按剩余量封顶)
func mulDiv(x, y, z uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	if hi >= z {
		return math.MaxUint64
	}
	quo, _ := bits.Div64(hi, lo, z)
	return quo
}

// crossing 判断两单价格是否交叉:
//
//	amount1_a / amount0_a <= amount0_b / amount1_b
//	⟺ amount1_a * amount1_b <= amount0_a * amount0_b
//
// 限价比率创建后不变，直接用原始量比较。
func crossing(a, b *order.Order) bool {
	hi1, lo1 := bits.Mul64(a.Amount1, b.Amount1)
	hi2, lo2 := bits.Mul64(a.Amount0, b.Amount0)
	if hi1 != hi2 {
		return hi1 < hi2
	}
	return lo1 <= lo2
}

// =============================================================================
// MatchOrders
// =============================================================================

// MatchOrders 撮合两张挂单
//
// 记 q = min(A 剩余可卖, B 剩余想买)，以 asset0_A 计:
//   - B 是较小方 (q == B 剩余想买): B 的剩余整单成交，按 B 自己的报价
//   - A 是较小方 (q == A 剩余可卖): A 的剩余整单成交，B 按自己报价
//     支付 p = floor(q * amount0_B / amount1_B)，部分成交
//
// 两种情况下 A 拿到的都不差于自己的限价 (交叉条件保证)，
// 价格差额全部让利给 A 侧; B 永远按自己的报价成交。
// 撮合者按双方各自的成交比例从押金里收取手续费。
func (e *Engine) MatchOrders(ctx context.Context, matcher ledger.AccountID, idA, idB uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 一张订单不能与自己撮合
	if idA == idB {
		return ErrAssetPairMismatch
	}

	a, err := e.activeOrder(ctx, idA)
	if err != nil {
		return err
	}
	b, err := e.activeOrder(ctx, idB)
	if err != nil {
		return err
	}

	if a.Asset1 != b.Asset0 || a.Asset0 != b.Asset1 {
		return ErrAssetPairMismatch
	}
	if !crossing(a, b) {
		return ErrPriceNotCrossing
	}

	// 成交量，以 asset0_A 计
	q := a.Remaining0()
	bWants := b.Remaining1()
	bSmaller := bWants <= q
	if bSmaller {
		q = bWants
	}
	if q == 0 {
		return ErrInvalidAmount
	}

	// B 付出的 asset0_B 数量
	var p uint64
	if bSmaller {
		// B 整单出清: 给出全部剩余
		p = b.Remaining0()
	} else {
		// B 部分成交: 按 B 自己的报价折算
		p = mulDiv(q, b.Amount0, b.Amount1)
		if p > b.Remaining0() {
			p = b.Remaining0()
		}
	}
	if p == 0 {
		return ErrInvalidAmount
	}

	txn := e.state.Begin()

	// 双向交割，都从托管账户出
	if err := txn.Transfer(ledger.EscrowAccount, ledger.AccountID(b.Maker), ledger.AssetID(a.Asset0), q); err != nil {
		txn.Rollback()
		return err
	}
	if err := txn.Transfer(ledger.EscrowAccount, ledger.AccountID(a.Maker), ledger.AssetID(b.Asset0), p); err != nil {
		txn.Rollback()
		return err
	}

	// 双方按各自成交比例给撮合者付费
	feeA, err := e.payFee(txn, a, matcher, q)
	if err != nil {
		txn.Rollback()
		return err
	}
	feeB, err := e.payFee(txn, b, matcher, p)
	if err != nil {
		txn.Rollback()
		return err
	}

	now := time.Now().UnixMilli()
	aPrev, bPrev := a.Clone(), b.Clone()

	a.Fulfilled0 += q
	a.Fulfilled1 += p
	a.MatcherFeeUsed += feeA
	a.UpdatedAt = now

	b.Fulfilled0 += p
	b.Fulfilled1 += q
	b.MatcherFeeUsed += feeB
	b.UpdatedAt = now

	if err := e.completeIfFilled(txn, a); err != nil {
		txn.Rollback()
		return err
	}
	if err := e.completeIfFilled(txn, b); err != nil {
		txn.Rollback()
		return err
	}

	if err := e.orders.Put(ctx, a); err != nil {
		txn.Rollback()
		return err
	}
	if err := e.orders.Put(ctx, b); err != nil {
		// 第一单已写入，恢复旧值保持仓库一致
		e.restoreOrder(ctx, aPrev)
		txn.Rollback()
		return err
	}

	t := &trade.Trade{
		ID:        trade.GenerateTradeID(),
		Kind:      trade.KindMatch,
		OrderA:    a.ID,
		OrderB:    b.ID,
		MakerA:    a.Maker,
		MakerB:    b.Maker,
		Matcher:   int64(matcher),
		Asset0:    a.Asset0,
		Asset1:    a.Asset1,
		Amount0:   q,
		Amount1:   p,
		FeePaid:   feeA + feeB,
		Timestamp: now,
	}
	if err := e.trades.Append(ctx, t); err != nil {
		e.restoreOrder(ctx, aPrev)
		e.restoreOrder(ctx, bPrev)
		txn.Rollback()
		return err
	}

	txn.Commit()

	e.publish(t)
	e.persistVaultBalance(ctx, ledger.AccountID(a.Maker))
	e.persistVaultBalance(ctx, ledger.AccountID(b.Maker))
	e.persistVaultBalance(ctx, matcher)
	return nil
}
