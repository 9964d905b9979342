// 文件: pkg/engine/engine.go
// 限价单引擎 - 订单生命周期
//
// 核心职责:
// 1. deposit: 手续费资产充值进金库
// 2. create_order: 锁定 asset0，按声明押手续费，顺序分配订单 ID
// 3. cancel_order: 退还未成交部分和未用押金
// 4. fulfill_order: 对手方直接吃单，按限价比例成交
// 5. order_by_id / trades: 只读查询
//
// 并发模型:
// 所有公开操作加同一把互斥锁串行执行，每次操作对应一个账本事务。
// 任何失败路径回滚事务，状态零残留 (等价于链上调用的全有或全无)。
//
// 架构:
//
//   调用方 (用户/撮合者)
//          │
//          ▼
//   ┌──────────────────────┐
//   │   Engine             │
//   │   - 串行化 + 事务    │
//   └──────────────────────┘
//      │        │       │
//      ▼        ▼       ▼
//   ledger    vault   order.Repository
//   (余额)   (手续费)  (订单表)
//                        │
//                        ▼
//                   trade.Log → feed (NATS/Kafka)

package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"obx.com/pkg/feed"
	"obx.com/pkg/ledger"
	"obx.com/pkg/order"
	"obx.com/pkg/trade"
	"obx.com/pkg/vault"
)

// =============================================================================
// 配置
// =============================================================================

// Config 引擎配置
type Config struct {
	// FeeAsset 手续费资产 (链原生资产)
	FeeAsset ledger.AssetID

	// Orders 订单仓库，为空则用内存仓库
	Orders order.Repository

	// Trades 成交日志，为空则用内存日志
	Trades trade.Log

	// Publisher 成交事件发布器 (可选)
	Publisher feed.Publisher

	// VaultRepo 金库余额落库仓库 (可选, write-behind)
	VaultRepo vault.BalanceRepo
}

// DefaultConfig 默认配置 (纯内存，手续费资产 ETH)
func DefaultConfig() Config {
	return Config{FeeAsset: "ETH"}
}

// =============================================================================
// Payment - 附带支付
// =============================================================================

// Payment 随调用附带的支付 (对应链上调用的 attached coins)
type Payment struct {
	Asset  ledger.AssetID
	Amount uint64
}

// =============================================================================
// Engine
// =============================================================================

// Engine 限价单引擎
//
// 使用示例:
//
//	eng := engine.New(engine.DefaultConfig())
//	eng.Deposit(ctx, alice, engine.Payment{Asset: "ETH", Amount: 1000})
//	id, err := eng.CreateOrder(ctx, alice,
//	    engine.Payment{Asset: "USDC", Amount: 20_000_000_000},
//	    "BTC", 100_000_000, 1000)
type Engine struct {
	mu sync.Mutex

	state  *ledger.State
	vault  *vault.Vault
	orders order.Repository
	trades trade.Log

	publisher feed.Publisher
	vaultRepo vault.BalanceRepo
}

// New 创建引擎
func New(cfg Config) *Engine {
	if cfg.FeeAsset == "" {
		cfg.FeeAsset = "ETH"
	}
	if cfg.Orders == nil {
		cfg.Orders = order.NewMemoryRepository()
	}
	if cfg.Trades == nil {
		cfg.Trades = trade.NewMemoryLog()
	}

	return &Engine{
		state:     ledger.NewState(),
		vault:     vault.New(cfg.FeeAsset),
		orders:    cfg.Orders,
		trades:    cfg.Trades,
		publisher: cfg.Publisher,
		vaultRepo: cfg.VaultRepo,
	}
}

// State 账本只读访问 (测试/对账用)
func (e *Engine) State() *ledger.State {
	return e.state
}

// FeeAsset 手续费资产标识
func (e *Engine) FeeAsset() ledger.AssetID {
	return e.vault.FeeAsset()
}

// =============================================================================
// 资金操作
// =============================================================================

// FundAccount 外部入金 (对应链上的代币转入，测试和网关调用)
func (e *Engine) FundAccount(ctx context.Context, account ledger.AccountID, asset ledger.AssetID, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.state.Begin()
	if err := txn.Credit(account, asset, amount); err != nil {
		txn.Rollback()
		return err
	}
	txn.Commit()
	return nil
}

// Deposit 手续费资产充值进金库
func (e *Engine) Deposit(ctx context.Context, caller ledger.AccountID, payment Payment) error {
	if payment.Amount == 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.state.Begin()
	if err := e.vault.Deposit(txn, caller, payment.Asset, payment.Amount); err != nil {
		txn.Rollback()
		if err == vault.ErrNotFeeAsset {
			return ErrAssetMismatch
		}
		return err
	}
	txn.Commit()

	e.persistVaultBalance(ctx, caller)
	return nil
}

// Withdraw 从金库提现手续费资产
func (e *Engine) Withdraw(ctx context.Context, caller ledger.AccountID, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.state.Begin()
	if err := txn.Debit(caller, e.vault.FeeAsset(), amount); err != nil {
		txn.Rollback()
		if err == ledger.ErrInsufficientBalance {
			return ErrInsufficientVaultBalance
		}
		return err
	}
	txn.Commit()

	e.persistVaultBalance(ctx, caller)
	return nil
}

// =============================================================================
// 订单生命周期
// =============================================================================

// CreateOrder 创建限价单
//
// 附带支付即卖出侧 (asset0/amount0)，整笔锁进合约托管账户。
// matcherFee 按金库可用余额封顶锁定押金。
// 返回顺序分配的订单 ID (首单为 1)。
func (e *Engine) CreateOrder(ctx context.Context, caller ledger.AccountID, payment Payment, asset1 ledger.AssetID, amount1, matcherFee uint64) (uint64, error) {
	if payment.Amount == 0 || amount1 == 0 {
		return 0, ErrInvalidAmount
	}
	// 买卖两侧必须是不同资产
	if payment.Asset == asset1 {
		return 0, ErrAssetPairMismatch
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	txn := e.state.Begin()

	// 锁定卖出侧资产
	if err := txn.Transfer(caller, ledger.EscrowAccount, payment.Asset, payment.Amount); err != nil {
		txn.Rollback()
		return 0, err
	}

	// 押手续费 (可用不足时按可用封顶)
	feeLocked := e.vault.EscrowFee(txn, caller, matcherFee)

	id, err := e.orders.NextID(ctx)
	if err != nil {
		txn.Rollback()
		return 0, err
	}

	now := time.Now().UnixMilli()
	o := &order.Order{
		ID:         id,
		Maker:      int64(caller),
		Asset0:     string(payment.Asset),
		Amount0:    payment.Amount,
		Asset1:     string(asset1),
		Amount1:    amount1,
		MatcherFee: matcherFee,
		FeeLocked:  feeLocked,
		Status:     order.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.orders.Put(ctx, o); err != nil {
		txn.Rollback()
		return 0, err
	}

	txn.Commit()
	e.persistVaultBalance(ctx, caller)
	return id, nil
}

// CancelOrder 撤销挂单
//
// 只有挂单者本人可撤，只能撤 Active 状态的订单。
// 退还未成交的 asset0 和未付出的手续费押金。
func (e *Engine) CancelOrder(ctx context.Context, caller ledger.AccountID, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.activeOrder(ctx, id)
	if err != nil {
		return err
	}
	if o.Maker != int64(caller) {
		return ErrNotMaker
	}

	txn := e.state.Begin()

	if rem := o.Remaining0(); rem > 0 {
		if err := txn.Transfer(ledger.EscrowAccount, caller, ledger.AssetID(o.Asset0), rem); err != nil {
			txn.Rollback()
			return err
		}
	}
	if err := e.vault.ReleaseFee(txn, caller, o.FeeRemaining()); err != nil {
		txn.Rollback()
		return err
	}

	o.Status = order.StatusCanceled
	o.UpdatedAt = time.Now().UnixMilli()
	if err := e.orders.Put(ctx, o); err != nil {
		txn.Rollback()
		return err
	}

	txn.Commit()
	e.persistVaultBalance(ctx, caller)
	return nil
}

// FulfillOrder 直接吃单
//
// 吃单者附带 asset1 支付 (不超过订单剩余想要的量)，
// 按订单限价换走等比例的 asset0，并按成交比例赚取手续费。
func (e *Engine) FulfillOrder(ctx context.Context, caller ledger.AccountID, id uint64, payment Payment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.activeOrder(ctx, id)
	if err != nil {
		return err
	}
	if string(payment.Asset) != o.Asset1 {
		return ErrAssetMismatch
	}

	paid1 := payment.Amount
	if paid1 == 0 || paid1 > o.Remaining1() {
		return ErrInvalidAmount
	}

	// 按订单限价折算成交量: fill0 = paid1 * amount0 / amount1 (向下取整)
	fill0 := mulDiv(paid1, o.Amount0, o.Amount1)
	if fill0 > o.Remaining0() {
		fill0 = o.Remaining0()
	}
	if fill0 == 0 {
		return ErrInvalidAmount
	}

	txn := e.state.Begin()

	// asset1: 吃单者 -> 挂单者
	if err := txn.Transfer(caller, ledger.AccountID(o.Maker), ledger.AssetID(o.Asset1), paid1); err != nil {
		txn.Rollback()
		return err
	}
	// asset0: 托管 -> 吃单者
	if err := txn.Transfer(ledger.EscrowAccount, caller, ledger.AssetID(o.Asset0), fill0); err != nil {
		txn.Rollback()
		return err
	}

	// 按成交比例付手续费
	feePaid, err := e.payFee(txn, o, caller, fill0)
	if err != nil {
		txn.Rollback()
		return err
	}

	oPrev := o.Clone()

	o.Fulfilled0 += fill0
	o.Fulfilled1 += paid1
	o.MatcherFeeUsed += feePaid
	o.UpdatedAt = time.Now().UnixMilli()
	if err := e.completeIfFilled(txn, o); err != nil {
		txn.Rollback()
		return err
	}
	if err := e.orders.Put(ctx, o); err != nil {
		txn.Rollback()
		return err
	}

	t := &trade.Trade{
		ID:        trade.GenerateTradeID(),
		Kind:      trade.KindFulfill,
		OrderA:    o.ID,
		MakerA:    o.Maker,
		Matcher:   int64(caller),
		Asset0:    o.Asset0,
		Asset1:    o.Asset1,
		Amount0:   fill0,
		Amount1:   paid1,
		FeePaid:   feePaid,
		Timestamp: o.UpdatedAt,
	}
	if err := e.trades.Append(ctx, t); err != nil {
		// 订单已写入，恢复旧值保持仓库一致
		e.restoreOrder(ctx, oPrev)
		txn.Rollback()
		return err
	}

	txn.Commit()

	e.publish(t)
	e.persistVaultBalance(ctx, ledger.AccountID(o.Maker))
	e.persistVaultBalance(ctx, caller)
	return nil
}

// =============================================================================
// 查询
// =============================================================================

// OrderByID 按 ID 查订单
func (e *Engine) OrderByID(ctx context.Context, id uint64) (*order.Order, error) {
	return e.orders.Get(ctx, id)
}

// Trades 从 offset 开始读一页成交记录
func (e *Engine) Trades(ctx context.Context, offset uint64) ([]*trade.Trade, error) {
	return e.trades.Page(ctx, offset)
}

// =============================================================================
// 内部工具
// =============================================================================

// activeOrder 读取必须处于 Active 状态的订单
func (e *Engine) activeOrder(ctx context.Context, id uint64) (*order.Order, error) {
	o, err := e.orders.Get(ctx, id)
	if err != nil {
		if err == order.ErrNotFound {
			return nil, ErrOrderNotActive
		}
		return nil, err
	}
	if !o.IsActive() {
		return nil, ErrOrderNotActive
	}
	return o, nil
}

// payFee 按 fill0 占 amount0 的比例付手续费，受剩余押金封顶
func (e *Engine) payFee(txn *ledger.Txn, o *order.Order, to ledger.AccountID, fill0 uint64) (uint64, error) {
	want := mulDiv(o.MatcherFee, fill0, o.Amount0)
	if rem := o.FeeRemaining(); want > rem {
		want = rem
	}
	return e.vault.PayFee(txn, ledger.AccountID(o.Maker), to, want)
}

// completeIfFilled 完全成交则转终态并退还剩余押金
func (e *Engine) completeIfFilled(txn *ledger.Txn, o *order.Order) error {
	if o.Fulfilled0 != o.Amount0 {
		return nil
	}
	if err := e.vault.ReleaseFee(txn, ledger.AccountID(o.Maker), o.FeeRemaining()); err != nil {
		return err
	}
	o.Status = order.StatusCompleted
	return nil
}

// restoreOrder 补偿性回写订单快照，失败只记日志
func (e *Engine) restoreOrder(ctx context.Context, o *order.Order) {
	if err := e.orders.Put(ctx, o); err != nil {
		log.Printf("[Engine] restore order %d failed: %v", o.ID, err)
	}
}

// publish 异步推送成交事件，失败只记日志
func (e *Engine) publish(t *trade.Trade) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishTrade(t); err != nil {
		log.Printf("[Engine] publish trade %d failed: %v", t.ID, err)
	}
}

// persistVaultBalance 金库余额 write-behind 落库，失败只记日志
func (e *Engine) persistVaultBalance(ctx context.Context, account ledger.AccountID) {
	if e.vaultRepo == nil {
		return
	}
	b := e.state.Balance(account, e.vault.FeeAsset())
	if err := e.vaultRepo.Upsert(ctx, account, e.vault.FeeAsset(), b); err != nil {
		log.Printf("[Engine] persist vault balance account=%d failed: %v", account, err)
	}
}
