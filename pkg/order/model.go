// 文件: pkg/order/model.go
// 限价单模型
//
// 一张订单表示挂单者锁进合约的一笔兑换意向:
// 拿 amount0 个 asset0，换 amount1 个 asset1。
// 限价 = amount1 / amount0 (每单位 asset0 的 asset1 报价)，创建后不变。

package order

// =============================================================================
// 订单状态
// =============================================================================

type Status int8

const (
	StatusActive    Status = iota // 挂单中，可被成交/撮合/撤销
	StatusCompleted               // 完全成交 (fulfilled0 == amount0)
	StatusCanceled                // 已撤销，剩余部分已退回
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCanceled:
		return "CANCELED"
	}
	return "UNKNOWN"
}

// Terminal 是否终态 (终态订单任何字段不再变化)
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// =============================================================================
// Order - 限价单
// =============================================================================

type Order struct {
	// ID 顺序分配，从 1 开始，创建后不变
	ID    uint64 `gorm:"primaryKey;column:id"`
	Maker int64  `gorm:"column:maker;index"`

	// 卖出侧: 创建时整笔锁进合约托管账户
	Asset0  string `gorm:"column:asset0;size:32;index:idx_pair"`
	Amount0 uint64 `gorm:"column:amount0"`

	// 买入侧: 期望换回的资产和总量
	Asset1  string `gorm:"column:asset1;size:32;index:idx_pair"`
	Amount1 uint64 `gorm:"column:amount1"`

	// 累计成交，单调递增; Fulfilled0 <= Amount0
	Fulfilled0 uint64 `gorm:"column:fulfilled0"`
	Fulfilled1 uint64 `gorm:"column:fulfilled1"`

	// 撮合手续费: 创建时声明的总额 / 已付出 / 实际锁定的押金
	// FeeLocked <= MatcherFee (金库余额不足时按可用封顶)
	MatcherFee     uint64 `gorm:"column:matcher_fee"`
	MatcherFeeUsed uint64 `gorm:"column:matcher_fee_used"`
	FeeLocked      uint64 `gorm:"column:fee_locked"`

	Status Status `gorm:"column:status;index"`

	CreatedAt int64 `gorm:"column:created_at"` // unix milli
	UpdatedAt int64 `gorm:"column:updated_at"`
}

// TableName GORM 表名
func (Order) TableName() string {
	return "orders"
}

// Remaining0 还能卖出的 asset0 数量
func (o *Order) Remaining0() uint64 {
	return o.Amount0 - o.Fulfilled0
}

// Remaining1 还想买入的 asset1 数量
// 撮合产生的价格改善可能让 Fulfilled1 超过 Amount1，此时剩余为 0
func (o *Order) Remaining1() uint64 {
	if o.Fulfilled1 >= o.Amount1 {
		return 0
	}
	return o.Amount1 - o.Fulfilled1
}

// FeeRemaining 还可付出的手续费 (受押金封顶)
func (o *Order) FeeRemaining() uint64 {
	if o.FeeLocked <= o.MatcherFeeUsed {
		return 0
	}
	return o.FeeLocked - o.MatcherFeeUsed
}

// IsActive 是否挂单中
func (o *Order) IsActive() bool {
	return o.Status == StatusActive
}

// Clone 深拷贝 (仓库边界隔离用)
func (o *Order) Clone() *Order {
	c := *o
	return &c
}
