// 文件: pkg/trade/model.go
// 成交记录模型
//
// 每次成功的 fulfill_order / match_orders 追加一条记录。
// 记录只追加、不修改、不删除，供外部分页读取。

package trade

// Kind 成交类型
type Kind int8

const (
	KindFulfill Kind = iota + 1 // 直接吃单
	KindMatch                   // 第三方撮合
)

func (k Kind) String() string {
	switch k {
	case KindFulfill:
		return "FULFILL"
	case KindMatch:
		return "MATCH"
	}
	return "UNKNOWN"
}

// Trade 成交记录
type Trade struct {
	// ID 雪花 ID (全局唯一，非顺序语义; 顺序语义由落库自增序号承载)
	ID  int64 `gorm:"column:trade_id;uniqueIndex" json:"id"`
	Seq uint  `gorm:"primaryKey;autoIncrement;column:seq" json:"-"`

	Kind Kind `gorm:"column:kind" json:"kind"`

	// 订单双方; 直接吃单时 OrderB 为 0，吃单者记在 Matcher
	OrderA uint64 `gorm:"column:order_a;index" json:"order_a"`
	OrderB uint64 `gorm:"column:order_b;index" json:"order_b"`
	MakerA int64  `gorm:"column:maker_a" json:"maker_a"`
	MakerB int64  `gorm:"column:maker_b" json:"maker_b"`

	// Matcher 撮合者 (直接吃单时即吃单者)
	Matcher int64 `gorm:"column:matcher" json:"matcher"`

	// 成交量: Amount0 为 asset0 方向的量，Amount1 为 asset1 方向的量
	Asset0  string `gorm:"column:asset0;size:32" json:"asset0"`
	Asset1  string `gorm:"column:asset1;size:32" json:"asset1"`
	Amount0 uint64 `gorm:"column:amount0" json:"amount0"`
	Amount1 uint64 `gorm:"column:amount1" json:"amount1"`

	// FeePaid 本次实付给撮合者的手续费总额 (两侧合计)
	FeePaid uint64 `gorm:"column:fee_paid" json:"fee_paid"`

	Timestamp int64 `gorm:"column:ts" json:"ts"` // unix milli
}

// TableName GORM 表名
func (Trade) TableName() string {
	return "trades"
}
