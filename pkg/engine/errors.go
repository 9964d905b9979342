// 文件: pkg/engine/errors.go
// 引擎错误分类
//
// 除 ErrInsufficientVaultBalance 外，任何错误都导致整个调用回滚，
// 状态零残留。手续费付不满不报错，按可用押金封顶支付。

package engine

import "errors"

var (
	// ErrInvalidAmount 数量为零或超出可成交范围
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAssetMismatch 附带资产与订单要求不符
	ErrAssetMismatch = errors.New("attached asset does not match order")

	// ErrOrderNotActive 订单不存在或已终态
	ErrOrderNotActive = errors.New("order is not active")

	// ErrNotMaker 非挂单者撤单
	ErrNotMaker = errors.New("caller is not the order maker")

	// ErrPriceNotCrossing 两单价格不交叉
	ErrPriceNotCrossing = errors.New("order prices do not cross")

	// ErrAssetPairMismatch 资产对不成立:
	// 两单不互补、订单买卖同一资产、或与自己撮合
	ErrAssetPairMismatch = errors.New("orders are not a complementary asset pair")

	// ErrInsufficientVaultBalance 金库可用余额不足
	// 只在提现时作为错误返回; 结算路径上按余额封顶，不阻塞成交
	ErrInsufficientVaultBalance = errors.New("insufficient vault balance")
)
