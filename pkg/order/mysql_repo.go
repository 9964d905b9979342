// 文件: pkg/order/mysql_repo.go
// 订单仓库 MySQL 实现
//
// 【设计】
// - 使用 GORM 作为 ORM
// - 引擎对所有写操作串行化，NextID 用 MAX(id)+1 不存在竞争
// - 所有操作带 context 支持超时控制

package order

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 确保实现了接口
var _ Repository = (*MySQLRepository)(nil)

// MySQLRepository MySQL 实现
type MySQLRepository struct {
	db *gorm.DB
}

// NewMySQLRepository 创建 MySQL 订单仓库
func NewMySQLRepository(db *gorm.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// NextID 分配下一个顺序 ID
func (r *MySQLRepository) NextID(ctx context.Context) (uint64, error) {
	var maxID uint64
	err := r.db.WithContext(ctx).
		Model(&Order{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		return 0, err
	}
	return maxID + 1, nil
}

// Get 按 ID 读取订单
func (r *MySQLRepository) Get(ctx context.Context, id uint64) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Put 写入/覆盖订单
func (r *MySQLRepository) Put(ctx context.Context, o *Order) error {
	o.UpdatedAt = time.Now().UnixMilli()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"fulfilled0":       o.Fulfilled0,
				"fulfilled1":       o.Fulfilled1,
				"matcher_fee_used": o.MatcherFeeUsed,
				"fee_locked":       o.FeeLocked,
				"status":           o.Status,
				"updated_at":       o.UpdatedAt,
			}),
		}).
		Create(o).Error
}

// ListByMaker 按挂单者倒序列出订单
func (r *MySQLRepository) ListByMaker(ctx context.Context, maker int64, limit int) ([]*Order, error) {
	var orders []*Order
	q := r.db.WithContext(ctx).
		Where("maker = ?", maker).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&orders).Error
	return orders, err
}
