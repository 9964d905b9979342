// 文件: pkg/trade/mysql_repo.go
// 成交日志 MySQL 实现
//
// 【设计】
// - 自增列 seq 承载写入顺序，Page 按 seq 排序 + OFFSET/LIMIT
// - trade_id (雪花) 唯一索引做幂等: 重复 Append 直接忽略

package trade

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 确保实现了接口
var _ Log = (*MySQLLog)(nil)

// MySQLLog MySQL 成交日志
type MySQLLog struct {
	db *gorm.DB
}

// NewMySQLLog 创建 MySQL 成交日志
func NewMySQLLog(db *gorm.DB) *MySQLLog {
	return &MySQLLog{db: db}
}

// Append 追加一条成交记录 (按 trade_id 幂等)
func (l *MySQLLog) Append(ctx context.Context, t *Trade) error {
	return l.db.WithContext(ctx).
		Clauses(clause.Insert{Modifier: "IGNORE"}).
		Create(t).Error
}

// Page 从 offset 开始按写入顺序读一页
func (l *MySQLLog) Page(ctx context.Context, offset uint64) ([]*Trade, error) {
	var trades []*Trade
	err := l.db.WithContext(ctx).
		Order("seq ASC").
		Offset(int(offset)).
		Limit(PageSize).
		Find(&trades).Error
	return trades, err
}

// Len 已写入条数
func (l *MySQLLog) Len(ctx context.Context) (uint64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&Trade{}).Count(&count).Error
	return uint64(count), err
}
