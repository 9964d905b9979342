// 文件: pkg/vault/mysql_repo.go
// 金库余额仓库 (GORM 实现)

package vault

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"obx.com/pkg/ledger"
)

// BalanceRepo 金库余额仓库
type BalanceRepo interface {
	// Upsert 写入最新余额快照
	Upsert(ctx context.Context, account ledger.AccountID, asset ledger.AssetID, b ledger.Balance) error
	// Get 读取余额记录，不存在返回 nil
	Get(ctx context.Context, account ledger.AccountID, asset ledger.AssetID) (*BalanceRecord, error)
	// ListByAccount 读取账户全部余额记录
	ListByAccount(ctx context.Context, account ledger.AccountID) ([]*BalanceRecord, error)
}

// 确保实现了接口
var _ BalanceRepo = (*MySQLBalanceRepo)(nil)

// MySQLBalanceRepo MySQL 实现
type MySQLBalanceRepo struct {
	db *gorm.DB
}

// NewMySQLBalanceRepo 创建 MySQL 余额仓库
func NewMySQLBalanceRepo(db *gorm.DB) *MySQLBalanceRepo {
	return &MySQLBalanceRepo{db: db}
}

// Upsert 写入最新余额快照
func (r *MySQLBalanceRepo) Upsert(ctx context.Context, account ledger.AccountID, asset ledger.AssetID, b ledger.Balance) error {
	record := &BalanceRecord{
		Account:   int64(account),
		Asset:     string(asset),
		Available: b.Available,
		Locked:    b.Locked,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}, {Name: "asset"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"available":  b.Available,
				"locked":     b.Locked,
				"version":    gorm.Expr("version + 1"),
				"updated_at": record.UpdatedAt,
			}),
		}).
		Create(record).Error
}

// Get 读取余额记录
func (r *MySQLBalanceRepo) Get(ctx context.Context, account ledger.AccountID, asset ledger.AssetID) (*BalanceRecord, error) {
	var record BalanceRecord
	err := r.db.WithContext(ctx).
		Where("account = ? AND asset = ?", int64(account), string(asset)).
		First(&record).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByAccount 读取账户全部余额记录
func (r *MySQLBalanceRepo) ListByAccount(ctx context.Context, account ledger.AccountID) ([]*BalanceRecord, error) {
	var records []*BalanceRecord
	err := r.db.WithContext(ctx).
		Where("account = ?", int64(account)).
		Find(&records).Error
	return records, err
}
