// 文件: pkg/vault/model.go
// 金库余额持久化模型

package vault

import "time"

// BalanceRecord 金库余额落库记录
//
// 账本是内存态，金库余额通过 write-behind 方式落到 MySQL，
// 用于重启恢复和对账。
type BalanceRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Account   int64  `gorm:"column:account;uniqueIndex:uk_account_asset"`
	Asset     string `gorm:"column:asset;size:32;uniqueIndex:uk_account_asset"`
	Available uint64 `gorm:"column:available"`
	Locked    uint64 `gorm:"column:locked"`
	Version   int    `gorm:"column:version"`
	UpdatedAt time.Time
}

// TableName GORM 表名
func (BalanceRecord) TableName() string {
	return "vault_balances"
}
