// 文件: pkg/trade/log.go
// 成交日志接口 + 内存实现
//
// trades(offset) 语义:
// - 按写入顺序返回，从 offset 开始
// - 每次最多一页 (PageSize)，调用方换 offset 续读
// - offset 越界返回空页，不报错

package trade

import (
	"context"
	"sync"
)

// PageSize trades(offset) 单页条数
const PageSize = 10

// Log 成交日志
type Log interface {
	// Append 追加一条成交记录
	Append(ctx context.Context, t *Trade) error
	// Page 从 offset 开始按写入顺序读一页 (最多 PageSize 条)
	Page(ctx context.Context, offset uint64) ([]*Trade, error)
	// Len 已写入条数
	Len(ctx context.Context) (uint64, error)
}

// =============================================================================
// MemoryLog - 内存实现
// =============================================================================

// 确保实现了接口
var _ Log = (*MemoryLog)(nil)

// MemoryLog 内存成交日志
type MemoryLog struct {
	mu     sync.RWMutex
	trades []*Trade
}

// NewMemoryLog 创建内存日志
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append 追加一条成交记录
func (l *MemoryLog) Append(ctx context.Context, t *Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := *t
	l.trades = append(l.trades, &c)
	return nil
}

// Page 从 offset 开始读一页
func (l *MemoryLog) Page(ctx context.Context, offset uint64) ([]*Trade, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := uint64(len(l.trades))
	if offset >= total {
		return nil, nil
	}
	end := offset + PageSize
	if end > total {
		end = total
	}

	page := make([]*Trade, 0, end-offset)
	for _, t := range l.trades[offset:end] {
		c := *t
		page = append(page, &c)
	}
	return page, nil
}

// Len 已写入条数
func (l *MemoryLog) Len(ctx context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.trades)), nil
}
