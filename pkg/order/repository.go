// 文件: pkg/order/repository.go
// 订单仓库接口 + 内存实现
//
// 仓库是订单记录的唯一属主:
// - 引擎从 Get 拿到副本，改完通过 Put 写回
// - 订单只追加、只更新，从不删除 (终态订单留作审计)
// - ID 从 1 开始顺序分配

package order

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound 订单不存在
	ErrNotFound = errors.New("order not found")
)

// Repository 订单仓库
type Repository interface {
	// NextID 分配下一个顺序 ID (首单为 1)
	NextID(ctx context.Context) (uint64, error)
	// Get 按 ID 读取订单副本，不存在返回 ErrNotFound
	Get(ctx context.Context, id uint64) (*Order, error)
	// Put 写入/覆盖订单
	Put(ctx context.Context, o *Order) error
	// ListByMaker 按挂单者倒序列出订单
	ListByMaker(ctx context.Context, maker int64, limit int) ([]*Order, error)
}

// =============================================================================
// MemoryRepository - 内存实现
// =============================================================================

// 确保实现了接口
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository 内存订单仓库 (引擎默认工作存储)
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uint64]*Order
	nextID uint64
}

// NewMemoryRepository 创建内存仓库
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[uint64]*Order),
		nextID: 1,
	}
}

// NextID 分配下一个顺序 ID
func (r *MemoryRepository) NextID(ctx context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	return id, nil
}

// Get 按 ID 读取订单副本
func (r *MemoryRepository) Get(ctx context.Context, id uint64) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o.Clone(), nil
}

// Put 写入/覆盖订单
func (r *MemoryRepository) Put(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o.Clone()
	return nil
}

// ListByMaker 按挂单者倒序 (ID 大的在前) 列出订单
func (r *MemoryRepository) ListByMaker(ctx context.Context, maker int64, limit int) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Order
	// ID 顺序分配，从大往小扫
	for id := r.nextID - 1; id >= 1; id-- {
		o, ok := r.orders[id]
		if !ok || o.Maker != maker {
			continue
		}
		result = append(result, o.Clone())
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Len 订单总数 (测试/监控用)
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
