// 文件: pkg/order/redis_cache.go
// 订单读缓存 (Redis 实现)
//
// order_by_id 是读密集路径 (撮合者轮询挂单)，给仓库套一层 Redis:
// - Get: 先查缓存，未命中回源并回填
// - Put: 先写底层仓库，再删缓存键 (写后失效，不做双写)
// - 缓存不可用时直接回源，读路径永不因缓存失败

package order

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "order:id:"
	cacheTTL       = 5 * time.Minute
)

// 确保实现了接口
var _ Repository = (*CachedRepository)(nil)

// CachedRepository 带 Redis 读缓存的订单仓库
type CachedRepository struct {
	inner  Repository
	client *redis.Client
}

// NewCachedRepository 包装底层仓库
func NewCachedRepository(inner Repository, addr string) *CachedRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &CachedRepository{inner: inner, client: rdb}
}

// NewCachedRepositoryWithClient 使用已有客户端 (测试注入用)
func NewCachedRepositoryWithClient(inner Repository, client *redis.Client) *CachedRepository {
	return &CachedRepository{inner: inner, client: client}
}

func cacheKey(id uint64) string {
	return cacheKeyPrefix + strconv.FormatUint(id, 10)
}

// NextID 透传底层仓库
func (r *CachedRepository) NextID(ctx context.Context) (uint64, error) {
	return r.inner.NextID(ctx)
}

// Get 先查缓存，未命中回源并回填
func (r *CachedRepository) Get(ctx context.Context, id uint64) (*Order, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var o Order
		if jsonErr := json.Unmarshal(data, &o); jsonErr == nil {
			return &o, nil
		}
		// 缓存内容损坏，当作未命中
	}

	o, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(o); jsonErr == nil {
		// 回填失败只影响命中率，忽略
		r.client.Set(ctx, cacheKey(id), data, cacheTTL)
	}
	return o, nil
}

// Put 先写底层，再失效缓存
func (r *CachedRepository) Put(ctx context.Context, o *Order) error {
	if err := r.inner.Put(ctx, o); err != nil {
		return err
	}
	r.client.Del(ctx, cacheKey(o.ID))
	return nil
}

// ListByMaker 列表查询不走缓存
func (r *CachedRepository) ListByMaker(ctx context.Context, maker int64, limit int) ([]*Order, error) {
	return r.inner.ListByMaker(ctx, maker, limit)
}
