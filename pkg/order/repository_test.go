// 文件: pkg/order/repository_test.go
// 订单模型与内存仓库测试

package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusActive.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestOrder_Remaining(t *testing.T) {
	o := &Order{
		Amount0:    20_000_000_000,
		Amount1:    100_000_000,
		Fulfilled0: 10_000_000_000,
		Fulfilled1: 51_000_000,
		MatcherFee: 1_000,
		FeeLocked:  1_000,
	}
	assert.Equal(t, uint64(10_000_000_000), o.Remaining0())
	assert.Equal(t, uint64(49_000_000), o.Remaining1())
	assert.Equal(t, uint64(1_000), o.FeeRemaining())

	o.MatcherFeeUsed = 500
	assert.Equal(t, uint64(500), o.FeeRemaining())

	// 押金小于声明费用时，以押金为准
	o.FeeLocked = 400
	assert.Equal(t, uint64(0), o.FeeRemaining())
}

func TestMemoryRepository_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	id1, err := repo.NextID(ctx)
	require.NoError(t, err)
	id2, err := repo.NextID(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	id, _ := repo.NextID(ctx)
	require.NoError(t, repo.Put(ctx, &Order{ID: id, Maker: 7, Asset0: "USDC", Amount0: 100}))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)

	// 改动副本不应影响仓库里的记录
	got.Fulfilled0 = 99
	again, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), again.Fulfilled0)
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	repo := NewMemoryRepository()
	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_ListByMaker(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for i := 0; i < 5; i++ {
		id, _ := repo.NextID(ctx)
		maker := int64(1)
		if i%2 == 1 {
			maker = 2
		}
		require.NoError(t, repo.Put(ctx, &Order{ID: id, Maker: maker}))
	}

	orders, err := repo.ListByMaker(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	// 倒序: 新单在前
	assert.Equal(t, uint64(5), orders[0].ID)
	assert.Equal(t, uint64(3), orders[1].ID)
	assert.Equal(t, uint64(1), orders[2].ID)

	limited, err := repo.ListByMaker(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
