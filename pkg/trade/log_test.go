// 文件: pkg/trade/log_test.go
// 成交日志测试

package trade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendN(t *testing.T, l Log, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := l.Append(ctx, &Trade{
			ID:      GenerateTradeID(),
			Kind:    KindMatch,
			OrderA:  uint64(i + 1),
			OrderB:  uint64(i + 2),
			Amount0: uint64(100 * (i + 1)),
		})
		require.NoError(t, err)
	}
}

func TestMemoryLog_Pagination(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog()
	appendN(t, l, PageSize+3)

	// 第一页满页，顺序与写入一致
	page, err := l.Page(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page, PageSize)
	assert.Equal(t, uint64(1), page[0].OrderA)
	assert.Equal(t, uint64(PageSize), page[PageSize-1].OrderA)

	// 第二页只剩 3 条
	page, err = l.Page(ctx, PageSize)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, uint64(PageSize+1), page[0].OrderA)

	// 越界返回空页
	page, err = l.Page(ctx, PageSize*10)
	require.NoError(t, err)
	assert.Empty(t, page)

	total, err := l.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(PageSize+3), total)
}

func TestMemoryLog_PageReturnsCopies(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog()
	appendN(t, l, 1)

	page, err := l.Page(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)

	page[0].Amount0 = 0
	again, err := l.Page(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), again[0].Amount0)
}

func TestGenerateTradeID_Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateTradeID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
