package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, PageSize))
	assert.Equal(t, 1, TotalPages(5, PageSize))
	assert.Equal(t, 2, TotalPages(6, PageSize))
	assert.Equal(t, 2, TotalPages(10, PageSize))
}

func TestPagesPartitionCollection(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		var seen []int
		for page := 1; page <= TotalPages(n, PageSize); page++ {
			rows, info := Paginate(items, page, PageSize)
			assert.LessOrEqual(t, len(rows), PageSize)
			assert.Equal(t, n, info.Total)
			seen = append(seen, rows...)
		}
		if n == 0 {
			assert.Empty(t, seen)
			continue
		}
		assert.Equal(t, items, seen, "n=%d", n)
	}
}

func TestPaginatePastEndIsEmpty(t *testing.T) {
	rows, info := Paginate([]string{"a", "b", "c"}, 4, PageSize)
	assert.Empty(t, rows)
	assert.Equal(t, 3, info.Total)
	assert.Equal(t, 1, info.TotalPages)
	assert.False(t, info.HasMore)
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	for _, page := range []int{1844674407370955163, math.MaxInt} {
		rows, info := Paginate([]int{1, 2, 3}, page, PageSize)
		assert.Empty(t, rows)
		assert.Equal(t, page, info.Page)
		assert.Equal(t, 3, info.Total)
		assert.False(t, info.HasMore)
	}

	start, end := Bounds(math.MaxInt, PageSize, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestPaginateClampsPageBelowOne(t *testing.T) {
	rows, info := Paginate([]int{1, 2, 3, 4, 5, 6}, 0, PageSize)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rows)
	assert.Equal(t, 1, info.Page)
	assert.True(t, info.HasMore)
}

func TestPaginateReturnsCopy(t *testing.T) {
	items := []int{1, 2, 3}
	rows, _ := Paginate(items, 1, PageSize)
	rows[0] = 99
	assert.Equal(t, 1, items[0])
}
