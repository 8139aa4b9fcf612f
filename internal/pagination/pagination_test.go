package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestSlice_TwentyFiveItems(t *testing.T) {
	items := seq(25)

	p1 := Slice(items, 1, 12)
	assert.Equal(t, seq(12), p1.Items)
	assert.Equal(t, 3, p1.TotalPages)
	assert.True(t, p1.HasPager())

	p2 := Slice(items, 2, 12)
	assert.Equal(t, 13, p2.Items[0])
	assert.Len(t, p2.Items, 12)

	p3 := Slice(items, 3, 12)
	assert.Equal(t, []int{25}, p3.Items)
	assert.Equal(t, 3, p3.TotalPages)
}

func TestSlice_Bounds(t *testing.T) {
	items := seq(5)

	clamped := Slice(items, 0, 12)
	assert.Equal(t, 1, clamped.Number)
	assert.Equal(t, items, clamped.Items)
	assert.False(t, clamped.HasPager())

	past := Slice(items, 4, 12)
	assert.Empty(t, past.Items)
	assert.NotNil(t, past.Items)
	assert.Equal(t, 1, past.TotalPages)

	huge := Slice(seq(25), math.MaxInt/6, 12)
	assert.Empty(t, huge.Items)
	assert.Equal(t, math.MaxInt/6, huge.Number)
	assert.Equal(t, 3, huge.TotalPages)

	empty := Slice([]int(nil), 1, 12)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.TotalPages)

	defaulted := Slice(seq(30), 1, 0)
	assert.Equal(t, DefaultPageSize, defaulted.Size)
	assert.Len(t, defaulted.Items, DefaultPageSize)
}

func TestSlice_DoesNotAliasAppends(t *testing.T) {
	items := seq(25)
	p := Slice(items, 1, 12)
	p.Items = append(p.Items, 99)
	assert.Equal(t, 13, items[12])
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 3, TotalPages(25, 12))
}
