package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart() *Chart {
	return NewChart([]Account{
		{ID: 1, Code: "1", Level: 1},
		{ID: 2, Code: "1.1", Level: 2, ParentID: ptr(int64(1))},
		{ID: 3, Code: "1.1.02", Level: 3, ParentID: ptr(int64(2)), AcceptsPostings: true},
		{ID: 4, Code: "1.1.01", Level: 3, ParentID: ptr(int64(2)), AcceptsPostings: true},
		{ID: 5, Code: "4.1.01", Level: 3, ParentID: ptr(int64(99)), AcceptsPostings: true},
	})
}

func TestChartIndexesAndOrdersChildren(t *testing.T) {
	c := sampleChart()
	require.Equal(t, 5, c.Len())

	roots := c.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "1", roots[0].Code)
	assert.Equal(t, "4.1.01", roots[1].Code, "dangling parent is treated as root")

	kids := c.Children(2)
	require.Len(t, kids, 2)
	assert.Equal(t, "1.1.01", kids[0].Code)
	assert.Equal(t, "1.1.02", kids[1].Code)

	acc, ok := c.ByCode("1.1.02")
	require.True(t, ok)
	assert.Equal(t, int64(3), acc.ID)
}

func TestChartAncestorsAndLeaves(t *testing.T) {
	c := sampleChart()

	anc := c.Ancestors(4)
	require.Len(t, anc, 2)
	assert.Equal(t, "1.1", anc[0].Code)
	assert.Equal(t, "1", anc[1].Code)

	leaves := c.Leaves(1)
	require.Len(t, leaves, 2)
	assert.Equal(t, "1.1.01", leaves[0].Code)
	assert.Equal(t, "1.1.02", leaves[1].Code)

	assert.Empty(t, c.Leaves(42))
}
