package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeepsLength(t *testing.T) {
	raw := []string{"  Alice Anderson  ", "", "\t", "SUPPORTER  PRODUCTS ORDERED"}
	got := Normalize(raw)
	require.Len(t, got, len(raw))

	assert.Equal(t, "Alice Anderson", got[0].Text)
	assert.False(t, got[0].Blank)
	assert.True(t, got[1].Blank)
	assert.True(t, got[2].Blank)
	assert.Equal(t, "SUPPORTER  PRODUCTS ORDERED", got[3].Text)
	assert.Equal(t, "SUPPORTER PRODUCTS ORDERED", got[3].Key)
}

func TestNormalizeLineFormFeed(t *testing.T) {
	l := NormalizeLine("\fGroup Delivery")
	assert.True(t, l.PageBreak)
	assert.Equal(t, "Group Delivery", l.Text)

	l = NormalizeLine("\f")
	assert.True(t, l.PageBreak)
	assert.True(t, l.Blank)
}

func TestNormalizeLineNonBreakingSpace(t *testing.T) {
	l := NormalizeLine("Price: $10.99\u00a0\u00a0 3")
	assert.Equal(t, "Price: $10.99 3", l.Key)
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Equal(t, []string{"a", "b", "", "c"}, Split("a\r\nb\n\nc\n"))
	assert.Equal(t, []string{"x", "\fy"}, Split("x\n\fy"))
}
