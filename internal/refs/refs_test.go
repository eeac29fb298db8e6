package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcform/internal/refs"
)

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, []string{"price", "qty", "max", "_x1"}, refs.Identifiers("price * qty + max(price, 2) - _x1"))
	assert.Empty(t, refs.Identifiers("1 + 2.5"))
	assert.Empty(t, refs.Identifiers(""))
}

func TestOperands(t *testing.T) {
	assert.Equal(t, []string{"price", "qty", "_x1"}, refs.Operands("price * qty + max (price, 2) - _x1"))
	assert.Equal(t, []string{"max"}, refs.Operands("max(max, 1)"))
	assert.Empty(t, refs.Operands("abs(-2)"))
}

func TestExtract(t *testing.T) {
	t.Run("parsed expression", func(t *testing.T) {
		res := refs.Extract("max(b, a) + floor(c * (a + 1))")
		require.True(t, res.Parsed)
		assert.Equal(t, []string{"a", "b", "c"}, res.Variables)
		assert.Equal(t, []string{"floor", "max"}, res.Functions)
	})

	t.Run("unspaced subtraction reads two names", func(t *testing.T) {
		res := refs.Extract("price-discount")
		require.True(t, res.Parsed)
		assert.Equal(t, []string{"discount", "price"}, res.Variables)
	})

	t.Run("literal has no references", func(t *testing.T) {
		res := refs.Extract("42")
		require.True(t, res.Parsed)
		assert.Empty(t, res.Variables)
		assert.Empty(t, res.Functions)
	})

	t.Run("falls back to scan on syntax errors", func(t *testing.T) {
		res := refs.Extract("b ^ 2 + a")
		assert.False(t, res.Parsed)
		assert.Equal(t, []string{"a", "b"}, res.Variables)
	})
}
