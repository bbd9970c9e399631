package colour

import (
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestParse(t *testing.T) {
	c, err := Parse(" Blue ")
	require.NoError(t, err)
	assert.Equal(t, Blue, c)

	_, err = Parse("octarine")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownColour)
}

func TestHexAndRGBA(t *testing.T) {
	assert.Equal(t, "#3b82f6", Blue.Hex())
	assert.Equal(t, "rgba(59,130,246,0.50)", Blue.RGBA(0.5))
	assert.Equal(t, "rgba(59,130,246,1.00)", Blue.RGBA(3))

	// unknown colours fall back to gray
	assert.Equal(t, Gray.Hex(), Colour("octarine").Hex())
}

func TestForIndex(t *testing.T) {
	seen := make(map[Colour]struct{})
	for i := range 10 {
		c := ForIndex(i)
		assert.NotEqual(t, Gray, c)
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, 10)
	assert.Equal(t, ForIndex(0), ForIndex(10))
}

func TestPaletteIsValid(t *testing.T) {
	for _, c := range Palette() {
		assert.True(t, c.IsValid(), "expected %q to be valid", c)
	}
	assert.False(t, Colour("").IsValid())
}
