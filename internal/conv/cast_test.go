//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint32(t *testing.T) {
	for _, v := range []int{0, 123, math.MaxUint32} {
		got, err := IntToUint32(v)
		assert.NoError(t, err)
		assert.Equal(t, uint32(v), got)
	}

	for _, v := range []int{-1, math.MaxUint32 + 1} {
		_, err := IntToUint32(v)
		assert.ErrorIs(t, err, ErrOverflow)
	}
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(42)
	assert.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = Uint64ToInt(math.MaxInt64)
	assert.NoError(t, err)
	assert.Equal(t, math.MaxInt64, got)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}
