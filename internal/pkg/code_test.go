package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestRandHex(t *testing.T) {
	a, err := RandHex(32)
	require.NoError(t, err)
	b, err := RandHex(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Regexp(t, `^[0-9a-f]+$`, a)
	assert.NotEqual(t, a, b)
}
