package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_Defaults(t *testing.T) {
	p, err := GeneratePassword(DefaultGenerateOptions())
	require.NoError(t, err)
	assert.Len(t, p, DefaultPasswordLength)
	assert.True(t, strings.ContainsAny(p, lowerChars))
	assert.True(t, strings.ContainsAny(p, upperChars))
	assert.True(t, strings.ContainsAny(p, "23456789"))
	assert.True(t, strings.ContainsAny(p, symbolChars))
	assert.False(t, strings.ContainsAny(p, similarChars))
}

func TestGeneratePassword_Bounds(t *testing.T) {
	o := DefaultGenerateOptions()
	for _, n := range []int{7, 65, 0} {
		o.Length = n
		_, err := GeneratePassword(o)
		assert.ErrorIs(t, err, ErrPasswordLength, "length %d", n)
	}
	for _, n := range []int{MinPasswordLength, MaxPasswordLength} {
		o.Length = n
		p, err := GeneratePassword(o)
		require.NoError(t, err)
		assert.Len(t, p, n)
	}
}

func TestGeneratePassword_Charsets(t *testing.T) {
	p, err := GeneratePassword(GenerateOptions{Length: 32, Digits: true})
	require.NoError(t, err)
	assert.Empty(t, strings.Trim(p, digitChars))

	_, err = GeneratePassword(GenerateOptions{Length: 12})
	assert.ErrorIs(t, err, ErrNoCharset)
}

func TestGeneratePassword_Unique(t *testing.T) {
	a, err := GeneratePassword(DefaultGenerateOptions())
	require.NoError(t, err)
	b, err := GeneratePassword(DefaultGenerateOptions())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
