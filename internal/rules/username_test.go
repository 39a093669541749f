package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "paws_4_life", "a1234567890123456789"[:20], "9lives"}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), u)
	}

	assert.ErrorIs(t, ValidateUsername("ab"), ErrUsernameLength)
	assert.ErrorIs(t, ValidateUsername(strings.Repeat("a", 21)), ErrUsernameLength)
	assert.ErrorIs(t, ValidateUsername("Upper"), ErrUsernameCharset)
	assert.ErrorIs(t, ValidateUsername("_leading"), ErrUsernameCharset)
	assert.ErrorIs(t, ValidateUsername("has space"), ErrUsernameCharset)
	assert.ErrorIs(t, ValidateUsername("dash-ed"), ErrUsernameCharset)
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "doglover", NormalizeUsername("  DogLover "))
}

func TestTempUsername(t *testing.T) {
	fixed := func(n int) int { return 234 }

	assert.Equal(t, "janedoe_1234", TempUsername("Jane.Doe@campus.edu", fixed))
	assert.Equal(t, "paw_1234", TempUsername("...@campus.edu", fixed))

	long := TempUsername("averyveryverylongstudentname@campus.edu", fixed)
	assert.Len(t, long, UsernameMaxLength)
	assert.NoError(t, ValidateUsername(long))

	maxSuffix := TempUsername("kim@campus.edu", func(n int) int { return n - 1 })
	assert.Equal(t, "kim_9999", maxSuffix)
}
