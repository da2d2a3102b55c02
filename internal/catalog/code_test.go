package catalog

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var confirmationPattern = regexp.MustCompile(`^STELLAR-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

func TestGenerateConfirmationCodeFormat(t *testing.T) {
	for range 200 {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)
		assert.Regexp(t, confirmationPattern, code)
		assert.False(t, strings.ContainsAny(code[len("STELLAR-"):], "IO01"), code)
	}
}

func TestGenerateConfirmationCodeIsFresh(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 32^8 possible codes; collisions in 50 draws would point at a broken generator.
	assert.Len(t, seen, 50)
}

func TestConfirmationAlphabet(t *testing.T) {
	assert.Len(t, ConfirmationAlphabet, 32)
	assert.False(t, strings.ContainsAny(ConfirmationAlphabet, "IO01"))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID("custom")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "custom-"))
	assert.Len(t, id, len("custom-")+21)

	other, err := GenerateID("custom")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
