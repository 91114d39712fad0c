package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	assert.True(t, ValidatePhoneNumber("+22212345678"))
	assert.True(t, ValidatePhoneNumber("+49 170 1234567"))
	assert.True(t, ValidatePhoneNumber("+1 (212) 555-0100"))

	assert.False(t, ValidatePhoneNumber("22212345678"))  // no plus
	assert.False(t, ValidatePhoneNumber("+123"))         // too short
	assert.False(t, ValidatePhoneNumber("+1234567890123456")) // too long
	assert.False(t, ValidatePhoneNumber("+12abc34567"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "plain text", SanitizeInput("  plain text  "))
	assert.Equal(t, "O&#x27;Brien", SanitizeInput("O'Brien"))
}

func TestValidatePasswordStrength(t *testing.T) {
	ok, problems := ValidatePasswordStrength("Str0ngpass")
	assert.True(t, ok)
	assert.Empty(t, problems)

	ok, problems = ValidatePasswordStrength("short")
	assert.False(t, ok)
	assert.NotEmpty(t, problems)

	ok, _ = ValidatePasswordStrength("alllowercase1")
	assert.False(t, ok)

	ok, _ = ValidatePasswordStrength("NoDigitsHere")
	assert.False(t, ok)
}
