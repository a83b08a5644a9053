package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("secret124", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)

	_, err = NewTokenManager("other", time.Hour).ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUniqueCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateUniqueCode()
		require.NoError(t, err)
		assert.Len(t, code, 22)
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, code)
		assert.False(t, seen[code])
		seen[code] = true
	}
	assert.Equal(t, "/invitations/abc", ShareURL("abc"))
}

func TestCipher(t *testing.T) {
	c, err := NewCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	require.True(t, c.Enabled())

	sealed, err := c.Encrypt([]byte("JBSWY3DPEHPK3PXP"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "JBSWY3DPEHPK3PXP")

	again, err := c.Encrypt([]byte("JBSWY3DPEHPK3PXP"))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce is random")

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", string(plain))

	other, err := NewCipher("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	_, err = other.Decrypt(sealed)
	assert.Error(t, err)

	_, err = NewCipher("short")
	assert.Error(t, err)

	disabled, err := NewCipher("")
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	_, err = disabled.Encrypt([]byte("x"))
	assert.ErrorIs(t, err, ErrEncryptionDisabled)
}

func TestTOTP(t *testing.T) {
	secret, url, qr, err := GenerateTOTPSecret("a@example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "Birthday%20Invitations")
	assert.Contains(t, qr, "data:image/png;base64,")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, VerifyTOTP(secret, code))
	assert.False(t, VerifyTOTP(secret, "12345"))
}

func TestMasking(t *testing.T) {
	prev := IsProduction
	t.Cleanup(func() { IsProduction = prev })

	IsProduction = false
	assert.Equal(t, "ana@example.com", MaskEmail("ana@example.com"))
	assert.Equal(t, "+34600111222", MaskPhone("+34600111222"))

	IsProduction = true
	assert.Equal(t, "***@***.***", MaskEmail("ana@example.com"))
	assert.Equal(t, "***22", MaskPhone("+34600111222"))
	assert.Equal(t, "12345678...", MaskID("12345678-1234-1234-1234-123456789abc"))
	assert.Equal(t, "***", MaskID("short"))

	masked := MaskString("rsvp from ana@example.com at +34 600 111 222")
	assert.NotContains(t, masked, "ana@example.com")
	assert.NotContains(t, masked, "600 111 222")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLogLevel("debug").String())
	assert.Equal(t, "WARN", ParseLogLevel("warning").String())
	assert.Equal(t, "ERROR", ParseLogLevel("ERROR").String())
	assert.Equal(t, "INFO", ParseLogLevel("nonsense").String())
}

type sample struct {
	Name   string `json:"guest_name" binding:"required,max=5"`
	Status string `json:"rsvp_status" binding:"required,oneof=accepted declined"`
	Color  string `json:"color" binding:"omitempty,hexcolor"`
}

func TestValidationMessage(t *testing.T) {
	err := V.Struct(sample{Name: "toolong", Color: "red"})
	require.Error(t, err)
	msg := ValidationMessage(err)
	assert.Contains(t, msg, "guest_name must be at most 5")
	assert.Contains(t, msg, "rsvp_status is required")
	assert.Contains(t, msg, "color is malformed")

	err = V.Struct(sample{Name: "Ana", Status: "maybe"})
	assert.Contains(t, ValidationMessage(err), "rsvp_status must be one of: accepted declined")

	var v struct{ N int }
	decodeErr := json.Unmarshal([]byte(`{"N":"x"}`), &v)
	assert.Equal(t, decodeErr.Error(), ValidationMessage(decodeErr))
}
