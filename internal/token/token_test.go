package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/user-directory/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestManager_GenerateAndParse(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManagerWithClock("secret", time.Hour, fixedClock(issued))
	sub := domain.Subject{Email: "ada@example.com", UserID: 42}

	signed, expiresAt, err := m.Generate(sub)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), expiresAt)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Subject())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestManager_UniqueTokenIDs(t *testing.T) {
	m := NewManager("secret", time.Hour)
	sub := domain.Subject{Email: "ada@example.com", UserID: 1}

	a, _, err := m.Generate(sub)
	require.NoError(t, err)
	b, _, err := m.Generate(sub)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestManager_Parse_Rejects(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	signer := NewManagerWithClock("secret", time.Hour, fixedClock(issued))
	valid, _, err := signer.Generate(domain.Subject{Email: "ada@example.com", UserID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "ada@example.com",
		"exp":   issued.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ada@example.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		parser *Manager
		token  string
	}{
		{name: "expired", parser: NewManagerWithClock("secret", time.Hour, fixedClock(issued.Add(2*time.Hour))), token: valid},
		{name: "wrong secret", parser: NewManagerWithClock("other", time.Hour, fixedClock(issued)), token: valid},
		{name: "malformed", parser: signer, token: "not-a-jwt"},
		{name: "empty", parser: signer, token: ""},
		{name: "none algorithm", parser: signer, token: none},
		{name: "missing expiry", parser: signer, token: noExp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parser.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestNewManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewManager("secret", 0).TTL())
}
