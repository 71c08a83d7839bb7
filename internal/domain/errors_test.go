package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrMissingUserFields, CodeValidation},
		{ErrInvalidCredentials, CodeInvalidCredentials},
		{ErrUnauthenticated, CodeUnauthenticated},
		{ErrInvalidToken, CodeInvalidToken},
		{fmt.Errorf("insert: %w", ErrDuplicateEmail), CodeDuplicateEmail},
		{ErrNotFound, CodeNotFound},
		{errors.New("connection refused"), CodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestFromCode(t *testing.T) {
	assert.ErrorIs(t, FromCode(CodeDuplicateEmail), ErrDuplicateEmail)
	assert.ErrorIs(t, FromCode(CodeInvalidToken), ErrInvalidToken)
	assert.Nil(t, FromCode("teapot"))
}

func TestNewUser_Validate(t *testing.T) {
	valid := NewUser{Name: "Ada", Lastname: "Lovelace", Email: "ada@x.com", Password: "secret"}
	assert.NoError(t, valid.Validate())

	missing := []NewUser{
		{Lastname: "Lovelace", Email: "ada@x.com", Password: "secret"},
		{Name: "Ada", Email: "ada@x.com", Password: "secret"},
		{Name: "Ada", Lastname: "Lovelace", Password: "secret"},
		{Name: "Ada", Lastname: "Lovelace", Email: "ada@x.com"},
		{Name: "   ", Lastname: "Lovelace", Email: "ada@x.com", Password: "secret"},
	}
	for _, u := range missing {
		assert.ErrorIs(t, u.Validate(), ErrValidation)
	}
}

func TestNewUser_Normalize(t *testing.T) {
	n := NewUser{Name: " Ada ", Lastname: "Lovelace\n", Email: " ada@x.com", Password: " pw "}.Normalize()

	assert.Equal(t, "Ada", n.Name)
	assert.Equal(t, "Lovelace", n.Lastname)
	assert.Equal(t, "ada@x.com", n.Email)
	assert.Equal(t, " pw ", n.Password)
}
