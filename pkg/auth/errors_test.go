package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFieldErrorMessages(t *testing.T) {
	tests := []struct {
		fields []string
		want   string
	}{
		{[]string{"email"}, "email is required"},
		{[]string{"email", "password"}, "email and password are required"},
		{[]string{"email", "password", "full_name"}, "email, password and full_name are required"},
		{nil, "required field missing"},
	}

	for _, tt := range tests {
		err := NewMissingFieldError(tt.fields...)
		assert.Equal(t, tt.want, err.Error())
		assert.True(t, IsMissingField(err))
	}
}

func TestIsMissingFieldOnOtherErrors(t *testing.T) {
	assert.False(t, IsMissingField(errors.New("boom")))
	assert.False(t, IsMissingField(ErrInvalidCredentials))
	assert.True(t, IsMissingField(fmt.Errorf("wrapped: %w", NewMissingFieldError("email"))))
}

func TestStorageErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StorageError{Op: "create user", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create user")
	assert.True(t, IsStorageError(err))
	assert.True(t, IsStorageError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsStorageError(cause))
}
