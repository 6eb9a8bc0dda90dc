package txapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIFailure_Error(t *testing.T) {
	err := &APIFailure{
		Code:    404,
		Message: "Record not found",
	}

	assert.Equal(t, "Record not found (code: 404)", err.Error())
}

func TestFailureFromInfo(t *testing.T) {
	failure := FailureFromInfo(Info{
		Code:    409,
		Message: "Record already exists",
		Session: "a1b2c3",
	})

	assert.Equal(t, 409, failure.Code)
	assert.Equal(t, "Record already exists", failure.Message)
}

func TestProtocolError(t *testing.T) {
	t.Run("content type mismatch", func(t *testing.T) {
		err := &ProtocolError{
			StatusCode:  502,
			ContentType: "text/html",
			Err:         ErrUnexpectedContentType,
		}

		assert.Equal(t, `protocol error (status 502, content type "text/html"): unexpected content type`, err.Error())
		assert.ErrorIs(t, err, ErrUnexpectedContentType)
	})

	t.Run("decode failure", func(t *testing.T) {
		cause := errors.New("unexpected end of JSON input")
		err := &ProtocolError{
			StatusCode:  200,
			ContentType: "application/json",
			Err:         fmt.Errorf("decoding envelope: %w", cause),
		}

		assert.ErrorIs(t, err, cause)
	})
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "failure with not found code",
			err:      &APIFailure{Code: CodeNotFound},
			expected: true,
		},
		{
			name:     "failure with other code",
			err:      &APIFailure{Code: CodeBadRequest},
			expected: false,
		},
		{
			name:     "wrapped failure",
			err:      fmt.Errorf("fetching record: %w", &APIFailure{Code: CodeNotFound}),
			expected: true,
		},
		{
			name:     "other error type",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "failure with unauthorized code",
			err:      &APIFailure{Code: CodeUnauthorized},
			expected: true,
		},
		{
			name:     "failure with other code",
			err:      &APIFailure{Code: CodeNotFound},
			expected: false,
		},
		{
			name:     "other error type",
			err:      errors.New("some error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUnauthorized(tt.err))
		})
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "failure with conflict code",
			err:      &APIFailure{Code: CodeConflict},
			expected: true,
		},
		{
			name:     "failure with other code",
			err:      &APIFailure{Code: CodeServerError},
			expected: false,
		},
		{
			name:     "other error type",
			err:      errors.New("some error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsConflict(tt.err))
		})
	}
}
