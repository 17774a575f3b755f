package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorForUser(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: ""},
		{
			name: "not configured",
			err:  NotConfigured("VERCEL_TOKEN"),
			want: "VERCEL_TOKEN not configured",
		},
		{
			name: "validation error",
			err:  fmt.Errorf("decode: %w", &ValidationError{Field: "code", Message: "must not be empty"}),
			want: "invalid code: must not be empty",
		},
		{
			name: "not found",
			err:  fmt.Errorf("project 123: %w", ErrNotFound),
			want: "project 123: not found",
		},
		{
			name: "deadline",
			err:  &ExternalCallError{Service: "manus", Operation: "research", Err: context.DeadlineExceeded},
			want: "operation timed out",
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			want: "external service unreachable",
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: "an unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatErrorForUser(tt.err))
		})
	}
}

func TestExternalCallError_Unwrap(t *testing.T) {
	err := &ExternalCallError{Service: "vercel", Operation: "create deployment", Err: ErrNotConfigured}

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "vercel create deployment failed: not configured", err.Error())
}
