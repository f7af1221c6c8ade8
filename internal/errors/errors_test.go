package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"ErrNotConfigured is recognized", ErrNotConfigured, ErrNotConfigured, true},
		{"joined ErrNotConfigured is recognized", errors.Join(ErrNotConfigured, errors.New("ctx")), ErrNotConfigured, true},
		{"different error is not ErrNotConfigured", ErrEmptyResponse, ErrNotConfigured, false},
		{"wrapped ErrMalformedResponse is recognized", fmt.Errorf("puzzle: %w", ErrMalformedResponse), ErrMalformedResponse, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, errors.Is(tt.err, tt.target))
		})
	}
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	base := errors.New("status 503")
	err := NewProviderError("gemini", "generate_puzzle", base)
	require.Error(t, err)

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "provider generate_puzzle (gemini): status 503", err.Error())

	var pe *ProviderError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &pe)
	assert.Equal(t, "generate_puzzle", pe.Op)
	assert.Equal(t, "gemini", pe.Provider)
}

func TestProviderError_NoProviderName(t *testing.T) {
	t.Parallel()

	err := &ProviderError{Op: "complete_chat", Err: ErrNotConfigured}
	assert.Equal(t, "provider complete_chat: provider not configured", err.Error())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewProviderError_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewProviderError("groq", "op", nil))
}
