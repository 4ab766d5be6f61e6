package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad"), KindValidation},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("missing")), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"internal with cause", Internal("db down", errors.New("dial")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(KindValidation))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(KindUnauthenticated))
	assert.Equal(t, http.StatusForbidden, StatusCode(KindForbidden))
	assert.Equal(t, http.StatusNotFound, StatusCode(KindNotFound))
	assert.Equal(t, http.StatusConflict, StatusCode(KindConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(KindInternal))
}

func TestInternalUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("create gateway order", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "create gateway order: connection refused", err.Error())
	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(err, KindValidation))
}
