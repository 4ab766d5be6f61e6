package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.Environment{Name: "development"}, config.Log{Level: "loud"})
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	l, err := New(config.Environment{Name: "production"}, config.Log{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	l.Info("order placed", zap.String("order_id", "o-1"))
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"order placed"`)
	assert.Contains(t, string(b), `"service":"storefront-api"`)
	assert.Contains(t, string(b), `"order_id":"o-1"`)
}

func TestFromContext(t *testing.T) {
	assert.Same(t, zap.L(), FromContext(context.Background()))

	l := zap.NewNop()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
