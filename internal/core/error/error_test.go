package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorChain(t *testing.T) {
	base := errors.New("open data.csv: no such file")
	err := fmt.Errorf("startup: %w", Dataset(base, "data.csv"))

	assert.ErrorIs(t, err, base)
	assert.Equal(t, KindDataset, KindOf(err))
	assert.Equal(t, "dataset could not be loaded (data.csv)", MessageOf(err))

	var app *AppError
	require.True(t, errors.As(err, &app))
	assert.Equal(t, http.StatusServiceUnavailable, app.Status)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindSystem, KindOf(errors.New("boom")))
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
	assert.Equal(t, "", MessageOf(nil))
}

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	notFound := WrapRedis(redis.Nil)
	var app *AppError
	require.True(t, errors.As(notFound, &app))
	assert.Equal(t, http.StatusNotFound, app.Status)
	assert.ErrorIs(t, notFound, redis.Nil)

	slow := WrapRedis(fmt.Errorf("lrange: %w", context.DeadlineExceeded))
	require.True(t, errors.As(slow, &app))
	assert.Equal(t, http.StatusGatewayTimeout, app.Status)

	other := WrapRedis(errors.New("connection refused"))
	require.True(t, errors.As(other, &app))
	assert.Equal(t, http.StatusBadGateway, app.Status)
	assert.Equal(t, KindRedis, app.Kind)
}

func TestIsDisplayError(t *testing.T) {
	assert.True(t, IsDisplayError("⚠️ **Limite de uso atingido.**"))
	assert.True(t, IsDisplayError("🔑 chave inválida"))
	assert.True(t, IsDisplayError("❌ falhou"))
	assert.False(t, IsDisplayError("A coluna idade tem média 42."))
	assert.False(t, IsDisplayError(" ❌ leading space"))
}
