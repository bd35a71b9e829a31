package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIdempotencyStore_ReservaUnaSolaVez(t *testing.T) {
	client := getRedisClient(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	res, err := store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	assert.True(t, res.Reserved)
	assert.Empty(t, res.SaleID)

	res, err = store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	assert.False(t, res.Reserved, "la segunda reserva debe fallar mientras la primera está en curso")
	assert.Empty(t, res.SaleID)
	assert.Equal(t, "fp-a", res.Fingerprint)
}

func TestIdempotencyStore_DevuelveHuellaGuardada(t *testing.T) {
	client := getRedisClient(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	res, err := store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	require.True(t, res.Reserved)

	// Otro carrito con la misma clave ve la huella original, en curso y ya completada.
	res, err = store.Reserve(ctx, key, "fp-b")
	require.NoError(t, err)
	assert.False(t, res.Reserved)
	assert.Equal(t, "fp-a", res.Fingerprint)

	require.NoError(t, store.Complete(ctx, key, "fp-a", "sale-1"))
	res, err = store.Reserve(ctx, key, "fp-b")
	require.NoError(t, err)
	assert.False(t, res.Reserved)
	assert.Equal(t, "fp-a", res.Fingerprint)
	assert.Equal(t, "sale-1", res.SaleID)
}

func TestIdempotencyStore_CompleteDevuelveVentaOriginal(t *testing.T) {
	client := getRedisClient(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	res, err := store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	require.True(t, res.Reserved)
	require.NoError(t, store.Complete(ctx, key, "fp-a", "sale-1"))

	res, err = store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	assert.False(t, res.Reserved)
	assert.Equal(t, "sale-1", res.SaleID)

	// Una clave completada no se libera.
	require.NoError(t, store.Release(ctx, key, "fp-a"))
	res, err = store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	assert.Equal(t, "sale-1", res.SaleID)
}

func TestIdempotencyStore_ReleasePermiteReintento(t *testing.T) {
	client := getRedisClient(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	res, err := store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	require.True(t, res.Reserved)

	// Otra huella no libera la reserva ajena.
	require.NoError(t, store.Release(ctx, key, "fp-b"))
	res, err = store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	require.False(t, res.Reserved)

	require.NoError(t, store.Release(ctx, key, "fp-a"))

	res, err = store.Reserve(ctx, key, "fp-a")
	require.NoError(t, err)
	assert.True(t, res.Reserved)
}

func TestParseValue(t *testing.T) {
	res, err := parseValue("pending:abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Fingerprint)
	assert.Empty(t, res.SaleID)
	assert.False(t, res.Reserved)

	res, err = parseValue("done:abc:7f1c2b9e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Fingerprint)
	assert.Equal(t, "7f1c2b9e-0000-4000-8000-000000000001", res.SaleID)

	for _, bad := range []string{"", "sale-1", "done:abc", "done:abc:"} {
		_, err := parseValue(bad)
		assert.Error(t, err, bad)
	}
}
