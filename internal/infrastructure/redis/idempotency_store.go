// Package redis implementa el almacén de claves de idempotencia de ventas sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/sales"
	goredis "github.com/redis/go-redis/v9"
)

var _ sales.IdempotencyStore = (*IdempotencyStore)(nil)

const (
	keyPrefix     = "idem:sale:"
	pendingPrefix = "pending:"
	donePrefix    = "done:"
	// DefaultTTL tiempo de vida de una clave si no se configura otro.
	DefaultTTL = 24 * time.Hour
)

// releaseScript borra la clave solo si sigue en curso con la misma huella: una venta ya
// completada no se libera.
var releaseScript = goredis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// IdempotencyStore reserva claves con SETNX. Valor "pending:<huella>" mientras la venta
// está en curso y "done:<huella>:<saleID>" una vez confirmada.
type IdempotencyStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewIdempotencyStore construye el store. ttl <= 0 usa DefaultTTL.
func NewIdempotencyStore(client goredis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve intenta reservar la clave para el carrito con esa huella. Si ya existe devuelve
// Reserved=false con la huella guardada y el ID de la venta si la original ya se confirmó.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string) (sales.Reservation, error) {
	k := keyPrefix + key
	ok, err := s.client.SetNX(ctx, k, pendingPrefix+fingerprint, s.ttl).Result()
	if err != nil {
		return sales.Reservation{}, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return sales.Reservation{Reserved: true, Fingerprint: fingerprint}, nil
	}
	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// Expiró o se liberó entre SETNX y GET: se trata como en curso.
			return sales.Reservation{Fingerprint: fingerprint}, nil
		}
		return sales.Reservation{}, fmt.Errorf("idempotency get: %w", err)
	}
	return parseValue(val)
}

func parseValue(val string) (sales.Reservation, error) {
	if fp, ok := strings.CutPrefix(val, pendingPrefix); ok {
		return sales.Reservation{Fingerprint: fp}, nil
	}
	if rest, ok := strings.CutPrefix(val, donePrefix); ok {
		if fp, saleID, ok := strings.Cut(rest, ":"); ok && saleID != "" {
			return sales.Reservation{Fingerprint: fp, SaleID: saleID}, nil
		}
	}
	return sales.Reservation{}, fmt.Errorf("idempotency: valor inesperado %q", val)
}

// Complete liga la clave al ID de la venta confirmada.
func (s *IdempotencyStore) Complete(ctx context.Context, key, fingerprint, saleID string) error {
	val := donePrefix + fingerprint + ":" + saleID
	if err := s.client.Set(ctx, keyPrefix+key, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release libera una clave en curso para permitir el reintento.
func (s *IdempotencyStore) Release(ctx context.Context, key, fingerprint string) error {
	if err := releaseScript.Run(ctx, s.client, []string{keyPrefix + key}, pendingPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
