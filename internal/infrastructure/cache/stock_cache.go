package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Salon-api/internal/application/ports"
)

var _ ports.StockCache = (*StockCache)(nil)

const (
	stockKeyPrefix = "salon:stock:"
	// DefaultStockTTL acota cuánto puede vivir un valor viejo escrito tras una invalidación.
	DefaultStockTTL = 5 * time.Minute
)

// StockCache guarda el stock derivado por producto en Redis con TTL.
// Es consultivo: el ledger sigue siendo la fuente de verdad y el caché se invalida tras cada commit.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewStockCache construye el caché. ttl <= 0 usa DefaultStockTTL: toda clave expira.
func NewStockCache(client *redis.Client, ttl time.Duration) *StockCache {
	if ttl <= 0 {
		ttl = DefaultStockTTL
	}
	return &StockCache{client: client, ttl: ttl}
}

// TTL expiración aplicada a cada clave.
func (c *StockCache) TTL() time.Duration { return c.ttl }

func stockKey(productID string) string { return stockKeyPrefix + productID }

// Get devuelve el stock cacheado, si existe.
func (c *StockCache) Get(ctx context.Context, productID string) (int64, bool, error) {
	raw, err := c.client.Get(ctx, stockKey(productID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("cache: get stock: %w", err)
	}
	level, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("cache: valor de stock inválido %q: %w", raw, err)
	}
	return level, true, nil
}

// Set escribe el stock del producto.
func (c *StockCache) Set(ctx context.Context, productID string, level int64) error {
	if err := c.client.Set(ctx, stockKey(productID), level, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set stock: %w", err)
	}
	return nil
}

// Invalidate borra el stock cacheado de los productos.
func (c *StockCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, stockKey(id))
		// Las cargas en vuelo ya no se comparten con lecturas nuevas.
		c.group.Forget(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: invalidate stock: %w", err)
	}
	return nil
}

// Load devuelve el valor cacheado o ejecuta loader una sola vez por producto aunque haya
// lecturas concurrentes, y guarda el resultado.
func (c *StockCache) Load(ctx context.Context, productID string, loader func(context.Context) (int64, error)) (int64, error) {
	if level, ok, err := c.Get(ctx, productID); err == nil && ok {
		return level, nil
	}
	// La carga es compartida: no depende de la cancelación de quien la inició.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(productID, func() (interface{}, error) {
		level, err := loader(loadCtx)
		if err != nil {
			return int64(0), err
		}
		// Un fallo al escribir no invalida la lectura.
		_ = c.Set(loadCtx, productID, level)
		return level, nil
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	}
}
