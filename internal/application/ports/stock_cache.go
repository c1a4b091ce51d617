package ports

import "context"

// StockCache es un caché consultivo del stock derivado. Nunca es fuente de verdad:
// ante un fallo o ausencia se recalcula desde el ledger.
type StockCache interface {
	// Get devuelve (stock, true) si hay valor cacheado.
	Get(ctx context.Context, productID string) (int64, bool, error)
	Set(ctx context.Context, productID string, level int64) error
	Invalidate(ctx context.Context, productIDs ...string) error
	// Load resuelve un fallo de caché ejecutando loader una sola vez por producto concurrente.
	Load(ctx context.Context, productID string, loader func(context.Context) (int64, error)) (int64, error)
}
