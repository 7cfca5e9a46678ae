package cache

import (
	"context"
	"errors"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
)

// CartCache holds the assembled cart view (aggregate + enriched items)
// keyed by user. It is a read accelerator only; the stores stay
// authoritative and every mutation invalidates the entry.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.CartView, error)
	Set(ctx context.Context, userID string, view *domain.CartView) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
