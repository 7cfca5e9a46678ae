// Package service hosts the cart aggregate service: the one component
// that touches the cart store and the line item store together. Every
// mutation runs under a per-user lock and finishes by recomputing the
// aggregate (item count, total amount) from the full item set, never by
// incrementing counters, so the aggregate cannot drift from the rows.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/cache"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/catalog"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"golang.org/x/sync/singleflight"
)

// maxConflictRetries bounds how often the aggregate refresh is replayed
// when the version-conditioned save loses to another writer.
const maxConflictRetries = 3

type CartService struct {
	carts   repository.CartStore
	items   repository.LineItemStore
	catalog catalog.Catalog
	cache   cache.CartCache
	locks   *userLocks
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(carts repository.CartStore, items repository.LineItemStore, cat catalog.Catalog, cartCache cache.CartCache) *CartService {
	return &CartService{
		carts:   carts,
		items:   items,
		catalog: cat,
		cache:   cartCache,
		locks:   newUserLocks(),
	}
}

// GetCart returns the cart view for a user. A user without a cart gets
// a zero-valued, item-less view, not an error; reads never create
// carts.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	if userID == "" {
		return nil, invalid("userId", "must not be empty")
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		view, err := s.cache.Get(ctx, userID)
		if err == nil {
			return view, nil // view is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.carts.FindByUser(ctx, userID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				now := time.Now()
				return &domain.CartView{
					Cart: domain.Cart{
						UserID:    userID,
						CreatedAt: now,
						UpdatedAt: now,
					},
					Items: []domain.LineItemView{},
				}, nil
			}
			return nil, errGet
		}

		view, errView := s.assembleView(ctx, cart)
		if errView != nil {
			return nil, errView
		}

		// Async fill: a concurrent mutation's invalidation can land
		// between our read and this Set, leaving a stale view until the
		// TTL expires.
		go func() {
			ctxSet, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(ctxSet, userID, view); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return view, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.CartView), nil
}

// CountItems reports the number of line item rows in the user's cart.
func (s *CartService) CountItems(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, invalid("userId", "must not be empty")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	return s.items.CountByCart(ctx, cart.ID)
}

// resolveOrCreateCart finds the user's cart or lazily creates a zeroed
// one. The unique user_id index makes the create race-safe: a losing
// writer re-resolves the winner's cart.
func (s *CartService) resolveOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	cart = &domain.Cart{UserID: userID}
	errCreate := s.carts.Create(ctx, cart)
	if errCreate == nil {
		return cart, nil
	}
	if errors.Is(errCreate, repository.ErrVersionConflict) {
		return s.carts.FindByUser(ctx, userID)
	}
	return nil, errCreate
}

// refreshAggregate recomputes both aggregate fields from the
// authoritative item set and persists them with the version guard.
// The item mutation is already durable when this runs; a version
// conflict only means an out-of-process writer touched the cart record,
// so each retry re-resolves the cart for a fresh version and re-reads
// the items, never re-applying the item mutation. After the retry
// budget the conflict is reported rather than leaving the aggregate
// silently stale.
func (s *CartService) refreshAggregate(ctx context.Context, userID string) (*domain.Cart, []domain.LineItem, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		cart, err := s.carts.FindByUser(ctx, userID)
		if err != nil {
			return nil, nil, err
		}

		items, err := s.items.FindByCart(ctx, cart.ID)
		if err != nil {
			return nil, nil, err
		}

		var total float64
		for _, item := range items {
			total += item.TotalPrice
		}
		cart.TotalItems = len(items)
		cart.TotalAmount = total

		err = s.carts.SaveAggregate(ctx, cart)
		if err == nil {
			return cart, items, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, nil, err
		}
	}
	return nil, nil, ErrConflict
}

// enrich joins the live catalog projection onto each stored item. A
// product that has left the catalog keeps its denormalized name and
// image from add time.
func (s *CartService) enrich(ctx context.Context, items []domain.LineItem) ([]domain.LineItemView, error) {
	views := make([]domain.LineItemView, len(items))
	for i, item := range items {
		views[i] = domain.LineItemView{LineItem: item}

		snap, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		views[i].Product = &domain.ProductProjection{
			Image:     snap.Image,
			Title:     snap.Title,
			Price:     snap.Price,
			SalePrice: snap.SalePrice,
		}
	}
	return views, nil
}

func (s *CartService) assembleView(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	items, err := s.items.FindByCart(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return s.viewFrom(ctx, cart, items)
}

func (s *CartService) viewFrom(ctx context.Context, cart *domain.Cart, items []domain.LineItem) (*domain.CartView, error) {
	views, err := s.enrich(ctx, items)
	if err != nil {
		return nil, err
	}
	return &domain.CartView{Cart: *cart, Items: views}, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
