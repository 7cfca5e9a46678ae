package service

import (
	"context"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/pricing"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateQuantity sets a line's quantity and re-derives its total with
// the full type-specific formula from the stored dimensional and
// material fields. A proportional scale-up would double the flat
// surcharge on length-priced rows.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartView, error) {
	if userID == "" {
		return nil, invalid("userId", "must not be empty")
	}
	if _, err := primitive.ObjectIDFromHex(itemID); err != nil {
		return nil, invalid("itemId", "must be a valid object id")
	}
	if quantity < 1 {
		return nil, invalid("quantity", "must be a positive number")
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, repository.ErrItemNotFound
	}

	item.Quantity = quantity
	item.TotalPrice = pricing.RecomputeLine(*item, quantity)

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	cart, items, err := s.refreshAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, err := s.viewFrom(ctx, cart, items)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return view, nil
}

// DeleteItem removes one line from the user's cart and refreshes the
// aggregate from the remaining rows. The cart record survives even when
// the last item goes.
func (s *CartService) DeleteItem(ctx context.Context, userID, itemID string) (*domain.CartView, error) {
	if userID == "" {
		return nil, invalid("userId", "must not be empty")
	}
	if _, err := primitive.ObjectIDFromHex(itemID); err != nil {
		return nil, invalid("itemId", "must be a valid object id")
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.items.DeleteByID(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}

	cart, items, err := s.refreshAggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, err := s.viewFrom(ctx, cart, items)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return view, nil
}

// EmptyCart removes all lines for the user's cart in one operation and
// zeroes the aggregate. The cart record is kept. Emptying an already
// empty cart succeeds and leaves the aggregate at zero.
func (s *CartService) EmptyCart(ctx context.Context, userID string) error {
	if userID == "" {
		return invalid("userId", "must not be empty")
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.items.DeleteAllByCart(ctx, cart.ID); err != nil {
		return err
	}

	if _, _, err := s.refreshAggregate(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}
