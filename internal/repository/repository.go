package repository

import (
	"context"
	"errors"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrVersionConflict = errors.New("cart modified concurrently")
)

// ItemIdentity is the merge key for a line item: the product plus
// exactly the customization fields the request supplied. Nil means the
// field was not part of the request and must not constrain the match.
type ItemIdentity struct {
	ProductID string
	Material  *string
	Height    *float64
	Width     *float64
	Length    *float64
}

// CartStore persists the per-user aggregate record.
type CartStore interface {
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
	// SaveAggregate persists the derived fields conditioned on the
	// version read with the cart; ErrVersionConflict when another
	// writer got there first.
	SaveAggregate(ctx context.Context, cart *domain.Cart) error
}

// LineItemStore persists individual cart rows.
type LineItemStore interface {
	FindByIdentity(ctx context.Context, cartID string, key ItemIdentity) (*domain.LineItem, error)
	FindByID(ctx context.Context, itemID string) (*domain.LineItem, error)
	FindByCart(ctx context.Context, cartID string) ([]domain.LineItem, error)
	Insert(ctx context.Context, item *domain.LineItem) error
	Update(ctx context.Context, item *domain.LineItem) error
	DeleteByID(ctx context.Context, cartID, itemID string) error
	DeleteAllByCart(ctx context.Context, cartID string) error
	CountByCart(ctx context.Context, cartID string) (int64, error)
}
