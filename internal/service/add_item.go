package service

import (
	"context"
	"errors"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/pricing"
	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddItemInput is the typed add-to-cart request. Pointer fields are
// optional customization; nil means the caller did not supply the field,
// which matters both for validation and for the merge identity key.
type AddItemInput struct {
	UserID           string
	ProductID        string
	Quantity         int
	Height           *float64
	Width            *float64
	Length           *float64
	SelectedMaterial *string
	MaterialPrice    *float64
	ProductType      string // optional, defaulted from the catalog snapshot
}

func (in AddItemInput) validate() error {
	if in.UserID == "" {
		return invalid("userId", "must not be empty")
	}
	if _, err := primitive.ObjectIDFromHex(in.ProductID); err != nil {
		return invalid("productId", "must be a valid object id")
	}
	if in.Quantity < 1 {
		return invalid("quantity", "must be a positive number")
	}
	if in.Height != nil && *in.Height <= 0 {
		return invalid("height", "must be greater than zero")
	}
	if in.Width != nil && *in.Width <= 0 {
		return invalid("width", "must be greater than zero")
	}
	if in.Length != nil && *in.Length <= 0 {
		return invalid("length", "must be greater than zero")
	}
	if in.SelectedMaterial != nil && *in.SelectedMaterial == "" {
		return invalid("selectedMaterial", "must not be empty when supplied")
	}
	if in.MaterialPrice != nil && *in.MaterialPrice < 0 {
		return invalid("materialPrice", "must not be negative")
	}
	return nil
}

func (in AddItemInput) identity() repository.ItemIdentity {
	return repository.ItemIdentity{
		ProductID: in.ProductID,
		Material:  in.SelectedMaterial,
		Height:    in.Height,
		Width:     in.Width,
		Length:    in.Length,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// AddItem adds a product to the user's cart, merging into an existing
// row when the identity key (product plus supplied customization)
// matches, and refreshes the cart aggregate before returning the full
// view.
func (s *CartService) AddItem(ctx context.Context, in AddItemInput) (*domain.CartView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(in.UserID)
	defer unlock()

	cart, err := s.resolveOrCreateCart(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	snap, err := s.catalog.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	productType := in.ProductType
	if productType == "" {
		productType = snap.ProductType
	}

	if err := s.upsertLine(ctx, cart, in, snap, productType); err != nil {
		return nil, err
	}

	cart, items, err := s.refreshAggregate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	view, err := s.viewFrom(ctx, cart, items)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(in.UserID)
	return view, nil
}

func (s *CartService) upsertLine(ctx context.Context, cart *domain.Cart, in AddItemInput, snap *domain.ProductSnapshot, productType string) error {
	existing, err := s.items.FindByIdentity(ctx, cart.ID, in.identity())
	if err == nil {
		return s.mergeLine(ctx, existing, in, snap, productType)
	}
	if !errors.Is(err, repository.ErrItemNotFound) {
		return err
	}

	dims := domain.Dimensions{
		Height: deref(in.Height),
		Width:  deref(in.Width),
		Length: deref(in.Length),
	}
	surcharge := deref(in.MaterialPrice)
	quote := pricing.Compute(*snap, in.Quantity, dims, surcharge, productType)

	item := &domain.LineItem{
		CartID:        cart.ID,
		UserID:        in.UserID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		Price:         pricing.StoredUnitPrice(*snap, dims, surcharge, productType),
		TotalPrice:    quote.LineTotal,
		Height:        dims.Height,
		Width:         dims.Width,
		Length:        dims.Length,
		Area:          quote.Area,
		MaterialPrice: surcharge,
		ProductType:   productType,
		ProductName:   snap.Title,
		Image:         snap.Image,
	}
	if in.SelectedMaterial != nil {
		item.SelectedMaterial = *in.SelectedMaterial
	}

	return s.items.Insert(ctx, item)
}

// mergeLine folds a repeated add into the existing row: quantities sum,
// and for each customization field the request value wins when present,
// otherwise the stored value is kept. The price is recomputed from the
// merged state, never scaled.
func (s *CartService) mergeLine(ctx context.Context, item *domain.LineItem, in AddItemInput, snap *domain.ProductSnapshot, productType string) error {
	item.Quantity += in.Quantity

	if in.Height != nil {
		item.Height = *in.Height
	}
	if in.Width != nil {
		item.Width = *in.Width
	}
	if in.Length != nil {
		item.Length = *in.Length
	}
	if in.SelectedMaterial != nil {
		item.SelectedMaterial = *in.SelectedMaterial
	}
	if in.MaterialPrice != nil {
		item.MaterialPrice = *in.MaterialPrice
	}

	dims := domain.Dimensions{
		Height: item.Height,
		Width:  item.Width,
		Length: item.Length,
	}
	quote := pricing.Compute(*snap, item.Quantity, dims, item.MaterialPrice, productType)

	item.Price = pricing.StoredUnitPrice(*snap, dims, item.MaterialPrice, productType)
	item.TotalPrice = quote.LineTotal
	item.Area = quote.Area
	item.ProductType = productType

	return s.items.Update(ctx, item)
}
