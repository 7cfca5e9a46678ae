// Package catalog reads the product catalog this service consumes.
// The cart core never decides prices; it snapshots what the catalog
// reports at add time.
package catalog

import (
	"context"
	"errors"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Catalog interface {
	GetByID(ctx context.Context, productID string) (*domain.ProductSnapshot, error)
}
