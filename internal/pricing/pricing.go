// Package pricing computes line totals for cart items. Each product
// family prices on a different physical basis: curtains on running
// length, the wallpaper/blinds family on area, everything else flat
// per unit. Whether the material surcharge scales with the measure or
// is added once is a domain rule that differs per family.
package pricing

import "github.com/neekunjchaturvedi/wallstorie-backend/internal/domain"

// squareInchesPerSquareFoot converts height*width (inches) into the
// square footage the catalog prices against.
const squareInchesPerSquareFoot = 144

// Quote is the result of pricing one line: the total for the requested
// quantity and the derived physical measure (square feet for area-priced
// rows, running length for length-priced rows, zero otherwise).
type Quote struct {
	LineTotal float64
	Area      float64
}

// Compute prices a line from a catalog snapshot. productType may differ
// from the snapshot's own tag when the request overrides it.
//
// Length-priced types add the surcharge once, flat, outside the per-unit
// multiplication. Area and flat types fold the surcharge into the unit
// price before multiplying, so it scales with quantity (and area).
func Compute(snap domain.ProductSnapshot, quantity int, dims domain.Dimensions, materialPrice float64, productType string) Quote {
	unit := snap.UnitPrice()

	if domain.LengthPriced(productType) && dims.Length > 0 {
		return Quote{
			LineTotal: dims.Length*unit*float64(quantity) + materialPrice,
			Area:      dims.Length,
		}
	}

	if dims.Height > 0 && dims.Width > 0 {
		area := (dims.Height * dims.Width) / squareInchesPerSquareFoot
		return Quote{
			LineTotal: area * (unit + materialPrice) * float64(quantity),
			Area:      area,
		}
	}

	return Quote{LineTotal: (unit + materialPrice) * float64(quantity)}
}

// RecomputeLine re-derives a stored line's total for a new quantity from
// its persisted fields. It re-runs the full type-specific formula rather
// than scaling the old total, since the flat surcharge on length-priced
// rows must not scale with quantity. The stored price already includes
// the surcharge for flat and area rows.
func RecomputeLine(item domain.LineItem, quantity int) float64 {
	if domain.LengthPriced(item.ProductType) && item.Length > 0 {
		return item.Length*item.Price*float64(quantity) + item.MaterialPrice
	}
	if item.Area > 0 {
		return item.Area * item.Price * float64(quantity)
	}
	return item.Price * float64(quantity)
}

// StoredUnitPrice is the unit price persisted on a line item. Flat and
// area rows store unit+surcharge so later quantity-only updates need no
// surcharge restated; length rows store the plain unit price because
// their surcharge is flat, not per-unit. The dispatch mirrors Compute:
// a length-typed row without a length prices by area, so it stores the
// surcharged unit like any other area row.
func StoredUnitPrice(snap domain.ProductSnapshot, dims domain.Dimensions, materialPrice float64, productType string) float64 {
	if domain.LengthPriced(productType) && dims.Length > 0 {
		return snap.UnitPrice()
	}
	return snap.UnitPrice() + materialPrice
}
