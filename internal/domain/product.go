package domain

// Product types carried by the catalog. Curtains price by running length;
// the wallpaper/blinds family prices by area when dimensions are given;
// everything else is flat per-unit.
const (
	TypeWallpapers     = "wallpapers"
	TypeWallpaperRolls = "wallpaperRolls"
	TypeBlinds         = "blinds"
	TypeCurtains       = "curtains"
	TypeArtist         = "artist"
	TypeStandard       = "standard"
)

// LengthPriced reports whether a product type prices by running length.
func LengthPriced(productType string) bool {
	return productType == TypeCurtains
}

// ProductSnapshot is the read-only catalog view this service consumes.
// Prices are snapshotted onto line items at add time.
type ProductSnapshot struct {
	ID          string  `bson:"_id,omitempty"`
	Title       string  `bson:"title"`
	Price       float64 `bson:"price"`
	SalePrice   float64 `bson:"sale_price,omitempty"`
	ProductType string  `bson:"product_type"`
	Image       string  `bson:"image1,omitempty"`
}

// UnitPrice returns the effective unit price: the sale price when one is
// set, else the base price.
func (p ProductSnapshot) UnitPrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

// Dimensions are the optional customization measurements on an add
// request. Zero means "not supplied".
type Dimensions struct {
	Height float64
	Width  float64
	Length float64
}
