package domain

import "time"

// Cart is the per-user aggregate record. TotalItems and TotalAmount are
// derived from the cart_items collection and recomputed after every
// mutation; Version backs the conditional aggregate save.
type Cart struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	TotalItems  int       `bson:"total_items" json:"totalItems"`
	TotalAmount float64   `bson:"total_amount" json:"totalAmount"`
	Version     int64     `bson:"version" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// LineItem is one row in a cart: a product plus a specific customization.
// Price is the unit price snapshotted at add time; for flat and area rows
// it already includes the material surcharge, for length-priced rows it
// does not (the surcharge is added flat, once, on top).
// ProductName and Image are intentional point-in-time copies kept for
// display even if the catalog entry later changes.
type LineItem struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	CartID           string    `bson:"cart_id" json:"cartId"`
	UserID           string    `bson:"user_id" json:"userId"`
	ProductID        string    `bson:"product_id" json:"productId"`
	Quantity         int       `bson:"quantity" json:"quantity"`
	Price            float64   `bson:"price" json:"price"`
	TotalPrice       float64   `bson:"total_price" json:"totalPrice"`
	Height           float64   `bson:"height,omitempty" json:"height,omitempty"`
	Width            float64   `bson:"width,omitempty" json:"width,omitempty"`
	Length           float64   `bson:"length,omitempty" json:"length,omitempty"`
	Area             float64   `bson:"area,omitempty" json:"area,omitempty"`
	SelectedMaterial string    `bson:"selected_material,omitempty" json:"selectedMaterial,omitempty"`
	MaterialPrice    float64   `bson:"material_price,omitempty" json:"materialPrice,omitempty"`
	ProductType      string    `bson:"product_type" json:"productType"`
	ProductName      string    `bson:"product_name" json:"productName"`
	Image            string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProductProjection is the live catalog view joined onto each item at
// read time (not stored).
type ProductProjection struct {
	Image     string  `json:"image,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"salePrice,omitempty"`
}

// LineItemView is a line item enriched with its catalog projection.
type LineItemView struct {
	LineItem
	Product *ProductProjection `json:"product,omitempty"`
}

// CartView is the payload returned by reads and mutations: the aggregate
// plus the full item list.
type CartView struct {
	Cart  Cart           `json:"cart"`
	Items []LineItemView `json:"items"`
}
