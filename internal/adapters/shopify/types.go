package shopify

import "time"

// RawOrder is an order exactly as the Admin API returns it, restricted to the
// fields the orders query projects.
type RawOrder struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	TotalPrice        string     `json:"total_price"`
	CreatedAt         time.Time  `json:"created_at"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	LineItems         []LineItem `json:"line_items"`
}

// LineItem is one line of an order. ProductID is nil for manually added
// (custom) line items.
type LineItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ProductID    *int64 `json:"product_id"`
	VariantTitle string `json:"variant_title"`
}

// Product is a catalog entry, restricted to the fields the products query
// projects. Status is "active", "draft" or "archived".
type Product struct {
	ID     int64          `json:"id"`
	Handle string         `json:"handle"`
	Status string         `json:"status"`
	Images []ProductImage `json:"images"`
}

// ProductImage is one image attached to a product.
type ProductImage struct {
	Src string `json:"src"`
}

// Shop holds shop metadata. Domain is the canonical public storefront domain,
// which can differ from the *.myshopify.com API domain.
type Shop struct {
	Domain string `json:"domain"`
}

type ordersEnvelope struct {
	Orders []RawOrder `json:"orders"`
}

type productsEnvelope struct {
	Products []Product `json:"products"`
}

type shopEnvelope struct {
	Shop Shop `json:"shop"`
}
