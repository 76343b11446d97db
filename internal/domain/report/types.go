// Package report holds the analytics domain: enriched order records, the
// per-store statistics table and the rules that fold orders into it.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreIdentity is the slice of store configuration the domain needs: who the
// store is and which domains to build URLs from. PublicDomain is the
// storefront domain; APIDomain is the admin API host it falls back to.
type StoreIdentity struct {
	ID           int
	Name         string
	APIDomain    string
	PublicDomain string
}

// EnrichedOrder is an upstream order tagged with its store identity and with
// decorated line items. It is built by pure transformation from the raw
// record; the raw working set and the report never alias each other.
type EnrichedOrder struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	TotalPrice        string     `json:"total_price"`
	CreatedAt         time.Time  `json:"created_at"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`

	StoreID     int    `json:"store_id"`
	StoreName   string `json:"store_name"`
	StoreDomain string `json:"store_domain"`

	LineItems []EnrichedLineItem `json:"line_items"`
}

// EnrichedLineItem is a line item with optional image and product-page
// decoration. Both decorations stay empty for custom line items that carry no
// product reference.
type EnrichedLineItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ProductID    *int64 `json:"product_id,omitempty"`
	VariantTitle string `json:"variant_title,omitempty"`

	Image      *Image `json:"image,omitempty"`
	ProductURL string `json:"product_url,omitempty"`
}

// Image is a product image reference.
type Image struct {
	Src string `json:"src"`
}

// StoreStat is the per-store accumulator. Counters are non-exclusive: one
// order can contribute to several of them.
type StoreStat struct {
	StoreID           int             `json:"store_id"`
	Name              string          `json:"name"`
	TotalOrders       int             `json:"total_orders"`
	Fulfilled         int             `json:"fulfilled"`
	PartiallyRefunded int             `json:"partially_refunded"`
	FullyRefunded     int             `json:"fully_refunded"`
	Cancelled         int             `json:"cancelled"`
	Revenue           decimal.Decimal `json:"revenue"`
	LostAmount        decimal.Decimal `json:"lost_amount"`
}

// Summary is the global roll-up across every store.
type Summary struct {
	TotalOrders     int    `json:"total_orders"`
	TotalRevenue    string `json:"total_revenue"` // rendered with two decimal places
	OrdersToFulfill int    `json:"orders_to_fulfill"`
}

// Report is the response contract exposed to the presentation layer.
// StoreTable preserves the configured roster order. Orders is omitted in the
// lighter-weight table-only mode.
type Report struct {
	Summary    Summary         `json:"summary"`
	StoreTable []StoreStat     `json:"store_table"`
	Orders     []EnrichedOrder `json:"orders,omitempty"`
}

// StoreOrders pairs one store of the roster with its enriched orders, in the
// order the upstream returned them. Skipped or failed stores simply carry an
// empty slice.
type StoreOrders struct {
	Store  StoreIdentity
	Orders []EnrichedOrder
}
