package report

import (
	"fmt"

	"github.com/storeglass/analytics-backend/internal/adapters/shopify"
)

// EnrichOrders joins a store's product index onto its raw orders, producing
// enriched records tagged with the store identity.
//
// Decoration per line item:
//   - product id resolves in the image index: an image reference is attached
//   - product id resolves in the handle index: a storefront product URL is
//     built from the store's public domain
//   - product id present but unresolved: a fallback admin URL is built from
//     the API domain, so a known product reference is always navigable
//   - no product id (custom line item): no decoration
//
// The merge is pure and order-preserving; line item count and sequence are
// unchanged.
func EnrichOrders(store StoreIdentity, orders []shopify.RawOrder, idx ProductIndex) []EnrichedOrder {
	enriched := make([]EnrichedOrder, 0, len(orders))

	for _, raw := range orders {
		items := make([]EnrichedLineItem, 0, len(raw.LineItems))
		for _, li := range raw.LineItems {
			items = append(items, enrichLineItem(store, li, idx))
		}

		enriched = append(enriched, EnrichedOrder{
			ID:                raw.ID,
			Name:              raw.Name,
			Email:             raw.Email,
			FinancialStatus:   raw.FinancialStatus,
			FulfillmentStatus: raw.FulfillmentStatus,
			TotalPrice:        raw.TotalPrice,
			CreatedAt:         raw.CreatedAt,
			CancelledAt:       raw.CancelledAt,
			StoreID:           store.ID,
			StoreName:         store.Name,
			StoreDomain:       store.APIDomain,
			LineItems:         items,
		})
	}

	return enriched
}

func enrichLineItem(store StoreIdentity, li shopify.LineItem, idx ProductIndex) EnrichedLineItem {
	item := EnrichedLineItem{
		ID:           li.ID,
		Title:        li.Title,
		ProductID:    li.ProductID,
		VariantTitle: li.VariantTitle,
	}

	if li.ProductID == nil {
		return item
	}
	id := *li.ProductID

	if src, ok := idx.Image(id); ok {
		item.Image = &Image{Src: src}
	}

	if handle, ok := idx.Handle(id); ok {
		item.ProductURL = fmt.Sprintf("https://%s/products/%s", store.PublicDomain, handle)
	} else {
		// Unresolved product (deleted, draft, archived): point at the admin
		// page so the reference stays navigable.
		item.ProductURL = fmt.Sprintf("https://%s/admin/products/%d", store.APIDomain, id)
	}

	return item
}
