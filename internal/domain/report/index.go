package report

import "github.com/storeglass/analytics-backend/internal/adapters/shopify"

// ProductIndex maps product ids to handles and primary image URLs for one
// store. Only active products are indexed: draft and archived products must
// fall through to the merger's unresolved-product fallback.
type ProductIndex struct {
	handles map[int64]string
	images  map[int64]string
}

// NewProductIndex builds an index from a store's catalog. If a product id
// repeats across pages the last-seen value wins; a well-formed upstream never
// does that, but a misbehaving one must not break the build.
func NewProductIndex(products []shopify.Product) ProductIndex {
	idx := ProductIndex{
		handles: make(map[int64]string),
		images:  make(map[int64]string),
	}

	for _, p := range products {
		if p.Status != "active" {
			continue
		}
		if p.Handle != "" {
			idx.handles[p.ID] = p.Handle
		}
		if len(p.Images) > 0 && p.Images[0].Src != "" {
			idx.images[p.ID] = p.Images[0].Src
		}
	}

	return idx
}

// Handle resolves a product id to its storefront handle.
func (idx ProductIndex) Handle(productID int64) (string, bool) {
	h, ok := idx.handles[productID]
	return h, ok
}

// Image resolves a product id to its primary image URL.
func (idx ProductIndex) Image(productID int64) (string, bool) {
	src, ok := idx.images[productID]
	return src, ok
}

// Len returns how many products carry at least a handle entry.
func (idx ProductIndex) Len() int {
	return len(idx.handles)
}
