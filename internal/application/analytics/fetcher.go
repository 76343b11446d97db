// Package analytics orchestrates the multi-store aggregation: one fetch
// pipeline per configured store, a merge barrier, then aggregation into the
// report contract.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/storeglass/analytics-backend/internal/adapters/shopify"
	"github.com/storeglass/analytics-backend/internal/domain/report"
	"github.com/storeglass/analytics-backend/internal/infrastructure/config"
)

// ClientFactory builds an upstream client for one store. Tests substitute a
// factory that points clients at a stub server.
type ClientFactory func(store config.Store) *shopify.Client

// DefaultClientFactory builds real Admin API clients from upstream settings.
func DefaultClientFactory(upstream config.UpstreamConfig, logger *slog.Logger) ClientFactory {
	return func(store config.Store) *shopify.Client {
		return shopify.NewClient(shopify.ClientOptions{
			Domain:          store.Domain,
			Token:           store.Token,
			APIVersion:      upstream.APIVersion,
			PageSize:        upstream.PageSize,
			MaxPages:        upstream.MaxPages,
			OrdersTimeout:   upstream.OrdersTimeout(),
			ProductsTimeout: upstream.ProductsTimeout(),
			ShopTimeout:     upstream.ShopTimeout(),
			Logger:          logger.With("store", store.Name),
		})
	}
}

// Window is the reporting date window. Start is inclusive per the upstream
// created_at_min convention.
type Window struct {
	Start time.Time
	End   time.Time
}

// StoreFetch is everything one store's pipeline produced. A skipped or failed
// store still yields a usable value: empty orders, empty index, and status
// flags saying why.
type StoreFetch struct {
	Store        config.Store
	PublicDomain string
	Orders       []shopify.RawOrder
	Index        report.ProductIndex

	Skipped        bool // not provisioned: no credential or no domain
	OrdersStatus   shopify.PageStatus
	ProductsStatus shopify.PageStatus
}

// Partial reports whether this store's data may be incomplete.
func (sf StoreFetch) Partial() bool {
	if sf.Skipped {
		return false
	}
	return sf.OrdersStatus.Partial() || sf.ProductsStatus.Partial()
}

// Fetcher runs the per-store pipeline.
type Fetcher struct {
	clients ClientFactory
	logger  *slog.Logger
}

// NewFetcher creates a fetcher using the given client factory.
func NewFetcher(clients ClientFactory, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{clients: clients, logger: logger}
}

// FetchStore drains one store: orders in the window, the active product
// catalog, and the shop's public domain, the three running concurrently.
// Every upstream failure is absorbed here; the caller always gets a result,
// possibly partial, never an error. A store without credentials is skipped
// outright.
func (f *Fetcher) FetchStore(ctx context.Context, store config.Store, window Window) StoreFetch {
	result := StoreFetch{
		Store:        store,
		PublicDomain: store.Domain,
		Index:        report.NewProductIndex(nil),
	}

	if !store.Provisioned() {
		result.Skipped = true
		f.logger.Debug("skipping unprovisioned store", "store_id", store.ID, "store", store.Name)
		return result
	}

	client := f.clients(store)

	// Orders, products and shop metadata are independent of each other;
	// the Wait below is the per-store merge barrier.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result.Orders, result.OrdersStatus = client.FetchOrders(gctx, shopify.OrdersQuery{
			Start: window.Start,
			End:   window.End,
		})
		return nil
	})

	g.Go(func() error {
		products, status := client.FetchProducts(gctx)
		result.Index = report.NewProductIndex(products)
		result.ProductsStatus = status
		return nil
	})

	g.Go(func() error {
		domain, err := client.FetchShopDomain(gctx)
		if err != nil {
			// Non-fatal: product URLs fall back to the API domain.
			f.logger.Warn("failed to resolve public domain, using API domain",
				"store_id", store.ID,
				"store", store.Name,
				"error", err,
			)
			return nil
		}
		result.PublicDomain = domain
		return nil
	})

	_ = g.Wait()

	f.logger.Debug("store fetch finished",
		"store_id", store.ID,
		"store", store.Name,
		"orders", len(result.Orders),
		"indexed_products", result.Index.Len(),
		"partial", result.Partial(),
	)

	return result
}
