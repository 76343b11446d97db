package analytics_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeglass/analytics-backend/internal/adapters/shopify"
	"github.com/storeglass/analytics-backend/internal/application/analytics"
	"github.com/storeglass/analytics-backend/internal/infrastructure/config"
	"github.com/storeglass/analytics-backend/internal/infrastructure/storage"
)

// stubUpstream serves the Admin API for several fake stores, keyed by access
// token. Alpha paginates orders over two pages; beta's second orders page
// fails, so beta's orders are partial.
func stubUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/admin/api/2024-01/orders.json", func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Shopify-Access-Token")
		page := r.URL.Query().Get("page_info")

		switch token {
		case "tok-alpha":
			if page == "" {
				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/orders.json?page_info=alpha2>; rel="next"`, srv.URL))
				fmt.Fprint(w, `{"orders":[
					{"id":1,"name":"#A1","financial_status":"paid","fulfillment_status":"fulfilled","total_price":"10.00","line_items":[{"id":11,"title":"Blue Mug","product_id":7}]},
					{"id":2,"name":"#A2","financial_status":"partially_refunded","fulfillment_status":"","total_price":"20.00","cancelled_at":"2024-01-15T10:00:00Z","line_items":[]}
				]}`)
				return
			}
			fmt.Fprint(w, `{"orders":[{"id":3,"name":"#A3","financial_status":"paid","fulfillment_status":"","total_price":"5.50","line_items":[{"id":12,"title":"Custom"}]}]}`)
		case "tok-beta":
			if page == "" {
				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/orders.json?page_info=beta2>; rel="next"`, srv.URL))
				fmt.Fprint(w, `{"orders":[{"id":4,"name":"#B1","financial_status":"refunded","fulfillment_status":"fulfilled","total_price":"7.00","line_items":[]}]}`)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	mux.HandleFunc("/admin/api/2024-01/products.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Shopify-Access-Token") {
		case "tok-alpha":
			fmt.Fprint(w, `{"products":[{"id":7,"handle":"blue-mug","status":"active","images":[{"src":"https://cdn.example/mug.png"}]}]}`)
		default:
			fmt.Fprint(w, `{"products":[]}`)
		}
	})

	mux.HandleFunc("/admin/api/2024-01/shop.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Shopify-Access-Token") {
		case "tok-alpha":
			fmt.Fprint(w, `{"shop":{"domain":"www.alpha-store.com"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	return srv
}

func stubFactory(srv *httptest.Server) analytics.ClientFactory {
	return func(store config.Store) *shopify.Client {
		return shopify.NewClient(shopify.ClientOptions{
			Domain:     store.Domain,
			Token:      store.Token,
			BaseURL:    srv.URL,
			HTTPClient: srv.Client(),
		})
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Stores: []config.Store{
			{ID: 1, Name: "Alpha", Domain: "alpha.myshopify.com", Token: "tok-alpha"},
			{ID: 2, Name: "Beta", Domain: "beta.myshopify.com", Token: "tok-beta"},
			{ID: 3, Name: "Gamma", Domain: "gamma.myshopify.com"}, // no token
		},
		Analytics: config.AnalyticsConfig{MaxConcurrentStores: 2},
	}
}

func testWindow() analytics.Params {
	return analytics.Params{
		Start:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		IncludeOrders: true,
	}
}

func TestService_BuildReport(t *testing.T) {
	t.Run("aggregates across stores with partial and skipped sources", func(t *testing.T) {
		srv := stubUpstream(t)
		svc := analytics.NewServiceWithFactory(testConfig(), nil, nil, stubFactory(srv))

		rep, err := svc.BuildReport(context.Background(), testWindow())
		require.NoError(t, err)

		require.Len(t, rep.StoreTable, 3)

		alpha := rep.StoreTable[0]
		assert.Equal(t, 3, alpha.TotalOrders, "both alpha pages drained")
		assert.Equal(t, 1, alpha.Fulfilled)
		assert.Equal(t, 1, alpha.PartiallyRefunded)
		assert.Equal(t, 1, alpha.Cancelled)
		assert.Equal(t, "35.50", alpha.Revenue.StringFixed(2))
		assert.Equal(t, "40.00", alpha.LostAmount.StringFixed(2), "cancelled + partial refund double count")

		beta := rep.StoreTable[1]
		assert.Equal(t, 1, beta.TotalOrders, "page collected before the failure is kept")
		assert.Equal(t, 1, beta.FullyRefunded)

		gamma := rep.StoreTable[2]
		assert.Equal(t, 0, gamma.TotalOrders)
		assert.True(t, gamma.Revenue.IsZero())

		assert.Equal(t, 4, rep.Summary.TotalOrders)
		assert.Equal(t, "42.50", rep.Summary.TotalRevenue)
		assert.Equal(t, 2, rep.Summary.OrdersToFulfill)

		// Orders list carries only fetched stores, tagged with identity.
		require.Len(t, rep.Orders, 4)
		for _, o := range rep.Orders {
			assert.NotEqual(t, 3, o.StoreID, "skipped store contributes no orders")
		}
	})

	t.Run("line items are decorated from the product index", func(t *testing.T) {
		srv := stubUpstream(t)
		svc := analytics.NewServiceWithFactory(testConfig(), nil, nil, stubFactory(srv))

		rep, err := svc.BuildReport(context.Background(), testWindow())
		require.NoError(t, err)

		var mug *struct{ image, url string }
		for _, o := range rep.Orders {
			for _, li := range o.LineItems {
				if li.Title == "Blue Mug" {
					require.NotNil(t, li.Image)
					mug = &struct{ image, url string }{li.Image.Src, li.ProductURL}
				}
			}
		}
		require.NotNil(t, mug)
		assert.Equal(t, "https://cdn.example/mug.png", mug.image)
		assert.Equal(t, "https://www.alpha-store.com/products/blue-mug", mug.url, "url uses the resolved public domain")
	})

	t.Run("missing date range fails fast", func(t *testing.T) {
		svc := analytics.NewServiceWithFactory(testConfig(), nil, nil, stubFactory(stubUpstream(t)))

		_, err := svc.BuildReport(context.Background(), analytics.Params{})
		assert.ErrorIs(t, err, analytics.ErrMissingDateRange)
	})

	t.Run("table-only mode omits the order list", func(t *testing.T) {
		srv := stubUpstream(t)
		svc := analytics.NewServiceWithFactory(testConfig(), nil, nil, stubFactory(srv))

		p := testWindow()
		p.IncludeOrders = false

		rep, err := svc.BuildReport(context.Background(), p)
		require.NoError(t, err)
		assert.Nil(t, rep.Orders)
		assert.Equal(t, 4, rep.Summary.TotalOrders)
	})

	t.Run("records run history", func(t *testing.T) {
		srv := stubUpstream(t)
		repo := storage.NewMockRepository()
		svc := analytics.NewServiceWithFactory(testConfig(), repo, nil, stubFactory(srv))

		_, err := svc.BuildReport(context.Background(), testWindow())
		require.NoError(t, err)

		runs, err := repo.ListReportRuns(10)
		require.NoError(t, err)
		require.Len(t, runs, 1)

		run := runs[0]
		assert.Equal(t, "2024-01-01", run.StartDate)
		assert.Equal(t, 3, run.StoresTotal)
		assert.Equal(t, 2, run.StoresFetched)
		assert.Equal(t, 1, run.StoresSkipped)
		assert.Equal(t, 1, run.StoresPartial, "beta's failed second page marks it partial")
		assert.Equal(t, 4, run.TotalOrders)
		assert.Equal(t, "completed_partial", run.Status)
	})

	t.Run("re-running the same window yields identical rows", func(t *testing.T) {
		srv := stubUpstream(t)
		svc := analytics.NewServiceWithFactory(testConfig(), nil, nil, stubFactory(srv))

		first, err := svc.BuildReport(context.Background(), testWindow())
		require.NoError(t, err)
		second, err := svc.BuildReport(context.Background(), testWindow())
		require.NoError(t, err)

		assert.Equal(t, first.Summary, second.Summary)
		require.Len(t, second.StoreTable, len(first.StoreTable))
		for i := range first.StoreTable {
			assert.Equal(t, first.StoreTable[i].TotalOrders, second.StoreTable[i].TotalOrders)
			assert.True(t, first.StoreTable[i].Revenue.Equal(second.StoreTable[i].Revenue))
		}
	})
}

func TestFetcher_FetchStore(t *testing.T) {
	t.Run("unprovisioned store is skipped without any request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("no request expected for unprovisioned store")
		}))
		defer srv.Close()

		f := analytics.NewFetcher(stubFactory(srv), nil)
		fetch := f.FetchStore(context.Background(), config.Store{ID: 9, Name: "NoCreds"}, analytics.Window{
			Start: time.Now().Add(-time.Hour),
			End:   time.Now(),
		})

		assert.True(t, fetch.Skipped)
		assert.Empty(t, fetch.Orders)
		assert.False(t, fetch.Partial())
	})

	t.Run("shop lookup failure falls back to api domain", func(t *testing.T) {
		srv := stubUpstream(t)
		f := analytics.NewFetcher(stubFactory(srv), nil)

		fetch := f.FetchStore(context.Background(), config.Store{ID: 2, Name: "Beta", Domain: "beta.myshopify.com", Token: "tok-beta"}, analytics.Window{
			Start: time.Now().Add(-time.Hour),
			End:   time.Now(),
		})

		assert.Equal(t, "beta.myshopify.com", fetch.PublicDomain)
	})
}
