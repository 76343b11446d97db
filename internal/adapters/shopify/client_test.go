package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(ClientOptions{
		Domain:     "alpha.myshopify.com",
		Token:      "shpat_test",
		APIVersion: "2024-01",
		PageSize:   2,
		MaxPages:   10,
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func TestClient_FetchOrders(t *testing.T) {
	t.Run("follows link header across pages", func(t *testing.T) {
		var requests []string

		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()

		mux.HandleFunc("/admin/api/2024-01/orders.json", func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.RawQuery)
			require.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))

			if r.URL.Query().Get("page_info") == "" {
				// First page carries the filters and advertises a next page.
				assert.Equal(t, "any", r.URL.Query().Get("status"))
				assert.Equal(t, "created_at asc", r.URL.Query().Get("order"))
				assert.NotEmpty(t, r.URL.Query().Get("created_at_min"))
				assert.NotEmpty(t, r.URL.Query().Get("created_at_max"))

				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/orders.json?limit=2&page_info=abc>; rel="next"`, srv.URL))
				fmt.Fprint(w, `{"orders":[{"id":1,"name":"#1001","total_price":"10.00"},{"id":2,"name":"#1002","total_price":"20.00"}]}`)
				return
			}

			// Cursor request must not carry the original filters.
			assert.Empty(t, r.URL.Query().Get("status"))
			assert.Empty(t, r.URL.Query().Get("created_at_min"))
			fmt.Fprint(w, `{"orders":[{"id":3,"name":"#1003","total_price":"30.00"}]}`)
		})

		client := testClient(srv)
		orders, status := client.FetchOrders(context.Background(), OrdersQuery{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		})

		require.Len(t, requests, 2)
		require.Len(t, orders, 3)
		assert.Equal(t, int64(1), orders[0].ID)
		assert.Equal(t, "#1003", orders[2].Name)
		assert.True(t, status.Complete)
		assert.Equal(t, 2, status.Pages)
	})

	t.Run("non-200 terminates pagination with partial result", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/orders.json?page_info=abc>; rel="next"`, "http://"+r.Host))
				fmt.Fprint(w, `{"orders":[{"id":1}]}`)
				return
			}
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := testClient(srv)
		orders, status := client.FetchOrders(context.Background(), OrdersQuery{Start: time.Now().Add(-time.Hour), End: time.Now()})

		assert.Len(t, orders, 1)
		require.Error(t, status.Err)
		assert.True(t, status.Partial())
	})

	t.Run("per-page timeout aborts a slow page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		client := NewClient(ClientOptions{
			Domain:        "alpha.myshopify.com",
			Token:         "shpat_test",
			BaseURL:       srv.URL,
			HTTPClient:    srv.Client(),
			OrdersTimeout: 50 * time.Millisecond,
		})

		orders, status := client.FetchOrders(context.Background(), OrdersQuery{Start: time.Now().Add(-time.Hour), End: time.Now()})

		assert.Empty(t, orders)
		require.Error(t, status.Err)
		assert.True(t, status.Partial())
	})
}

func TestClient_FetchProducts(t *testing.T) {
	t.Run("requests active products with projection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/admin/api/2024-01/products.json", r.URL.Path)
			assert.Equal(t, "active", r.URL.Query().Get("status"))
			assert.Equal(t, productFields, r.URL.Query().Get("fields"))
			fmt.Fprint(w, `{"products":[{"id":7,"handle":"blue-mug","status":"active","images":[{"src":"https://cdn.example/mug.png"}]}]}`)
		}))
		defer srv.Close()

		client := testClient(srv)
		products, status := client.FetchProducts(context.Background())

		require.Len(t, products, 1)
		assert.Equal(t, "blue-mug", products[0].Handle)
		assert.True(t, status.Complete)
	})
}

func TestClient_FetchShopDomain(t *testing.T) {
	t.Run("returns canonical public domain", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/admin/api/2024-01/shop.json", r.URL.Path)
			fmt.Fprint(w, `{"shop":{"domain":"www.alpha-store.com"}}`)
		}))
		defer srv.Close()

		domain, err := testClient(srv).FetchShopDomain(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "www.alpha-store.com", domain)
	})

	t.Run("errors on empty domain", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"shop":{}}`)
		}))
		defer srv.Close()

		_, err := testClient(srv).FetchShopDomain(context.Background())
		assert.Error(t, err)
	})
}
