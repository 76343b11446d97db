// Package shopify is the Admin API client for one store account.
//
// Pagination follows the cursor convention: the first request carries filter
// parameters, every later request is the verbatim rel="next" URL from the
// previous response's Link header. Page fetches are never retried; a failed
// page terminates pagination for that collection and the caller gets whatever
// was collected up to that point.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultPageSize = 250
	defaultMaxPages = 50

	defaultOrdersTimeout   = 10 * time.Second
	defaultProductsTimeout = 20 * time.Second
	defaultShopTimeout     = 5 * time.Second

	orderFields   = "id,name,email,financial_status,fulfillment_status,total_price,created_at,cancelled_at,line_items"
	productFields = "id,handle,images,status"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	Domain     string
	Token      string
	APIVersion string

	PageSize int
	MaxPages int

	OrdersTimeout   time.Duration
	ProductsTimeout time.Duration
	ShopTimeout     time.Duration

	// BaseURL overrides the https://{Domain} base, used by tests that point
	// the client at a local stub server.
	BaseURL string

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to one store's Admin API.
type Client struct {
	baseURL    string
	token      string
	apiVersion string

	pageSize int
	maxPages int

	ordersTimeout   time.Duration
	productsTimeout time.Duration
	shopTimeout     time.Duration

	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for one store.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		baseURL:         opts.BaseURL,
		token:           opts.Token,
		apiVersion:      opts.APIVersion,
		pageSize:        opts.PageSize,
		maxPages:        opts.MaxPages,
		ordersTimeout:   opts.OrdersTimeout,
		productsTimeout: opts.ProductsTimeout,
		shopTimeout:     opts.ShopTimeout,
		httpClient:      opts.HTTPClient,
		logger:          opts.Logger,
	}

	if c.baseURL == "" {
		c.baseURL = "https://" + opts.Domain
	}
	if c.apiVersion == "" {
		c.apiVersion = "2024-01"
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.maxPages <= 0 {
		c.maxPages = defaultMaxPages
	}
	if c.ordersTimeout <= 0 {
		c.ordersTimeout = defaultOrdersTimeout
	}
	if c.productsTimeout <= 0 {
		c.productsTimeout = defaultProductsTimeout
	}
	if c.shopTimeout <= 0 {
		c.shopTimeout = defaultShopTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// OrdersQuery is the filter set for the first orders page.
// The window is inclusive-start per the upstream created_at_min convention.
type OrdersQuery struct {
	Start time.Time
	End   time.Time
}

// FetchOrders drains every page of orders created inside the query window,
// ascending by creation time. The returned status reports whether the set is
// complete; a partial set is not an error.
func (c *Client) FetchOrders(ctx context.Context, q OrdersQuery) ([]RawOrder, PageStatus) {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(c.pageSize))
	params.Set("status", "any")
	params.Set("order", "created_at asc")
	params.Set("fields", orderFields)
	params.Set("created_at_min", q.Start.Format(time.RFC3339))
	params.Set("created_at_max", q.End.Format(time.RFC3339))

	firstURL := c.endpoint("orders.json") + "?" + params.Encode()

	orders, status := drain(ctx, firstURL, c.maxPages, func(ctx context.Context, pageURL string) ([]RawOrder, *Cursor, error) {
		var envelope ordersEnvelope
		next, err := c.getJSON(ctx, pageURL, c.ordersTimeout, &envelope)
		if err != nil {
			return nil, nil, err
		}
		return envelope.Orders, next, nil
	})

	c.logPagination("orders", status, len(orders))
	return orders, status
}

// FetchProducts drains the full product catalog restricted to active
// products. There is no date filter: line items can reference products
// created at any point in the past.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, PageStatus) {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(c.pageSize))
	params.Set("fields", productFields)
	params.Set("status", "active")

	firstURL := c.endpoint("products.json") + "?" + params.Encode()

	products, status := drain(ctx, firstURL, c.maxPages, func(ctx context.Context, pageURL string) ([]Product, *Cursor, error) {
		var envelope productsEnvelope
		next, err := c.getJSON(ctx, pageURL, c.productsTimeout, &envelope)
		if err != nil {
			return nil, nil, err
		}
		return envelope.Products, next, nil
	})

	c.logPagination("products", status, len(products))
	return products, status
}

// FetchShopDomain looks up the shop's canonical public domain, used to build
// storefront product URLs.
func (c *Client) FetchShopDomain(ctx context.Context) (string, error) {
	var envelope shopEnvelope
	if _, err := c.getJSON(ctx, c.endpoint("shop.json"), c.shopTimeout, &envelope); err != nil {
		return "", fmt.Errorf("failed to fetch shop metadata: %w", err)
	}
	if envelope.Shop.Domain == "" {
		return "", fmt.Errorf("shop metadata has no domain")
	}
	return envelope.Shop.Domain, nil
}

// endpoint builds a versioned Admin API URL.
func (c *Client) endpoint(resource string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, resource)
}

// getJSON performs one authenticated GET bounded by the given timeout,
// decodes the body into out, and returns the next-page cursor if the response
// advertises one.
func (c *Client) getJSON(ctx context.Context, rawURL string, timeout time.Duration, out any) (*Cursor, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return ParseNextLink(resp.Header.Get("Link")), nil
}

// logPagination emits one line per drained collection.
func (c *Client) logPagination(resource string, status PageStatus, count int) {
	switch {
	case status.Err != nil:
		c.logger.Warn("pagination terminated early",
			"resource", resource,
			"pages", status.Pages,
			"records", count,
			"error", status.Err,
		)
	case status.Truncated:
		c.logger.Warn("pagination hit page ceiling",
			"resource", resource,
			"pages", status.Pages,
			"records", count,
		)
	default:
		c.logger.Debug("pagination complete",
			"resource", resource,
			"pages", status.Pages,
			"records", count,
		)
	}
}
