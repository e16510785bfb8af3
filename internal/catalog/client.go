package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/autostore/storefront-backend/pkg/breaker"
	"github.com/autostore/storefront-backend/pkg/config"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
	"github.com/autostore/storefront-backend/pkg/logger"
	"github.com/autostore/storefront-backend/pkg/metrics"
)

// Product is the catalog record consumed by the cart and checkout flows.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ImageURL    string          `json:"image_url"`
	Active      bool            `json:"active"`
}

// Page is one page of catalog results.
type Page struct {
	Items         []Product `json:"items"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"total_elements"`
}

type productCache interface {
	Get(ctx context.Context, id string) (*Product, error)
	Set(ctx context.Context, product *Product) error
}

type fetchResult struct {
	status int
	body   []byte
}

// Client talks to the catalog collaborator over HTTP. Requests flow through a
// circuit breaker; only transport errors and 5xx responses count as failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[fetchResult]
	cache      productCache
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
}

// ClientOptions configures the catalog client.
type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
	Breaker config.BreakerConfig
	Cache   productCache
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// NewClient builds the catalog client.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := &Client{
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      opts.Cache,
		logg:       opts.Logger,
		metrics:    opts.Metrics,
	}
	client.breaker = gobreaker.NewCircuitBreaker[fetchResult](breaker.Settings("catalog", opts.Breaker, opts.Logger))
	return client, nil
}

// GetProduct loads one product by id, read-through the cache when present.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, id)
		if err != nil && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "product_id", id), "catalog.cache_read_failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	var product Product
	if err := c.get(ctx, "get_product", c.baseURL+"/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, &product); err != nil && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "product_id", id), "catalog.cache_write_failed")
		}
	}
	return &product, nil
}

// Search returns one page of products whose name contains the keyword.
func (c *Client) Search(ctx context.Context, keyword string, page, size int) (*Page, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	setPaging(query, page, size)

	var result Page
	if err := c.get(ctx, "search", c.baseURL+"/search?"+query.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByCategory returns one page of products for the category.
func (c *Client) ListByCategory(ctx context.Context, categoryID string, page, size int) (*Page, error) {
	query := url.Values{}
	query.Set("category_id", categoryID)
	setPaging(query, page, size)

	var result Page
	if err := c.get(ctx, "list_by_category", c.baseURL+"/by-category?"+query.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, op, rawURL string, dest any) error {
	start := time.Now()
	defer func() {
		c.metrics.ObserveCatalogDuration(op, time.Since(start))
	}()

	result, err := c.breaker.Execute(func() (fetchResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fetchResult{}, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fetchResult{}, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return fetchResult{}, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fetchResult{}, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}
		return fetchResult{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}

	switch {
	case result.status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case result.status >= http.StatusBadRequest:
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog rejected request").
			WithDetails(map[string]any{"status": result.status})
	}

	if err := json.Unmarshal(result.body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}

func setPaging(query url.Values, page, size int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 5
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
}

