package selection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"PhoneCompare/internal/catalog"
)

var (
	ErrCatalogNotFound    = errors.New("catalog product not found")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

const defaultCatalogTimeout = 3 * time.Second

// ProductResolver turns a bare product id into the reference stored in a
// selection list.
type ProductResolver interface {
	Resolve(ctx context.Context, id string) (catalog.ProductRef, error)
}

// CatalogClient resolves products against the catalog service.
type CatalogClient struct {
	BaseURL string
	client  *resty.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultCatalogTimeout
	}
	return &CatalogClient{
		BaseURL: baseURL,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// Resolve fetches the product. Placeholder records count as not found so a
// synthetic "Unknown Smartphone" never lands in a list.
func (c *CatalogClient) Resolve(ctx context.Context, id string) (catalog.ProductRef, error) {
	var res catalog.GetResult

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&res).
		Get("/products/{id}")
	if err != nil {
		return catalog.ProductRef{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return catalog.ProductRef{}, ErrCatalogNotFound
	default:
		return catalog.ProductRef{}, fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode())
	}

	if !res.Found() {
		return catalog.ProductRef{}, ErrCatalogNotFound
	}
	return res.Product.Ref(), nil
}
