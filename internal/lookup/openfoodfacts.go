// Package lookup fetches product data by barcode from an Open Food
// Facts compatible service.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/skyscan/internal/types"
)

// ErrNotFound signals that the service has no product for the barcode.
// This is an expected condition, not a hard failure; the scan flow maps
// it to a placeholder product.
var ErrNotFound = errors.New("product not found")

const defaultUserAgent = "skyscan/1.0"

// Client talks to the product lookup service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a Client for the given base URL. An empty userAgent falls
// back to the default.
func New(baseURL, userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type lookupResponse struct {
	Status  int `json:"status"`
	Product *struct {
		ProductName    string   `json:"product_name"`
		ProductNameEN  string   `json:"product_name_en"`
		Brands         string   `json:"brands"`
		ImageURL       string   `json:"image_url"`
		ImageFrontURL  string   `json:"image_front_url"`
		Quantity       string   `json:"quantity"`
		CategoriesTags []string `json:"categories_tags"`
	} `json:"product"`
}

// Lookup fetches the product for the barcode. A status other than 1 or a
// missing product body returns ErrNotFound.
func (c *Client) Lookup(ctx context.Context, barcode string) (*types.Product, error) {
	url := fmt.Sprintf("%s/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.NetworkError{Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &types.APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse lookup response: %w", err)
	}
	if parsed.Status != 1 || parsed.Product == nil {
		return nil, ErrNotFound
	}

	name := parsed.Product.ProductName
	if name == "" {
		name = parsed.Product.ProductNameEN
	}
	if name == "" {
		name = "Unknown Product"
	}
	imageURL := parsed.Product.ImageFrontURL
	if imageURL == "" {
		imageURL = parsed.Product.ImageURL
	}

	return &types.Product{
		Barcode:    barcode,
		Name:       name,
		Brand:      parsed.Product.Brands,
		ImageURL:   imageURL,
		Quantity:   parsed.Product.Quantity,
		Categories: parsed.Product.CategoriesTags,
	}, nil
}
