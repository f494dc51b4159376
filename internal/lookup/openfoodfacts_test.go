package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/skyscan/internal/types"
)

func TestLookupFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/product/4006381333931.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "skyscan/1.0" {
			t.Errorf("unexpected user agent: %q", ua)
		}
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Milk",
				"brands": "Acme",
				"image_front_url": "https://img.example/front.jpg",
				"quantity": "1L",
				"categories_tags": ["en:dairies", "en:milks"]
			}
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	product, err := client.Lookup(context.Background(), "4006381333931")
	if err != nil {
		t.Fatal(err)
	}
	if product.Name != "Milk" || product.Brand != "Acme" || product.Quantity != "1L" {
		t.Errorf("unexpected product: %+v", product)
	}
	if product.Barcode != "4006381333931" {
		t.Errorf("barcode not carried through: %q", product.Barcode)
	}
	if product.ImageURL != "https://img.example/front.jpg" {
		t.Errorf("unexpected image url: %q", product.ImageURL)
	}
}

func TestLookupNameFallback(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"english name", `{"status":1,"product":{"product_name_en":"Oat Drink"}}`, "Oat Drink"},
		{"no name at all", `{"status":1,"product":{"brands":"Acme"}}`, "Unknown Product"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := New(server.URL, "")
			product, err := client.Lookup(context.Background(), "123")
			if err != nil {
				t.Fatal(err)
			}
			if product.Name != tc.want {
				t.Errorf("expected name %q, got %q", tc.want, product.Name)
			}
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.Lookup(context.Background(), "000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.Lookup(context.Background(), "123")

	var apiErr *types.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestLookupNetworkError(t *testing.T) {
	client := New("http://127.0.0.1:1", "")
	_, err := client.Lookup(context.Background(), "123")

	var netErr *types.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}
