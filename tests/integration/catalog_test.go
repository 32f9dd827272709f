//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != seededProducts {
		t.Fatalf("expected %d products, got %d", seededProducts, len(products))
	}

	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			t.Errorf("product missing id or name: %+v", p)
		}
		if p.SpecialPrice <= 0 || p.SpecialPrice > p.MRP {
			t.Errorf("product %s: specialPrice %f out of range (mrp %f)", p.ID, p.SpecialPrice, p.MRP)
		}
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/product/classic-oxford-shirt")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != "classic-oxford-shirt" {
		t.Errorf("expected id classic-oxford-shirt, got %q", p.ID)
	}
	if len(p.Colors) == 0 || len(p.Sizes) == 0 {
		t.Errorf("expected variants, got colors=%v sizes=%v", p.Colors, p.Sizes)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/product/no-such-product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("expected error code 404, got %d", body.Code)
	}
}

func TestListHero(t *testing.T) {
	resp := doGet(t, "/api/hero")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	banners := decodeJSON[[]heroResponse](t, resp)
	if len(banners) != 2 {
		t.Fatalf("expected 2 banners, got %d", len(banners))
	}
}

func TestReplaceHero_RequiresAPIKey(t *testing.T) {
	banners := []map[string]any{{"title": "Flash Sale", "imageUrl": "/hero/flash.jpg", "position": 1}}

	resp := doRequest(t, httpClient, http.MethodPut, "/api/hero", banners, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d", resp.StatusCode)
	}
}

func TestReplaceHero_WithAPIKey(t *testing.T) {
	banners := []map[string]any{
		{"id": "summer-sale", "title": "Summer Sale: Up to 30% Off", "imageUrl": "/hero/summer-sale.jpg", "linkUrl": "/category/women", "position": 1},
		{"id": "new-arrivals", "title": "New Season Arrivals", "imageUrl": "/hero/new-arrivals.jpg", "linkUrl": "/category/men", "position": 2},
	}

	resp := doRequest(t, httpClient, http.MethodPut, "/api/hero", banners, "integration-test-key")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}
