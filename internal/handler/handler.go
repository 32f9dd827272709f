// Package handler exposes the storefront HTTP API: product catalog reads,
// session cart mutations, and the admin hero surface.
package handler

import (
	"net/http"

	"github.com/velmora/storefront/internal/domain/hero"
	"github.com/velmora/storefront/internal/domain/product"
	"github.com/velmora/storefront/internal/session"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product and hero
	// responses. When empty, paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler routes storefront API requests to the domain layer.
type Handler struct {
	products     product.Repository
	heroes       hero.Repository
	carts        *session.Manager
	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(cfg Config, products product.Repository, heroes hero.Repository, carts *session.Manager) *Handler {
	return &Handler{
		products:     products,
		heroes:       heroes,
		carts:        carts,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Register mounts all API routes on the mux. Admin routes are wrapped with
// the given security middleware.
func (h *Handler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/product", h.listProducts)
	mux.HandleFunc("GET /api/product/{id}", h.getProduct)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PUT /api/cart/items/{key}", h.updateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{key}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)

	mux.HandleFunc("GET /api/hero", h.listHero)
	mux.Handle("PUT /api/hero", admin(http.HandlerFunc(h.replaceHero)))
}
