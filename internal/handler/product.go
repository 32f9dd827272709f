package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/velmora/storefront/internal/domain/product"
)

// productResponse is the public catalog representation of a product.
type productResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	MRP          float64       `json:"mrp"`
	SpecialPrice float64       `json:"specialPrice"`
	Category     string        `json:"category"`
	InStock      bool          `json:"inStock"`
	Colors       []string      `json:"colors"`
	Sizes        []string      `json:"sizes"`
	Image        imageResponse `json:"image"`
}

type imageResponse struct {
	Thumbnail string `json:"thumbnail"`
	Mobile    string `json:"mobile"`
	Tablet    string `json:"tablet"`
	Desktop   string `json:"desktop"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, h.toProductResponse(*p))
}

// toProductResponse converts a domain product into the API shape. Image
// paths are prefixed with the configured imageBaseURL.
func (h *Handler) toProductResponse(p product.Product) productResponse {
	base := h.imageBaseURL
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		MRP:          p.MRP.InexactFloat64(),
		SpecialPrice: p.SpecialPrice.InexactFloat64(),
		Category:     p.Category,
		InStock:      p.InStock,
		Colors:       colors,
		Sizes:        sizes,
		Image: imageResponse{
			Thumbnail: base + p.Image.Thumbnail,
			Mobile:    base + p.Image.Mobile,
			Tablet:    base + p.Image.Tablet,
			Desktop:   base + p.Image.Desktop,
		},
	}
}
