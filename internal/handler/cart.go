package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/velmora/storefront/internal/domain/cart"
	"github.com/velmora/storefront/internal/domain/product"
)

// sessionCookie carries the anonymous session ID. Carts are single-device
// and best-effort: the cookie is the only owner credential.
const sessionCookie = "sid"

// cartResponse mirrors the persisted snapshot shape.
type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"itemCount"`
}

type cartItemResponse struct {
	ID       string          `json:"id"`
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Color    *string         `json:"color"`
	Size     *string         `json:"size"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// sessionID returns the session identifier from the request cookie, minting
// and setting a new one when absent.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Get(r.Context(), sessionID(w, r))
	writeJSON(w, http.StatusOK, h.toCartResponse(store.Snapshot()))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "product "+req.ProductID+" not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	store := h.carts.Get(r.Context(), sessionID(w, r))
	state := store.AddItem(r.Context(), cart.AddItem{
		Product:  *p,
		Quantity: req.Quantity,
		Color:    req.Color,
		Size:     req.Size,
	})
	writeJSON(w, http.StatusOK, h.toCartResponse(state))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store := h.carts.Get(r.Context(), sessionID(w, r))
	state := store.UpdateQuantity(r.Context(), r.PathValue("key"), req.Quantity)
	writeJSON(w, http.StatusOK, h.toCartResponse(state))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Get(r.Context(), sessionID(w, r))
	state := store.RemoveItem(r.Context(), r.PathValue("key"))
	writeJSON(w, http.StatusOK, h.toCartResponse(state))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Get(r.Context(), sessionID(w, r))
	writeJSON(w, http.StatusOK, h.toCartResponse(store.Clear(r.Context())))
}

func (h *Handler) toCartResponse(s cart.State) cartResponse {
	items := make([]cartItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = cartItemResponse{
			ID:       item.Key,
			Product:  h.toProductResponse(item.Product),
			Quantity: item.Quantity,
			Color:    nullableStr(item.Color),
			Size:     nullableStr(item.Size),
		}
	}
	return cartResponse{
		Items:     items,
		Total:     s.Total.InexactFloat64(),
		ItemCount: s.ItemCount,
	}
}

func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
