package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velmora/storefront/internal/domain/hero"
)

type heroResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
	Position int    `json:"position"`
}

type heroRequest struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
	Position int    `json:"position"`
	Active   *bool  `json:"active"`
}

func (h *Handler) listHero(w http.ResponseWriter, r *http.Request) {
	banners, err := h.heroes.ListActive(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list hero banners", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]heroResponse, len(banners))
	for i, b := range banners {
		out[i] = heroResponse{
			ID:       b.ID,
			Title:    b.Title,
			ImageURL: h.imageBaseURL + b.ImageURL,
			LinkURL:  b.LinkURL,
			Position: b.Position,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// replaceHero swaps the whole hero set. Admin only.
func (h *Handler) replaceHero(w http.ResponseWriter, r *http.Request) {
	var reqs []heroRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	banners := make([]hero.Banner, len(reqs))
	for i, b := range reqs {
		if b.ImageURL == "" {
			writeError(w, http.StatusUnprocessableEntity, "imageUrl required")
			return
		}
		id := b.ID
		if id == "" {
			id = uuid.New().String()
		}
		active := true
		if b.Active != nil {
			active = *b.Active
		}
		banners[i] = hero.Banner{
			ID:       id,
			Title:    b.Title,
			ImageURL: b.ImageURL,
			LinkURL:  b.LinkURL,
			Position: b.Position,
			Active:   active,
		}
	}

	if err := h.heroes.Replace(r.Context(), banners); err != nil {
		zctx.From(r.Context()).Error("replace hero banners", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
