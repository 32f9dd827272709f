// Package hero holds the homepage hero imagery managed through the admin
// surface.
package hero

import "context"

// Banner is one hero slot on the homepage. Position orders the carousel;
// inactive banners are kept for the admin panel but never served publicly.
type Banner struct {
	ID       string
	Title    string
	ImageURL string
	LinkURL  string
	Position int
	Active   bool
}

// Repository defines persistence operations for hero banners. Replace swaps
// the entire banner set atomically; the admin panel always submits the full
// list.
type Repository interface {
	ListActive(ctx context.Context) ([]Banner, error)
	Replace(ctx context.Context, banners []Banner) error
}
