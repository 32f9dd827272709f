package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmora/storefront/internal/domain/hero"
)

var _ hero.Repository = (*HeroRepository)(nil)

// HeroRepository implements hero.Repository backed by PostgreSQL.
type HeroRepository struct {
	pool *pgxpool.Pool
}

// NewHeroRepository returns a HeroRepository that uses the given pool.
func NewHeroRepository(pool *pgxpool.Pool) *HeroRepository {
	return &HeroRepository{pool: pool}
}

// ListActive returns the active hero banners in carousel order.
func (r *HeroRepository) ListActive(ctx context.Context) ([]hero.Banner, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, image_url, link_url, position, active
		 FROM hero_banners WHERE active ORDER BY position, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list hero banners")
	}
	defer rows.Close()

	var banners []hero.Banner
	for rows.Next() {
		var b hero.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Position, &b.Active); err != nil {
			return nil, errors.Wrap(err, "scan hero banner")
		}
		banners = append(banners, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate hero banners")
	}
	return banners, nil
}

// Replace swaps the entire banner set in a single transaction, so readers
// never observe a partially updated carousel.
func (r *HeroRepository) Replace(ctx context.Context, banners []hero.Banner) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM hero_banners`); err != nil {
		return errors.Wrap(err, "clear hero banners")
	}

	for _, b := range banners {
		_, err := tx.Exec(ctx,
			`INSERT INTO hero_banners (id, title, image_url, link_url, position, active)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			b.ID, b.Title, b.ImageURL, b.LinkURL, b.Position, b.Active)
		if err != nil {
			return errors.Wrapf(err, "insert hero banner %q", b.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}
