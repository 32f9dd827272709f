package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. MRP is the
// original list price; SpecialPrice is the current sellable price. The
// catalog keeps SpecialPrice <= MRP, but consumers do not enforce it.
type Product struct {
	ID           string
	Name         string
	MRP          decimal.Decimal
	SpecialPrice decimal.Decimal
	Category     string
	InStock      bool
	Colors       []string
	Sizes        []string
	Image        Image
}

// Image holds responsive image URLs for a product.
type Image struct {
	Thumbnail string
	Mobile    string
	Tablet    string
	Desktop   string
}

// Repository defines read operations for the product catalog. The catalog is
// a read-only feed; nothing in this service mutates it outside of seeding.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
