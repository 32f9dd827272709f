// Package cart implements the session shopping cart: line items keyed by a
// deterministic product+variant identity, a pure command transition function,
// and a Store that layers persistence on top as an observer.
package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velmora/storefront/internal/domain/product"
)

// LineItem is one row in the cart: a unique product+variant combination and
// its quantity. Product is a snapshot captured at insertion time and never
// re-fetched.
type LineItem struct {
	Key      string
	Product  product.Product
	Quantity int
	Color    string
	Size     string
}

// State is the aggregate cart state. Total and ItemCount are derived from
// Items and are never set directly; every transition recomputes them.
type State struct {
	Items     []LineItem
	Total     decimal.Decimal
	ItemCount int
}

// Empty returns the canonical empty state.
func Empty() State {
	return State{Items: nil, Total: decimal.Zero, ItemCount: 0}
}

// ItemKey derives the line-item identity from a product ID and its optional
// variant selectors. Two insertions producing the same key address the same
// line item.
func ItemKey(productID, color, size string) string {
	var b strings.Builder
	b.WriteString(productID)
	if color != "" {
		b.WriteByte('-')
		b.WriteString(color)
	}
	if size != "" {
		b.WriteByte('-')
		b.WriteString(size)
	}
	return b.String()
}

// derive recomputes Total and ItemCount from Items and returns the state.
// Total is Σ(specialPrice × quantity); ItemCount is Σ(quantity).
func derive(s State) State {
	total := decimal.Zero
	count := 0
	for _, item := range s.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		total = total.Add(item.Product.SpecialPrice.Mul(qty))
		count += item.Quantity
	}
	s.Total = total
	s.ItemCount = count
	return s
}

// clone returns a deep-enough copy of s: the Items slice is duplicated so
// that transitions never alias the previous state's backing array.
func clone(s State) State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
