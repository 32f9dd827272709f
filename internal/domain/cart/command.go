package cart

import "github.com/velmora/storefront/internal/domain/product"

// Command is a sealed tagged variant describing one cart mutation. The only
// implementations live in this package.
type Command interface {
	isCommand()
}

// AddItem inserts a product+variant line item, or accumulates quantity onto
// an existing line item with the same identity.
type AddItem struct {
	Product  product.Product
	Quantity int
	Color    string
	Size     string
}

// RemoveItem removes the line item with the given key. Unknown keys are a
// no-op.
type RemoveItem struct {
	Key string
}

// UpdateQuantity overwrites the quantity of the line item with the given key,
// clamped to a floor of 1. Unknown keys are a no-op.
type UpdateQuantity struct {
	Key      string
	Quantity int
}

// Clear resets the cart to the canonical empty state.
type Clear struct{}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (Clear) isCommand()          {}

// Apply is the pure transition function: it computes the next state from the
// current state and a command, recomputing the derived totals. It never
// mutates its input and performs no I/O.
func Apply(s State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		return derive(applyAdd(clone(s), c))
	case RemoveItem:
		return derive(applyRemove(clone(s), c))
	case UpdateQuantity:
		return derive(applyUpdate(clone(s), c))
	case Clear:
		return Empty()
	default:
		return s
	}
}

func applyAdd(s State, c AddItem) State {
	qty := c.Quantity
	if qty < 1 {
		qty = 1
	}

	key := ItemKey(c.Product.ID, c.Color, c.Size)
	for i, item := range s.Items {
		if item.Key == key {
			item.Quantity += qty
			s.Items[i] = item
			return s
		}
	}

	s.Items = append(s.Items, LineItem{
		Key:      key,
		Product:  c.Product,
		Quantity: qty,
		Color:    c.Color,
		Size:     c.Size,
	})
	return s
}

func applyRemove(s State, c RemoveItem) State {
	for i, item := range s.Items {
		if item.Key == c.Key {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return s
		}
	}
	return s
}

func applyUpdate(s State, c UpdateQuantity) State {
	// Quantities below 1 clamp up to 1; removal must be requested explicitly
	// via RemoveItem.
	qty := c.Quantity
	if qty < 1 {
		qty = 1
	}

	for i, item := range s.Items {
		if item.Key == c.Key {
			item.Quantity = qty
			s.Items[i] = item
			return s
		}
	}
	return s
}
