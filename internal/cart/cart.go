// Package cart models the transient, client-local shopping cart as an
// explicit value object. Mutations are pure functions: each returns a new
// Cart or an error, never modifying the receiver. The cart is discarded on
// checkout or explicit clear — nothing here is persisted.
package cart

import (
	"errors"
	"fmt"

	"shopmanager/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock = errors.New("product out of stock")
)

// Line is one product snapshot plus the quantity the user intends to buy.
// The snapshot pins the selling price: later catalog edits do not change
// what an already-carted line will charge.
type Line struct {
	Product model.Product
	Qty     int
}

// LineTotal returns unit price × quantity for this line.
func (l Line) LineTotal() decimal.Decimal {
	return l.Product.SellingPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart is an immutable sequence of lines.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() Cart { return Cart{} }

// Lines returns a copy of the cart's lines.
func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c Cart) Len() int { return len(c.lines) }

// Add puts one unit of the product into the cart, merging with an existing
// line for the same product. Adding beyond the product's available stock is
// rejected — stock is re-checked again at checkout commit time, but the cart
// is the first gate.
func (c Cart) Add(p model.Product) (Cart, error) {
	if p.QuantityInStock <= 0 {
		return c, ErrOutOfStock
	}
	for i, l := range c.lines {
		if l.Product.ID == p.ID {
			if l.Qty >= p.QuantityInStock {
				return c, fmt.Errorf("maximum stock level reached for %q: %d available", p.Name, p.QuantityInStock)
			}
			next := c.copyLines()
			next[i].Qty++
			return Cart{lines: next}, nil
		}
	}
	next := append(c.copyLines(), Line{Product: p, Qty: 1})
	return Cart{lines: next}, nil
}

// UpdateQty applies a signed delta to the line for productID. The result must
// stay within 1..available stock; anything else is an error, never a silent
// clamp. Removing a line entirely goes through Remove.
func (c Cart) UpdateQty(productID uuid.UUID, delta int) (Cart, error) {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			newQty := l.Qty + delta
			if newQty < 1 {
				return c, errors.New("quantity cannot drop below one; remove the line instead")
			}
			if newQty > l.Product.QuantityInStock {
				return c, fmt.Errorf("cannot exceed available stock for %q: %d available", l.Product.Name, l.Product.QuantityInStock)
			}
			next := c.copyLines()
			next[i].Qty = newQty
			return Cart{lines: next}, nil
		}
	}
	return c, errors.New("product is not in the cart")
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (c Cart) Remove(productID uuid.UUID) Cart {
	next := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if l.Product.ID != productID {
			next = append(next, l)
		}
	}
	return Cart{lines: next}
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart { return Cart{} }

// Subtotal sums line totals across the cart.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// TotalItems counts units across all lines.
func (c Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

func (c Cart) copyLines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}
