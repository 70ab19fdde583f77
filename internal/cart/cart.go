package cart

import (
	"github.com/google/uuid"
)

// Item is what gets added to a cart: a menu item's identity plus price and
// stock snapshots taken at add time. The snapshots are deliberately not
// refreshed mid-session; checkout re-validates stock against storage.
type Item struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Stock int       `json:"stock"`
}

// Line is one menu item's chosen quantity within a shopping session.
// Invariant: 1 <= Quantity <= Stock.
type Line struct {
	Item
	Quantity int `json:"quantity"`
}

// Cart holds the lines of one shopping session in insertion order.
type Cart struct {
	lines []*Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts a new line with quantity 1, or increments an existing line
// by 1 while it is below the stock snapshot. At the snapshot limit the call
// is a silent no-op.
func (c *Cart) AddItem(item Item) {
	for _, line := range c.lines {
		if line.ID == item.ID {
			if line.Quantity < line.Stock {
				line.Quantity++
			}
			return
		}
	}
	c.lines = append(c.lines, &Line{Item: item, Quantity: 1})
}

// RemoveItem deletes the line unconditionally. Absent ids are ignored.
func (c *Cart) RemoveItem(id uuid.UUID) {
	for i, line := range c.lines {
		if line.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity, clamped to the stock snapshot.
// A quantity of zero or less removes the line.
func (c *Cart) UpdateQuantity(id uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	for _, line := range c.lines {
		if line.ID == id {
			if quantity > line.Stock {
				quantity = line.Stock
			}
			line.Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total returns the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
