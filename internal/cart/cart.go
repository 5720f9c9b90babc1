package cart

import (
	"math"

	"savoria/internal/domain"
)

// TaxRate is applied to the unrounded subtotal at read time.
const TaxRate = 0.10

// Cart holds the current selection for one browsing session. It is a
// plain in-memory structure with no I/O; the owning session serialises
// access to it.
type Cart struct {
	lines []*domain.CartLine
	index map[string]*domain.CartLine
}

func New() *Cart {
	return &Cart{index: make(map[string]*domain.CartLine)}
}

// AddItem inserts a new line for the dish with quantity 1, or increments
// the existing line. Price and image are copied from the dish at this
// moment; availability and auth checks belong to the caller.
func (c *Cart) AddItem(dish domain.Dish) {
	if line, ok := c.index[dish.ID]; ok {
		line.Quantity++
		return
	}
	line := &domain.CartLine{
		DishID:    dish.ID,
		Name:      dish.Name,
		UnitPrice: dish.Price,
		ImageURL:  dish.ImageURL,
		Quantity:  1,
	}
	c.lines = append(c.lines, line)
	c.index[dish.ID] = line
}

// RemoveItem deletes the line for the given dish id. Removing an absent
// line is a no-op.
func (c *Cart) RemoveItem(id string) {
	if _, ok := c.index[id]; !ok {
		return
	}
	delete(c.index, id)
	for i, line := range c.lines {
		if line.DishID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

// SetQuantity sets the line's quantity exactly. Quantities below 1 remove
// the line; a line never persists at quantity 0. Callers sanitise input to
// an integer before this point.
func (c *Cart) SetQuantity(id string, qty int) {
	if qty < 1 {
		c.RemoveItem(id)
		return
	}
	if line, ok := c.index[id]; ok {
		line.Quantity = qty
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]*domain.CartLine)
}

// Subtotal is Σ(unitPrice × quantity) over current lines, unrounded.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, line := range c.lines {
		sum += line.UnitPrice * float64(line.Quantity)
	}
	return sum
}

// Tax and Total derive from the unrounded subtotal so rounding error does
// not compound; two-decimal rounding happens only at display.
func (c *Cart) Tax() float64 {
	return c.Subtotal() * TaxRate
}

func (c *Cart) Total() float64 {
	return c.Subtotal() + c.Tax()
}

// ItemCount is the sum of line quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a snapshot copy in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	return out
}

// Round2 is the display rounding helper for currency amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
