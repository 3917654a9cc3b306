// cart/cart.go
package cart

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"jewelry-commerce/events"
	"jewelry-commerce/pricing"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// LineItem is one row in the cart: a product plus a concrete variant
// selection. Two additions with the same product and selection collapse
// into one line item with summed quantity.
type LineItem struct {
	ProductID    string            `json:"product_id"`
	ProductName  string            `json:"product_name"`
	ProductSlug  string            `json:"product_slug"`
	ProductImage string            `json:"product_image"` // blob id, resolved to a URL by the cache
	UnitPrice    decimal.Decimal   `json:"unit_price"`
	Variants     map[string]string `json:"variants"` // variant type -> selected value
	Quantity     int               `json:"quantity"`
}

// Key derives the line item's identity from the product id and the sorted
// variant type/value pairs. Quantity and display fields do not participate.
func (li LineItem) Key() string {
	types := make([]string, 0, len(li.Variants))
	for t := range li.Variants {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	b.WriteString(li.ProductID)
	for _, t := range types {
		fmt.Fprintf(&b, "|%s=%s", t, li.Variants[t])
	}
	return b.String()
}

// Cart holds line items in insertion order. No two items share an identity
// key. Quantity never drops below 1; an item reaching zero is removed.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
	open  bool
	subs  []func()
	sink  events.Sink
}

// New returns an empty cart. A nil sink is replaced with a no-op sink.
func New(sink events.Sink) *Cart {
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Cart{sink: sink}
}

// Restore rebuilds a cart from persisted line items, preserving their order.
// Items with a non-positive quantity are dropped rather than kept at zero.
func Restore(items []LineItem, sink events.Sink) *Cart {
	c := New(sink)
	for _, li := range items {
		if li.Quantity < 1 {
			continue
		}
		c.items = append(c.items, li)
	}
	return c
}

// AddItem inserts the item or, when an item with the same identity key
// already exists, adds the quantities together.
func (c *Cart) AddItem(item LineItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	key := item.Key()
	merged := false
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, item)
	}
	c.mu.Unlock()

	c.sink.Emit(events.Event{Name: "cart.item_added", Fields: map[string]interface{}{
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	}})
	c.notify()
	return nil
}

// UpdateQuantity sets the quantity for the item with the given key. A
// quantity of zero or less removes the item.
func (c *Cart) UpdateQuantity(key string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(key)
	}

	c.mu.Lock()
	found := false
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity = quantity
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return ErrItemNotFound
	}
	c.notify()
	return nil
}

// RemoveItem deletes the item with the given key entirely.
func (c *Cart) RemoveItem(key string) error {
	c.mu.Lock()
	var removed *LineItem
	kept := c.items[:0]
	for _, li := range c.items {
		if li.Key() == key && removed == nil {
			item := li
			removed = &item
			continue
		}
		kept = append(kept, li)
	}
	c.items = kept
	c.mu.Unlock()

	if removed == nil {
		return ErrItemNotFound
	}
	c.sink.Emit(events.Event{Name: "cart.item_removed", Fields: map[string]interface{}{
		"product_id": removed.ProductID,
	}})
	c.notify()
	return nil
}

// Clear removes every item atomically. Used after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.notify()
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalQuantity sums quantities across all line items.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, li := range c.items {
		total += li.Quantity
	}
	return total
}

// Lines converts the cart contents into pricing input.
func (c *Cart) Lines() []pricing.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]pricing.Line, len(c.items))
	for i, li := range c.items {
		lines[i] = pricing.Line{UnitPrice: li.UnitPrice, Quantity: li.Quantity}
	}
	return lines
}

// Open reports the presentation-only visibility flag.
func (c *Cart) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetOpen sets the visibility flag. It carries no pricing meaning.
func (c *Cart) SetOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
	c.notify()
}

// Subscribe registers a callback invoked after every successful mutation.
func (c *Cart) Subscribe(fn func()) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Cart) notify() {
	c.mu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
