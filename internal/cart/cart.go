// Package cart holds a visitor's shopping cart: an ordered collection of line
// items keyed by (product id, size, color) with derived totals.
package cart

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/shopspring/decimal"
)

// Key identifies one purchasable variant of a product.
type Key struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Item is one line of the cart. Product is the snapshot taken when the item
// was added.
type Item struct {
	Product       domain.Product `json:"product"`
	Quantity      int            `json:"quantity"`
	SelectedSize  string         `json:"selectedSize"`
	SelectedColor string         `json:"selectedColor"`
}

func (i Item) Key() Key {
	return Key{ProductID: i.Product.ID, Size: i.SelectedSize, Color: i.SelectedColor}
}

// LineTotal is unit price times quantity; a missing price counts as zero.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store is the cart of a single visitor. Every stored item has quantity >= 1
// and there is at most one item per Key. Insertion order is kept for display.
type Store struct {
	mu       sync.RWMutex
	items    []Item
	notifier notify.Notifier
}

// NewStore returns an empty cart that reports to n. A nil n discards notifications.
func NewStore(n notify.Notifier) *Store {
	if n == nil {
		n = notify.Discard
	}
	return &Store{notifier: n}
}

// AddItem merges quantity into the item with the same variant key or appends
// a new one. Stock is the caller's concern. A non-positive quantity counts as 1.
func (s *Store) AddItem(product domain.Product, size, color string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	key := Key{ProductID: product.ID, Size: size, Color: color}

	s.mu.Lock()
	if i := s.indexOf(key); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, Item{
			Product:       product,
			Quantity:      quantity,
			SelectedSize:  size,
			SelectedColor: color,
		})
	}
	s.mu.Unlock()

	s.notifier.Success("Added to cart!")
}

// RemoveItem removes every variant of productID.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	s.items = filter(s.items, func(it Item) bool { return it.Product.ID != productID })
	s.mu.Unlock()

	s.notifier.Success("Removed from cart")
}

// RemoveVariant removes the single item with key and reports whether it existed.
func (s *Store) RemoveVariant(key Key) bool {
	s.mu.Lock()
	before := len(s.items)
	s.items = filter(s.items, func(it Item) bool { return it.Key() != key })
	removed := len(s.items) < before
	s.mu.Unlock()

	if removed {
		s.notifier.Success("Removed from cart")
	}
	return removed
}

// UpdateQuantity sets quantity on every variant of productID. A quantity of
// zero or less removes the product.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
		}
	}
}

// UpdateVariantQuantity sets quantity on the item with key. A quantity of
// zero or less removes it. It reports whether the item existed.
func (s *Store) UpdateVariantQuantity(key Key, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveVariant(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(key)
	if i < 0 {
		return false
	}
	s.items[i].Quantity = quantity
	return true
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// TotalPrice is the merchandise subtotal.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// TotalItems is the sum of quantities, shown as the cart badge.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

func (s *Store) indexOf(key Key) int {
	for i := range s.items {
		if s.items[i].Key() == key {
			return i
		}
	}
	return -1
}

func filter(items []Item, keep func(Item) bool) []Item {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// OptionText coerces a raw JSON size or color selection to its text key.
// Strings are unquoted, null or absent values become "", anything else keeps
// its compact JSON text.
func OptionText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}
