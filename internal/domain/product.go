package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the storefront's top-level product grouping.
type Category string

const (
	CategoryFootwear    Category = "footwear"
	CategoryApparel     Category = "apparel"
	CategoryAccessories Category = "accessories"
	CategoryEquipment   Category = "equipment"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryFootwear, CategoryApparel, CategoryAccessories, CategoryEquipment}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Size is one purchasable size of a product together with its stock count.
// Stock is nil when the backend sent the size as a bare string.
type Size struct {
	Name  string `json:"size"`
	Stock *int   `json:"stock,omitempty"`
}

// UnmarshalJSON accepts both "M" and {"size":"M","stock":4}.
func (s *Size) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = Size{Name: name}
		return nil
	}

	type plain Size
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("size: %w", err)
	}
	*s = Size(p)
	return nil
}

// InStock reports whether quantity units of this size can be ordered.
// Sizes without stock information are always orderable.
func (s Size) InStock(quantity int) bool {
	if s.Stock == nil {
		return true
	}
	return *s.Stock >= quantity
}

// Product is the backend's catalog entry. The storefront never mutates it;
// it is always fetched fresh and snapshotted into cart line items.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *Money    `json:"price,omitempty"`
	Category    Category  `json:"category"`
	Images      []string  `json:"images"`
	Sizes       []Size    `json:"sizes"`
	Colors      []string  `json:"colors"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// UnitPrice returns the product price, or zero when the backend sent none.
func (p Product) UnitPrice() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// FindSize looks up a size by name.
func (p Product) FindSize(name string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Name == name {
			return s, true
		}
	}
	return Size{}, false
}

// HasColor reports whether color is offered for the product.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// TotalStock sums the known stock across sizes.
func (p Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		if s.Stock != nil {
			total += *s.Stock
		}
	}
	return total
}

// ProductQuery holds the list filters understood by GET /products.
type ProductQuery struct {
	Category Category
	Sort     string // createdAt, price, name
	Order    string // asc, desc
	Featured bool
	Limit    int
	Page     int
}

// Pagination is the paging block returned alongside product lists.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ProductPage is one page of the product list.
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}
