package cart

import (
	"encoding/json"

	"github.com/dukerupert/stride/internal/state"
)

// Snapshot is the persisted shape of a cart.
type Snapshot struct {
	Items []Item `json:"items"`
}

// Snapshot captures the cart for persistence.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Items: s.Items()}
}

// Restore replaces the cart with snap. Items with a non-positive quantity are
// dropped and duplicate keys are merged so the store invariants hold for
// whatever was stored.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = normalize(snap.Items)
}

func normalize(in []Item) []Item {
	var out []Item
	index := make(map[Key]int, len(in))
	for _, it := range in {
		if it.Quantity < 1 {
			continue
		}
		if i, ok := index[it.Key()]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.Key()] = len(out)
		out = append(out, it)
	}
	return out
}

// Codec versions the "cart-storage" blob. Version 1 stored the selected size
// and color as whatever the product page handed over, sometimes a size object.
var Codec = state.Codec{
	Namespace: "cart-storage",
	Version:   2,
	Migrations: map[int]state.Migration{
		1: migrateV1,
	},
}

type itemV1 struct {
	Product       json.RawMessage `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  json.RawMessage `json:"selectedSize"`
	SelectedColor json.RawMessage `json:"selectedColor"`
}

func migrateV1(data json.RawMessage) (json.RawMessage, error) {
	var v1 struct {
		Items []itemV1 `json:"items"`
	}
	if err := json.Unmarshal(data, &v1); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(v1.Items))
	for _, old := range v1.Items {
		it := Item{
			Quantity:      old.Quantity,
			SelectedSize:  OptionText(old.SelectedSize),
			SelectedColor: OptionText(old.SelectedColor),
		}
		if len(old.Product) > 0 {
			if err := json.Unmarshal(old.Product, &it.Product); err != nil {
				return nil, err
			}
		}
		items = append(items, it)
	}
	return json.Marshal(Snapshot{Items: normalize(items)})
}
