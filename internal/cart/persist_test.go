package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dukerupert/stride/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestore(t *testing.T) {
	s := NewStore(nil)
	s.AddItem(product("p1", "19.99"), "M", "black", 2)
	s.AddItem(product("p2", ""), "", "", 1)

	b, err := state.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	ns := state.NewNamespace(b, Codec)
	ctx := context.Background()
	require.NoError(t, ns.Save(ctx, "visitor", s.Snapshot()))

	var snap Snapshot
	require.NoError(t, ns.Load(ctx, "visitor", &snap))
	restored := NewStore(nil)
	restored.Restore(snap)

	assert.Equal(t, s.TotalItems(), restored.TotalItems())
	assert.True(t, s.TotalPrice().Equal(restored.TotalPrice()))
	assert.Equal(t, "black", restored.Items()[0].SelectedColor)
	assert.Nil(t, restored.Items()[1].Product.Price)
}

func TestRestore_Normalizes(t *testing.T) {
	s := NewStore(nil)
	s.Restore(Snapshot{Items: []Item{
		{Product: product("p1", "10"), Quantity: 1, SelectedSize: "M"},
		{Product: product("p2", "10"), Quantity: 0},
		{Product: product("p1", "10"), Quantity: 2, SelectedSize: "M"},
	}})

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCodec_MigratesV1(t *testing.T) {
	v1 := `{"items":[
		{"product":{"_id":"p1","name":"Runner","price":80},"quantity":1,"selectedSize":{"size":"M","stock":4},"selectedColor":"black"},
		{"product":{"_id":"p1","name":"Runner","price":80},"quantity":2,"selectedSize":{"size":"M","stock":4},"selectedColor":"black"},
		{"product":{"_id":"p2","name":"Cap","price":15},"quantity":1,"selectedSize":null,"selectedColor":null}
	]}`

	var snap Snapshot
	err := Codec.Decode(state.Envelope{Version: 1, Data: json.RawMessage(v1)}, &snap)
	require.NoError(t, err)

	require.Len(t, snap.Items, 2)
	assert.Equal(t, `{"size":"M","stock":4}`, snap.Items[0].SelectedSize)
	assert.Equal(t, "black", snap.Items[0].SelectedColor)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, "", snap.Items[1].SelectedSize)
	assert.Equal(t, "80.00", snap.Items[0].Product.Price.String())
}
