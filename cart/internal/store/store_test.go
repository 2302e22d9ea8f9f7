package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/journey/cart/pkg/model"
	"github.com/Alturino/journey/internal/storage"
)

const testKey = "journey:test:items"

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func newItem(id string, itemType model.ItemType, label string) model.NewItem {
	return model.NewItem{ID: id, Type: itemType, Title: "Title " + id, Price: label}
}

func keys(items []model.CartItem) []model.Key {
	out := make([]model.Key, len(items))
	for i, item := range items {
		out[i] = item.Key()
	}
	return out
}

func TestAddItem(t *testing.T) {
	c := context.Background()

	t.Run("given distinct keys should count every add", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		types := []model.ItemType{model.TypeTour, model.TypeExperience, model.TypeActivity, model.TypeService}
		for i := 0; i < 12; i++ {
			assert.True(t, s.AddItem(c, newItem(fmt.Sprintf("id-%d", i/4), types[i%4], "€10")))
		}
		assert.Equal(t, 12, s.TotalItems())
	})

	t.Run("given same key twice should keep first configuration", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		key := model.Key{ID: "desert", Type: model.TypeTour}
		require.True(t, s.AddItem(c, newItem("desert", model.TypeTour, "€150")))
		require.True(t, s.UpdateDate(c, key, "2025-05-01"))
		require.True(t, s.UpdateGuests(c, key, 3))

		again := newItem("desert", model.TypeTour, "€999")
		again.Guests = intPtr(7)
		assert.False(t, s.AddItem(c, again))

		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "2025-05-01", items[0].Date)
		assert.Equal(t, 3, items[0].GuestCount())
		assert.Equal(t, "€150", items[0].Price)
	})

	t.Run("given same id under another type should add a second entry", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		assert.True(t, s.AddItem(c, newItem("x", model.TypeTour, "")))
		assert.True(t, s.AddItem(c, newItem("x", model.TypeService, "")))
		assert.Equal(t, []model.Key{{ID: "x", Type: model.TypeTour}, {ID: "x", Type: model.TypeService}}, keys(s.Items()))
	})

	t.Run("given no guests should leave them unset and count one", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		s.AddItem(c, newItem("a", model.TypeActivity, "€20"))
		assert.Nil(t, s.Items()[0].Guests)
		assert.Equal(t, 1, s.TotalGuests())
	})
}

func TestRemoveItem(t *testing.T) {
	c := context.Background()

	t.Run("given re-add after remove should start unconfigured", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		key := model.Key{ID: "a", Type: model.TypeExperience}
		s.AddItem(c, newItem("a", model.TypeExperience, "€40"))
		s.UpdateItem(c, key, model.ItemPatch{Date: strPtr("2025-05-01"), Guests: intPtr(4)})

		assert.True(t, s.RemoveItem(c, key))
		assert.True(t, s.AddItem(c, newItem("a", model.TypeExperience, "€40")))

		items := s.Items()
		require.Len(t, items, 1)
		assert.Empty(t, items[0].Date)
		assert.Nil(t, items[0].Guests)
	})

	t.Run("given two types with same id should remove only the matching one", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		s.AddItem(c, newItem("x", model.TypeTour, ""))
		s.AddItem(c, newItem("x", model.TypeService, ""))
		assert.True(t, s.RemoveItem(c, model.Key{ID: "x", Type: model.TypeService}))
		assert.Equal(t, []model.Key{{ID: "x", Type: model.TypeTour}}, keys(s.Items()))
	})

	t.Run("given missing key should be a silent no-op", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		s.AddItem(c, newItem("x", model.TypeTour, ""))
		assert.False(t, s.RemoveItem(c, model.Key{ID: "x", Type: model.TypeActivity}))
		assert.False(t, s.RemoveItem(c, model.Key{ID: "nope", Type: model.TypeTour}))
		assert.Equal(t, 1, s.TotalItems())
	})
}

func TestUpdateItem(t *testing.T) {
	c := context.Background()
	s := New(testKey, storage.NewMemory(), nil)
	key := model.Key{ID: "a", Type: model.TypeTour}
	s.AddItem(c, model.NewItem{ID: "a", Type: model.TypeTour, Title: "Atlas", Image: "/img/atlas.jpg", Price: "€100"})

	assert.True(t, s.UpdateItem(c, key, model.ItemPatch{Title: strPtr("High Atlas"), Guests: intPtr(2)}))
	assert.False(t, s.UpdateItem(c, model.Key{ID: "a", Type: model.TypeService}, model.ItemPatch{Guests: intPtr(9)}))
	assert.False(t, s.UpdateItem(c, key, model.ItemPatch{}))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, model.CartItem{
		ID:     "a",
		Type:   model.TypeTour,
		Title:  "High Atlas",
		Image:  "/img/atlas.jpg",
		Price:  "€100",
		Guests: intPtr(2),
	}, items[0])
}

func TestReorderItems(t *testing.T) {
	c := context.Background()
	s := New(testKey, storage.NewMemory(), nil)
	for i := 0; i < 8; i++ {
		s.AddItem(c, newItem(fmt.Sprintf("id-%d", i), model.TypeExperience, "€5"))
	}
	before := keys(s.Items())

	r := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		items := s.Items()
		r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		assert.True(t, s.ReorderItems(c, items))

		assert.Equal(t, len(before), s.TotalItems())
		assert.ElementsMatch(t, before, keys(s.Items()))
		assert.Equal(t, keys(items), keys(s.Items()))
	}
}

func TestTotals(t *testing.T) {
	c := context.Background()
	s := New(testKey, storage.NewMemory(), nil)
	s.AddItem(c, model.NewItem{ID: "a", Type: model.TypeTour, Title: "A", Price: "€100", Guests: intPtr(2)})
	s.AddItem(c, model.NewItem{ID: "b", Type: model.TypeService, Title: "B", Price: "Contact for price"})

	assert.Equal(t, 2, s.TotalItems())
	assert.Equal(t, 3, s.TotalGuests())
	assert.True(t, decimal.NewFromInt(200).Equal(s.TotalPrice()))

	assert.True(t, s.ClearCart(c))
	assert.Equal(t, 0, s.TotalItems())
	assert.Equal(t, 0, s.TotalGuests())
	assert.True(t, decimal.Zero.Equal(s.TotalPrice()))
}

func TestDrawer(t *testing.T) {
	c := context.Background()
	kv := storage.NewMemory()
	s := New(testKey, kv, nil)

	assert.False(t, s.IsOpen())
	assert.True(t, s.OpenCart(c))
	assert.False(t, s.OpenCart(c))
	assert.True(t, s.IsOpen())
	assert.True(t, s.ToggleCart(c))
	assert.False(t, s.IsOpen())
	assert.False(t, s.CloseCart(c))
	assert.True(t, s.ToggleCart(c))

	_, err := kv.Get(c, testKey)
	assert.Error(t, err, "drawer state must not be persisted")
}

func TestSubscribe(t *testing.T) {
	c := context.Background()
	s := New(testKey, storage.NewMemory(), nil)

	snapshots := []Snapshot{}
	unsubscribe := s.Subscribe(func(_ context.Context, snapshot Snapshot) {
		snapshots = append(snapshots, snapshot)
	})

	s.AddItem(c, newItem("a", model.TypeTour, "€10"))
	s.AddItem(c, newItem("a", model.TypeTour, "€10"))
	s.RemoveItem(c, model.Key{ID: "missing", Type: model.TypeTour})
	s.UpdateGuests(c, model.Key{ID: "a", Type: model.TypeTour}, 2)
	s.OpenCart(c)

	require.Len(t, snapshots, 3)
	assert.Equal(t, 1, snapshots[0].TotalItems)
	assert.Equal(t, 2, snapshots[1].TotalGuests)
	assert.True(t, decimal.NewFromInt(20).Equal(snapshots[1].TotalPrice))
	assert.True(t, snapshots[2].IsOpen)

	unsubscribe()
	s.ClearCart(c)
	assert.Len(t, snapshots, 3)
}

func TestDrain(t *testing.T) {
	c := context.Background()
	failed := errors.New("no recipient")

	tests := []struct {
		name          string
		handleErr     error
		expectedItems int
	}{
		{name: "given handle succeeds should empty the journey", expectedItems: 0},
		{name: "given handle fails should keep the journey", handleErr: failed, expectedItems: 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			kv := storage.NewMemory()
			s := New(testKey, kv, nil)
			s.AddItem(c, newItem("a", model.TypeTour, "€10"))
			s.AddItem(c, newItem("b", model.TypeService, "€5"))
			notified := 0
			s.Subscribe(func(context.Context, Snapshot) { notified++ })

			drained, err := s.Drain(c, func(snapshot Snapshot) error {
				assert.Equal(t, 2, snapshot.TotalItems)
				return test.handleErr
			})
			assert.ErrorIs(t, err, test.handleErr)
			assert.Len(t, drained.Items, 2)
			assert.Equal(t, test.expectedItems, s.TotalItems())
			assert.Equal(t, test.expectedItems, Load(c, testKey, kv).TotalItems())
			if test.handleErr == nil {
				assert.Equal(t, 1, notified)
			} else {
				assert.Equal(t, 0, notified)
			}
		})
	}

	t.Run("given concurrent adds should hand off or keep every item", func(t *testing.T) {
		s := New(testKey, storage.NewMemory(), nil)
		const n = 50
		wg := sync.WaitGroup{}
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s.AddItem(c, newItem(fmt.Sprintf("item-%d", i), model.TypeActivity, ""))
			}(i)
		}
		drained, err := s.Drain(c, func(Snapshot) error { return nil })
		require.NoError(t, err)
		wg.Wait()

		assert.Equal(t, n, drained.TotalItems+s.TotalItems())
	})
}

func TestSnapshotIsolation(t *testing.T) {
	c := context.Background()
	s := New(testKey, storage.NewMemory(), nil)
	s.AddItem(c, model.NewItem{ID: "a", Type: model.TypeTour, Title: "A", Guests: intPtr(2)})

	items := s.Items()
	*items[0].Guests = 50
	items[0].Title = "changed"

	assert.Equal(t, 2, s.TotalGuests())
	assert.Equal(t, "A", s.Items()[0].Title)
}
