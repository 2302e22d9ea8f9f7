// Package store keeps one traveller's journey: an ordered, observable list of
// items that is written through to a key-value backend on every change.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/journey/cart/internal/price"
	"github.com/Alturino/journey/cart/pkg/model"
	"github.com/Alturino/journey/internal/log"
	"github.com/Alturino/journey/internal/storage"
)

// Snapshot is a copy of the store taken right after a change.
type Snapshot struct {
	Items       []model.CartItem
	IsOpen      bool
	TotalItems  int
	TotalGuests int
	TotalPrice  decimal.Decimal
}

type Listener func(c context.Context, snapshot Snapshot)

type subscription struct {
	id       int
	listener Listener
}

type Store struct {
	mu          sync.RWMutex
	key         string
	kv          storage.KeyValue
	items       []model.CartItem
	isOpen      bool
	nextID      int
	subscribers []subscription
}

// New builds a store over items without reading the backend. Use Load to
// restore a persisted journey.
func New(key string, kv storage.KeyValue, items []model.CartItem) *Store {
	s := &Store{key: key, kv: kv, items: make([]model.CartItem, 0, len(items))}
	for _, item := range items {
		s.items = append(s.items, item.Clone())
	}
	return s
}

func (s *Store) Key() string {
	return s.key
}

// Subscribe registers l for every applied change and returns a func that
// removes it again.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscription{id: id, listener: l})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// mutate runs fn under the write lock. When fn reports a change the items are
// written through (if persist is set) and subscribers are notified once the
// lock is released.
func (s *Store) mutate(c context.Context, tag string, persist bool, fn func() bool) bool {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, tag).Str(log.KeyCacheKey, s.key).Logger()

	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		logger.Debug().Msg("nothing changed")
		return false
	}
	if persist {
		s.save(logger.WithContext(c))
	}
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, len(s.subscribers))
	for i, sub := range s.subscribers {
		listeners[i] = sub.listener
	}
	s.mu.Unlock()

	logger.Debug().Int(log.KeyItemsCount, snapshot.TotalItems).Msg("journey changed")
	for _, l := range listeners {
		l(c, snapshot)
	}
	return true
}

func (s *Store) indexOf(key model.Key) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// AddItem appends n unless its key is already present, in which case the
// existing entry and its configuration are kept as they are.
func (s *Store) AddItem(c context.Context, n model.NewItem) bool {
	return s.mutate(c, "Store AddItem", true, func() bool {
		if s.indexOf(model.Key{ID: n.ID, Type: n.Type}) >= 0 {
			return false
		}
		s.items = append(s.items, n.Item())
		return true
	})
}

func (s *Store) RemoveItem(c context.Context, key model.Key) bool {
	return s.mutate(c, "Store RemoveItem", true, func() bool {
		i := s.indexOf(key)
		if i < 0 {
			return false
		}
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		return true
	})
}

func (s *Store) UpdateItem(c context.Context, key model.Key, patch model.ItemPatch) bool {
	return s.mutate(c, "Store UpdateItem", true, func() bool {
		i := s.indexOf(key)
		if i < 0 || patch.IsEmpty() {
			return false
		}
		s.items[i] = patch.Apply(s.items[i])
		return true
	})
}

func (s *Store) UpdateDate(c context.Context, key model.Key, date string) bool {
	return s.UpdateItem(c, key, model.ItemPatch{Date: &date})
}

func (s *Store) UpdateGuests(c context.Context, key model.Key, guests int) bool {
	return s.UpdateItem(c, key, model.ItemPatch{Guests: &guests})
}

// ReorderItems replaces the sequence with items as given. The caller owns
// the permutation; nothing is checked against the current contents.
func (s *Store) ReorderItems(c context.Context, items []model.CartItem) bool {
	return s.mutate(c, "Store ReorderItems", true, func() bool {
		reordered := make([]model.CartItem, 0, len(items))
		for _, item := range items {
			reordered = append(reordered, item.Clone())
		}
		s.items = reordered
		return true
	})
}

func (s *Store) ClearCart(c context.Context) bool {
	return s.mutate(c, "Store ClearCart", true, func() bool {
		s.items = []model.CartItem{}
		return true
	})
}

// Drain hands the current contents to handle and empties the journey in the
// same locked step, so nothing added concurrently is cleared unseen. When
// handle fails the journey is left as it was.
func (s *Store) Drain(c context.Context, handle func(Snapshot) error) (Snapshot, error) {
	var (
		snapshot Snapshot
		err      error
	)
	s.mutate(c, "Store Drain", true, func() bool {
		snapshot = s.snapshotLocked()
		if err = handle(snapshot); err != nil {
			return false
		}
		s.items = []model.CartItem{}
		return true
	})
	return snapshot, err
}

func (s *Store) ToggleCart(c context.Context) bool {
	return s.mutate(c, "Store ToggleCart", false, func() bool {
		s.isOpen = !s.isOpen
		return true
	})
}

func (s *Store) OpenCart(c context.Context) bool {
	return s.mutate(c, "Store OpenCart", false, func() bool {
		if s.isOpen {
			return false
		}
		s.isOpen = true
		return true
	})
}

func (s *Store) CloseCart(c context.Context) bool {
	return s.mutate(c, "Store CloseCart", false, func() bool {
		if !s.isOpen {
			return false
		}
		s.isOpen = false
		return true
	})
}

func (s *Store) Items() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsLocked()
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpen
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) TotalGuests() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalGuests(s.items)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return price.Total(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) itemsLocked() []model.CartItem {
	items := make([]model.CartItem, len(s.items))
	for i, item := range s.items {
		items[i] = item.Clone()
	}
	return items
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:       s.itemsLocked(),
		IsOpen:      s.isOpen,
		TotalItems:  len(s.items),
		TotalGuests: totalGuests(s.items),
		TotalPrice:  price.Total(s.items),
	}
}

func totalGuests(items []model.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.GuestCount()
	}
	return total
}
