// internal/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StorageKey is the key the cart snapshot is persisted under.
const StorageKey = "luxe-cart"

// MaxItemQuantity caps the quantity of a single cart line.
const MaxItemQuantity = 999

// Item is one cart line. Name, price and image are snapshotted when the
// product is added and are not refreshed afterwards.
type Item struct {
	ProductID string          `json:"product_id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// State is the persisted cart snapshot.
type State struct {
	Items []Item `json:"items"`
}

// Store holds one session's cart. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage Storage

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int
}

// NewStore returns an empty cart. A nil storage disables persistence.
func NewStore(storage Storage) *Store {
	return &Store{
		items:       []Item{},
		storage:     storage,
		subscribers: make(map[int]func(State)),
	}
}

// AddItem merges quantities when the product is already in the cart and
// appends otherwise. Quantities are kept within 1..MaxItemQuantity.
func (s *Store) AddItem(ctx context.Context, item Item) {
	item.Quantity = clampQuantity(item.Quantity)

	s.mutate(ctx, func(items []Item) []Item {
		for i := range items {
			if items[i].ProductID == item.ProductID {
				items[i].Quantity = mergeQuantity(items[i].Quantity, item.Quantity)
				return items
			}
		}
		return append(items, item)
	})
}

// RemoveItem deletes the matching line. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mutate(ctx, func(items []Item) []Item {
		kept := items[:0]
		for _, it := range items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

// UpdateQuantity sets quantity, clamped to 1..MaxItemQuantity, on the
// matching line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	quantity = clampQuantity(quantity)

	s.mutate(ctx, func(items []Item) []Item {
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Quantity = quantity
				break
			}
		}
		return items
	})
}

func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func([]Item) []Item {
		return []Item{}
	})
}

// Hydrate replaces the in-memory state with the persisted snapshot. A
// missing, unreadable or malformed snapshot yields an empty cart.
func (s *Store) Hydrate(ctx context.Context) {
	state := s.load(ctx)

	s.mu.Lock()
	s.items = normalize(state.Items)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Items
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subtotal is the sum of price times quantity over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	return s.State().Subtotal()
}

// Count is the total number of units in the cart.
func (s *Store) Count() int {
	return s.State().Count()
}

// Subscribe registers fn to receive the state after every change. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// Close drops all subscribers. The store stays usable.
func (s *Store) Close() {
	s.subMu.Lock()
	s.subscribers = make(map[int]func(State))
	s.subMu.Unlock()
}

func (s *Store) mutate(ctx context.Context, fn func([]Item) []Item) {
	s.mu.Lock()
	s.items = fn(s.items)
	snapshot := s.snapshotLocked()
	s.persistLocked(ctx, snapshot)
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Store) snapshotLocked() State {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return State{Items: items}
}

// persistLocked runs under s.mu so concurrent writers reach storage in the
// same order they changed the cart.
func (s *Store) persistLocked(ctx context.Context, state State) {
	if s.storage == nil {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).Debug("Skipping cart persistence")
		return
	}

	if err := s.storage.Save(ctx, StorageKey, data); err != nil {
		logrus.WithError(err).Debug("Skipping cart persistence")
	}
}

func (s *Store) load(ctx context.Context) State {
	if s.storage == nil {
		return State{}
	}

	data, err := s.storage.Load(ctx, StorageKey)
	if err != nil {
		logrus.WithError(err).Debug("Cart snapshot unavailable, starting empty")
		return State{}
	}
	if len(data) == 0 {
		return State{}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		logrus.WithError(err).Debug("Cart snapshot unreadable, starting empty")
		return State{}
	}
	return state
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func (st State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range st.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (st State) Count() int {
	count := 0
	for _, it := range st.Items {
		count += it.Quantity
	}
	return count
}

// normalize restores the store invariants on externally supplied items:
// blank ids are dropped, duplicate ids merged and quantities clamped.
func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	index := make(map[string]int, len(items))

	for _, it := range items {
		it.ProductID = strings.TrimSpace(it.ProductID)
		if it.ProductID == "" {
			continue
		}
		it.Quantity = clampQuantity(it.Quantity)
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity = mergeQuantity(out[i].Quantity, it.Quantity)
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxItemQuantity {
		return MaxItemQuantity
	}
	return q
}

// mergeQuantity adds two clamped quantities, saturating at MaxItemQuantity.
func mergeQuantity(a, b int) int {
	if a > MaxItemQuantity-b {
		return MaxItemQuantity
	}
	return a + b
}
