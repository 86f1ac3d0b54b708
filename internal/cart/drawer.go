// internal/cart/drawer.go
package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// DrawerStorageKey is the key the drawer flag is persisted under.
const DrawerStorageKey = "luxe-cart-ui"

type drawerState struct {
	IsCartOpen bool `json:"is_cart_open"`
}

// Drawer is the session's cart drawer visibility flag. Starts closed.
type Drawer struct {
	mu      sync.Mutex
	open    bool
	storage Storage
}

func NewDrawer(storage Storage) *Drawer {
	return &Drawer{storage: storage}
}

func (d *Drawer) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Drawer) Open(ctx context.Context) {
	d.set(ctx, func(bool) bool { return true })
}

func (d *Drawer) Close(ctx context.Context) {
	d.set(ctx, func(bool) bool { return false })
}

// Toggle flips the flag and returns the new value.
func (d *Drawer) Toggle(ctx context.Context) bool {
	return d.set(ctx, func(open bool) bool { return !open })
}

// Hydrate restores the persisted flag; anything unreadable means closed.
func (d *Drawer) Hydrate(ctx context.Context) {
	var state drawerState
	if d.storage != nil {
		if data, err := d.storage.Load(ctx, DrawerStorageKey); err == nil && len(data) > 0 {
			if err := json.Unmarshal(data, &state); err != nil {
				state = drawerState{}
			}
		}
	}

	d.mu.Lock()
	d.open = state.IsCartOpen
	d.mu.Unlock()
}

func (d *Drawer) set(ctx context.Context, fn func(bool) bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.open = fn(d.open)
	if d.storage != nil {
		data, _ := json.Marshal(drawerState{IsCartOpen: d.open})
		if err := d.storage.Save(ctx, DrawerStorageKey, data); err != nil {
			logrus.WithError(err).Debug("Skipping drawer persistence")
		}
	}
	return d.open
}
