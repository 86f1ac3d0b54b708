// internal/cart/registry.go
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Session is the cart state owned by one browser session.
type Session struct {
	ID     string
	Cart   *Store
	Drawer *Drawer
}

type entry struct {
	session  *Session
	once     sync.Once
	lastSeen time.Time
}

// Registry owns the per-session carts. A session is created and hydrated on
// first access and torn down after sitting idle for the configured timeout.
type Registry struct {
	mu          sync.Mutex
	entries     map[string]*entry
	storageFor  StorageFunc
	idleTimeout time.Duration
	now         func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry starts the idle sweeper when idleTimeout is positive.
func NewRegistry(storageFor StorageFunc, idleTimeout time.Duration) *Registry {
	if storageFor == nil {
		storageFor = MemoryStorageFunc()
	}

	r := &Registry{
		entries:     make(map[string]*entry),
		storageFor:  storageFor,
		idleTimeout: idleTimeout,
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	if idleTimeout > 0 {
		go r.sweepLoop()
	} else {
		close(r.done)
	}
	return r
}

// Session returns the session for id, creating and hydrating it first if needed.
func (r *Registry) Session(ctx context.Context, id string) *Session {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		storage := r.storageFor(id)
		e = &entry{session: &Session{
			ID:     id,
			Cart:   NewStore(storage),
			Drawer: NewDrawer(storage),
		}}
		r.entries[id] = e
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	e.once.Do(func() {
		e.session.Cart.Hydrate(ctx)
		e.session.Drawer.Hydrate(ctx)
	})
	return e.session
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep tears down sessions idle longer than the timeout and returns how many
// were removed. Persisted state is left in storage.
func (r *Registry) Sweep() int {
	if r.idleTimeout <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.idleTimeout)
	var idle []*Session

	r.mu.Lock()
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.session)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Cart.Close()
	}
	return len(idle)
}

// Close stops the sweeper and tears down every session.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
		<-r.done

		r.mu.Lock()
		entries := r.entries
		r.entries = make(map[string]*entry)
		r.mu.Unlock()

		for _, e := range entries {
			e.session.Cart.Close()
		}
	})
}

func (r *Registry) sweepLoop() {
	defer close(r.done)

	interval := r.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logrus.WithField("sessions", n).Debug("Evicted idle cart sessions")
			}
		}
	}
}
