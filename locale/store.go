package locale

import (
	"context"
	"sync"
	"sync/atomic"
)

// Store hands out the snapshot that is current at call time. Reloads build
// a complete new snapshot and swap it in; readers holding an older snapshot
// keep using it until they are done.
type Store struct {
	cur    atomic.Pointer[Snapshot]
	loader *Loader

	l      sync.Mutex
	onSwap []func(*Snapshot)

	reload sync.Mutex
}

func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// NewStaticStore wraps a snapshot that never reloads.
func NewStaticStore(s *Snapshot) *Store {
	st := &Store{}
	st.cur.Store(s)
	return st
}

func (s *Store) Snapshot() *Snapshot { return s.cur.Load() }

func (s *Store) Swap(n *Snapshot) *Snapshot {
	old := s.cur.Swap(n)
	s.l.Lock()
	cbs := s.onSwap
	s.l.Unlock()
	for _, cb := range cbs {
		cb(n)
	}
	return old
}

// OnSwap registers a callback invoked after every swap.
func (s *Store) OnSwap(cb func(*Snapshot)) {
	s.l.Lock()
	s.onSwap = append(s.onSwap, cb)
	s.l.Unlock()
}

// Reload loads the directory and swaps the result in. On error the current
// snapshot is kept. Concurrent reloads run one after another so an older
// load never replaces a newer one; readers are not blocked.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	if s.loader == nil {
		return s.Snapshot(), nil
	}
	s.reload.Lock()
	defer s.reload.Unlock()
	n, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.Swap(n)
	return n, nil
}

func (s *Store) Loader() *Loader { return s.loader }
