package ght

import "sync"

// SyncTable is a Table guarded by a read/write mutex. Every call is atomic
// with respect to every other call on the same SyncTable.
//
// Search relinks chains, so it takes the write lock like the mutating
// operations; only Load, Width and LoadFactor share the read lock.
// Deallocator and Digestor callbacks run with the lock held and must not
// call back into the same SyncTable.
type SyncTable struct {
	mu    sync.RWMutex
	table *Table
}

// NewSync creates a synchronized table. It accepts the same options as New.
func NewSync(width int, opts ...Option) (*SyncTable, error) {
	t, err := New(width, opts...)
	if err != nil {
		return nil, err
	}
	return &SyncTable{table: t}, nil
}

// NewSyncFromConfig creates a synchronized table from an explicit
// configuration.
func NewSyncFromConfig(cfg Config) (*SyncTable, error) {
	t, err := NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &SyncTable{table: t}, nil
}

func (s *SyncTable) Insert(key, value Slot) error {
	if s == nil {
		return ErrNilTable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Insert(key, value)
}

func (s *SyncTable) Search(key Slot) (Slot, bool) {
	if s == nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Search(key)
}

func (s *SyncTable) Contains(key Slot) bool {
	_, ok := s.Search(key)
	return ok
}

func (s *SyncTable) Delete(key Slot) error {
	if s == nil {
		return ErrNilTable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Delete(key)
}

func (s *SyncTable) Resize(width int) error {
	if s == nil {
		return ErrNilTable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Resize(width)
}

func (s *SyncTable) Destroy() error {
	if s == nil {
		return ErrNilTable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Destroy()
}

func (s *SyncTable) Load() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table.Load()
}

func (s *SyncTable) Width() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table.Width()
}

func (s *SyncTable) LoadFactor() float64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table.LoadFactor()
}

// Map is the operation set shared by Table and SyncTable.
type Map interface {
	Insert(key, value Slot) error
	Search(key Slot) (Slot, bool)
	Contains(key Slot) bool
	Delete(key Slot) error
	Resize(width int) error
	Destroy() error
	Load() int
	Width() int
	LoadFactor() float64
}

var (
	_ Map = (*Table)(nil)
	_ Map = (*SyncTable)(nil)
)
