package ght

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// node is one entry of a bucket chain. A node is reachable from exactly one
// chain at a time; resize moves it, never copies it.
type node struct {
	key   Slot
	hash  uint64 // digest at insertion time, reused by resize
	value Slot
	next  *node
}

// Table is a separate-chaining hash table from Slot keys to Slot payloads.
//
// Table does no locking of its own. Callers must serialise access to a
// Table, or use SyncTable.
type Table struct {
	buckets    []*node
	load       int
	autoResize float64
	digestor   Digestor
	comparator Comparator
	dealloc    Deallocator
	log        *zap.Logger
}

// New creates a table with width buckets. The default digestor is the
// 64-bit murmur3 mixer unless an option says otherwise.
func New(width int, opts ...Option) (*Table, error) {
	cfg := Config{Width: width}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewFromConfig(cfg)
}

// NewFromConfig creates a table from an explicit configuration.
func NewFromConfig(cfg Config) (*Table, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	return &Table{
		buckets:    make([]*node, cfg.Width),
		autoResize: cfg.AutoResize,
		digestor:   cfg.Digestor,
		comparator: cfg.Comparator,
		dealloc:    cfg.Deallocator,
		log:        cfg.Logger,
	}, nil
}

func (t *Table) valid() bool {
	return t != nil && t.buckets != nil
}

func (t *Table) index(hash uint64) int {
	return int(hash % uint64(len(t.buckets)))
}

func (t *Table) equal(a, b Slot) bool {
	if t.comparator != nil {
		return t.comparator(a, b) == 0
	}
	return a == b
}

// lookup walks the chain selected by hash and returns the node holding key,
// moving it to the head of its chain. Keys are matched by value, never by
// digest.
func (t *Table) lookup(key Slot, hash uint64) *node {
	idx := t.index(hash)

	var prev *node
	n := t.buckets[idx]
	for n != nil && !t.equal(key, n.key) {
		prev = n
		n = n.next
	}
	if n == nil {
		return nil
	}

	if prev != nil {
		prev.next = n.next
		n.next = t.buckets[idx]
		t.buckets[idx] = n
	}
	return n
}

// Insert associates value with key. An existing key keeps its node: the
// deallocator sees the old payload first, then the new payload is stored
// and the node moves to the head of its chain.
func (t *Table) Insert(key, value Slot) error {
	if !t.valid() {
		return ErrNilTable
	}

	hash := t.digestor(key)
	if n := t.lookup(key, hash); n != nil {
		if t.dealloc != nil {
			t.dealloc(n.key, n.value)
		}
		n.value = value
		return nil
	}

	if t.shouldGrow() {
		t.resize(len(t.buckets)*2, true)
	}

	idx := t.index(hash)
	t.buckets[idx] = &node{
		key:   key,
		hash:  hash,
		value: value,
		next:  t.buckets[idx],
	}
	t.load++
	return nil
}

// shouldGrow reports whether one more entry would push the load factor past
// the auto-resize threshold.
func (t *Table) shouldGrow() bool {
	if t.autoResize <= 0 {
		return false
	}
	width := len(t.buckets)
	if width > math.MaxInt/2 {
		return false
	}
	return float64(t.load+1)/float64(width) > t.autoResize
}

// Search returns the payload stored for key. The boolean is false when the
// key is absent, which keeps a stored zero distinguishable from a miss.
// A hit moves the entry to the head of its chain.
func (t *Table) Search(key Slot) (Slot, bool) {
	if !t.valid() {
		return 0, false
	}

	n := t.lookup(key, t.digestor(key))
	if n == nil {
		return 0, false
	}
	return n.value, true
}

// Contains reports whether key is present, with the same side effect as
// Search.
func (t *Table) Contains(key Slot) bool {
	_, ok := t.Search(key)
	return ok
}

// Delete removes key, passing its entry to the deallocator.
func (t *Table) Delete(key Slot) error {
	if !t.valid() {
		return ErrNilTable
	}

	idx := t.index(t.digestor(key))

	var prev *node
	n := t.buckets[idx]
	for n != nil && !t.equal(key, n.key) {
		prev = n
		n = n.next
	}
	if n == nil {
		return ErrKeyNotFound
	}

	if prev == nil {
		t.buckets[idx] = n.next
	} else {
		prev.next = n.next
	}
	n.next = nil

	if t.dealloc != nil {
		t.dealloc(n.key, n.value)
	}
	t.load--
	return nil
}

// Load returns the number of live entries, or 0 for a nil table.
func (t *Table) Load() int {
	if !t.valid() {
		return 0
	}
	return t.load
}

// Width returns the bucket count, or 0 for a nil table.
func (t *Table) Width() int {
	if !t.valid() {
		return 0
	}
	return len(t.buckets)
}

// LoadFactor returns Load()/Width(), or 0 for a nil or empty-width table.
func (t *Table) LoadFactor() float64 {
	width := t.Width()
	if width == 0 {
		return 0
	}
	return float64(t.load) / float64(width)
}

// Resize rebuilds the bucket array with width buckets. Entries are relinked
// using their cached digests; any positive width is accepted, including a
// smaller one.
func (t *Table) Resize(width int) error {
	if !t.valid() {
		return ErrNilTable
	}
	if width <= 0 {
		return errors.Wrapf(ErrZeroWidth, "resize to %d", width)
	}

	t.resize(width, false)
	return nil
}

// resize relinks every node into a new bucket array of the given width.
// Nodes keep their relative order within each destination chain, so the
// recency order produced by move-to-front survives a resize.
func (t *Table) resize(width int, auto bool) {
	oldWidth := len(t.buckets)
	buckets := make([]*node, width)
	tails := make([]*node, width)

	for i, n := range t.buckets {
		for n != nil {
			next := n.next
			n.next = nil

			idx := int(n.hash % uint64(width))
			if tails[idx] == nil {
				buckets[idx] = n
			} else {
				tails[idx].next = n
			}
			tails[idx] = n

			n = next
		}
		t.buckets[i] = nil
	}
	t.buckets = buckets

	t.log.Debug("resized table",
		zap.Int("old_width", oldWidth),
		zap.Int("new_width", width),
		zap.Int("load", t.load),
		zap.Bool("auto", auto),
	)
}

// Destroy discards every entry, calling the deallocator once per entry,
// and releases the bucket array. A destroyed table behaves like a nil one.
func (t *Table) Destroy() error {
	if !t.valid() {
		return ErrNilTable
	}

	for i, n := range t.buckets {
		for n != nil {
			next := n.next
			n.next = nil
			if t.dealloc != nil {
				t.dealloc(n.key, n.value)
			}
			t.load--
			n = next
		}
		t.buckets[i] = nil
	}

	t.log.Debug("destroyed table", zap.Int("width", len(t.buckets)))
	t.buckets = nil
	t.load = 0
	return nil
}
