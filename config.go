package ght

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Deallocator is called with every key/payload pair the table discards:
// on Delete, on Destroy, and with the old payload when Insert overwrites a
// key. A nil Deallocator means the caller owns payload lifetime.
type Deallocator func(key, value Slot)

// Comparator orders two keys; it must return 0 exactly when they are equal.
// Only equality is used by the table.
type Comparator func(a, b Slot) int

// Config holds everything needed to build a table.
type Config struct {
	// Width is the initial bucket count. Must be positive.
	Width int
	// Digestor overrides the default murmur3 mixer selected by KeyWidth.
	Digestor Digestor
	KeyWidth KeyWidth
	// AutoResize is the load factor that triggers a doubling before an
	// insert of a new key. Zero or negative disables growth.
	AutoResize  float64
	Deallocator Deallocator
	Comparator  Comparator
	Logger      *zap.Logger
}

// Option adjusts a Config built by New.
type Option func(*Config)

func WithDigestor(d Digestor) Option {
	return func(c *Config) { c.Digestor = d }
}

func WithKeyWidth(w KeyWidth) Option {
	return func(c *Config) { c.KeyWidth = w }
}

func WithAutoResize(threshold float64) Option {
	return func(c *Config) { c.AutoResize = threshold }
}

func WithDeallocator(d Deallocator) Option {
	return func(c *Config) { c.Deallocator = d }
}

func WithComparator(cmp Comparator) Option {
	return func(c *Config) { c.Comparator = cmp }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// normalize validates c and fills in defaults.
func (c Config) normalize() (Config, error) {
	if c.Width <= 0 {
		return c, errors.Wrapf(ErrZeroWidth, "width %d", c.Width)
	}
	if math.IsNaN(c.AutoResize) || math.IsInf(c.AutoResize, 1) {
		return c, errors.Wrapf(ErrInvalidThreshold, "auto-resize %v", c.AutoResize)
	}
	if c.AutoResize < 0 {
		c.AutoResize = 0
	}
	if c.Digestor == nil {
		c.Digestor = DefaultDigestor(c.KeyWidth)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c, nil
}
