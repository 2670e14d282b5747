package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/theflywheel/ght"
)

// Profile describes one workload. Profiles are read from YAML and any flag
// given on the command line overrides the file.
type Profile struct {
	Name         string  `yaml:"name"`
	Keys         int     `yaml:"keys"`
	Workers      int     `yaml:"workers"`
	Width        int     `yaml:"width"`
	AutoResize   float64 `yaml:"auto_resize"`
	Digestor     string  `yaml:"digestor"`
	KeyWidth     int     `yaml:"key_width"`
	KeySource    string  `yaml:"key_source"`
	Synchronized bool    `yaml:"synchronized"`
	DeleteEvery  int     `yaml:"delete_every"`
}

func defaultProfile() Profile {
	return Profile{
		Name:         "default",
		Keys:         100_000,
		Workers:      1,
		Width:        1024,
		AutoResize:   0.75,
		Digestor:     "murmur",
		KeyWidth:     64,
		KeySource:    "sequential",
		Synchronized: false,
		DeleteEvery:  3,
	}
}

// loadProfile reads a YAML profile on top of the defaults.
func loadProfile(path string) (Profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrap(err, "failed to read profile")
	}
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return p, errors.Wrapf(err, "failed to parse profile %s", path)
	}
	return p, nil
}

func (p Profile) validate() error {
	switch {
	case p.Keys <= 0:
		return fmt.Errorf("keys must be positive, got %d", p.Keys)
	case p.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", p.Workers)
	case p.Workers > 1 && !p.Synchronized:
		return fmt.Errorf("%d workers need a synchronized table", p.Workers)
	case p.Workers > 255:
		return fmt.Errorf("at most 255 workers are supported, got %d", p.Workers)
	case p.DeleteEvery < 0:
		return fmt.Errorf("delete_every must not be negative, got %d", p.DeleteEvery)
	case p.KeyWidth != 32 && p.KeyWidth != 64:
		return fmt.Errorf("key_width must be 32 or 64, got %d", p.KeyWidth)
	case p.KeyWidth == 32 && uint64(p.Workers)*uint64(p.Keys) > 1<<32:
		return fmt.Errorf("%d keys do not fit in 32 bits", p.Workers*p.Keys)
	}
	if _, err := p.digestor(); err != nil {
		return err
	}
	if p.KeySource != "sequential" && p.KeySource != "uuid" {
		return fmt.Errorf("unknown key source %q", p.KeySource)
	}
	if p.KeySource == "uuid" && p.KeyWidth == 32 {
		return fmt.Errorf("uuid keys need key_width 64")
	}
	return nil
}

func (p Profile) keyWidth() ght.KeyWidth {
	if p.KeyWidth == 32 {
		return ght.KeyWidth32
	}
	return ght.KeyWidth64
}

func (p Profile) digestor() (ght.Digestor, error) {
	switch p.Digestor {
	case "", "murmur":
		return ght.DefaultDigestor(p.keyWidth()), nil
	case "xxhash":
		return xxhashDigestor, nil
	default:
		return nil, fmt.Errorf("unknown digestor %q", p.Digestor)
	}
}

// xxhashDigestor hashes the little-endian encoding of the slot.
func xxhashDigestor(key ght.Slot) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key.Uint64())
	return xxhash.Sum64(buf[:])
}

// workerKeys returns the keys owned by worker w. Ranges of different
// workers never overlap.
func (p Profile) workerKeys(w int) []ght.Slot {
	keys := make([]ght.Slot, 0, p.Keys)

	switch p.KeySource {
	case "uuid":
		// The top byte carries the worker id, the rest comes from a random UUID.
		const low56 = 1<<56 - 1
		seen := make(map[ght.Slot]struct{}, p.Keys)
		for len(keys) < p.Keys {
			id := uuid.New()
			k := ght.Uint64(uint64(w)<<56 | binary.BigEndian.Uint64(id[:8])&low56)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	default:
		base := uint64(w) * uint64(p.Keys)
		for i := 0; i < p.Keys; i++ {
			keys = append(keys, ght.Uint64(base+uint64(i)))
		}
	}
	return keys
}
