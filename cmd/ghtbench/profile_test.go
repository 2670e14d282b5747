package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uuid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: uuid-sync
keys: 500
workers: 4
synchronized: true
digestor: xxhash
key_source: uuid
`), 0644))

	p, err := loadProfile(path)
	require.NoError(t, err)
	require.NoError(t, p.validate())

	assert.Equal(t, "uuid-sync", p.Name)
	assert.Equal(t, 500, p.Keys)
	assert.Equal(t, 4, p.Workers)
	assert.True(t, p.Synchronized)
	// Unset fields keep their defaults.
	assert.Equal(t, 1024, p.Width)
	assert.Equal(t, 0.75, p.AutoResize)
	assert.Equal(t, 3, p.DeleteEvery)
}

func TestLoadProfileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buckets: 12\n"), 0644))

	_, err := loadProfile(path)
	require.Error(t, err)
}

func TestProfileValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Profile)
	}{
		{"no_keys", func(p *Profile) { p.Keys = 0 }},
		{"no_workers", func(p *Profile) { p.Workers = 0 }},
		{"unsynchronized_workers", func(p *Profile) { p.Workers = 2 }},
		{"negative_delete", func(p *Profile) { p.DeleteEvery = -1 }},
		{"bad_key_width", func(p *Profile) { p.KeyWidth = 16 }},
		{"bad_digestor", func(p *Profile) { p.Digestor = "fnv" }},
		{"bad_source", func(p *Profile) { p.KeySource = "random" }},
		{"uuid_narrow_keys", func(p *Profile) { p.KeySource = "uuid"; p.KeyWidth = 32 }},
	}

	require.NoError(t, defaultProfile().validate())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := defaultProfile()
			tc.modify(&p)
			assert.Error(t, p.validate())
		})
	}
}

func TestWorkerKeysAreDisjoint(t *testing.T) {
	for _, source := range []string{"sequential", "uuid"} {
		t.Run(source, func(t *testing.T) {
			p := defaultProfile()
			p.Keys = 1000
			p.KeySource = source

			seen := map[uint64]int{}
			for w := 0; w < 3; w++ {
				keys := p.workerKeys(w)
				require.Len(t, keys, p.Keys)
				for _, k := range keys {
					owner, dup := seen[k.Uint64()]
					require.False(t, dup, "key %#x from worker %d already owned by %d", k.Uint64(), w, owner)
					seen[k.Uint64()] = w
				}
			}
		})
	}
}
