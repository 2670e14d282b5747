package ght_test

import (
	"encoding/binary"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/ght"
)

func TestMurmurKnownValues(t *testing.T) {
	testCases := []struct {
		name string
		key  ght.Slot
		h32  uint64
		h64  uint64
	}{
		{"zero", 0, 0xa366817d, 0x42e33ae26be54917},
		{"one", 1, 0xf354e7bc, 0xafa698db45eb354a},
		{"answer", 42, 0x0c9aa44c, 0x2cfc7a6d7d31255a},
		{"deadbeef", 0xdeadbeef, 0xed256a3c, 0xf9759d60bb0712da},
		{"all_ones", ght.Slot(^uint64(0)), 0x9de672fb, 0x29f2621eec2e48f9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.h32, ght.Murmur32(tc.key))
			assert.Equal(t, tc.h64, ght.Murmur64(tc.key))
		})
	}
}

func TestMurmur32IgnoresHighBits(t *testing.T) {
	low := ght.Uint32(0x12345678)
	high := ght.Slot(0xffffffff00000000) | low

	assert.Equal(t, ght.Murmur32(low), ght.Murmur32(high))
	assert.NotEqual(t, ght.Murmur64(low), ght.Murmur64(high))
	assert.LessOrEqual(t, ght.Murmur32(high), uint64(^uint32(0)))
}

func TestDefaultDigestorSelection(t *testing.T) {
	key := ght.Int64(-7)

	assert.Equal(t, ght.Murmur32(key), ght.DefaultDigestor(ght.KeyWidth32)(key))
	assert.Equal(t, ght.Murmur64(key), ght.DefaultDigestor(ght.KeyWidth64)(key))
	assert.Equal(t, ght.Murmur64(key), ght.DefaultDigestor(ght.KeyWidth(99))(key))

	assert.Equal(t, "32", ght.KeyWidth32.String())
	assert.Equal(t, "64", ght.KeyWidth64.String())
	assert.Equal(t, "unknown", ght.KeyWidth(99).String())
}

func xxhashDigestor(key ght.Slot) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key.Uint64())
	return xxhash.Sum64(buf[:])
}

func TestCustomDigestor(t *testing.T) {
	table, err := ght.New(16, ght.WithDigestor(xxhashDigestor), ght.WithAutoResize(0.75))
	require.NoError(t, err)

	for i := int64(0); i < 1000; i++ {
		require.NoError(t, table.Insert(ght.Int64(i), ght.Int64(i*3)))
	}
	require.Equal(t, 1000, table.Load())

	for i := int64(0); i < 1000; i++ {
		v, ok := table.Search(ght.Int64(i))
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*3, v.Int64())
	}
}

// A constant digestor forces every key into one chain; lookups must still
// be decided by key equality.
func TestConstantDigestor(t *testing.T) {
	table, err := ght.New(8, ght.WithDigestor(func(ght.Slot) uint64 { return 7 }))
	require.NoError(t, err)

	for i := uint64(0); i < 100; i++ {
		require.NoError(t, table.Insert(ght.Uint64(i), ght.Uint64(i+1)))
	}
	for i := uint64(0); i < 100; i++ {
		v, ok := table.Search(ght.Uint64(i))
		require.True(t, ok)
		require.Equal(t, i+1, v.Uint64())
	}

	require.NoError(t, table.Delete(ght.Uint64(50)))
	_, ok := table.Search(ght.Uint64(50))
	require.False(t, ok)
	require.Equal(t, 99, table.Load())
}

func BenchmarkMurmur64(b *testing.B) {
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += ght.Murmur64(ght.Slot(i))
	}
	_ = sink
}

func BenchmarkMurmur32(b *testing.B) {
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += ght.Murmur32(ght.Slot(i))
	}
	_ = sink
}
