package ght_test

import (
	"fmt"
	"testing"

	"github.com/theflywheel/ght"
)

// BenchmarkInsert measures inserting fresh sequential keys into a growing
// table, for both default digestors and the xxhash substitute.
func BenchmarkInsert(b *testing.B) {
	digestors := []struct {
		name string
		fn   ght.Digestor
	}{
		{"murmur64", ght.Murmur64},
		{"murmur32", ght.Murmur32},
		{"xxhash", xxhashDigestor},
	}

	for _, d := range digestors {
		b.Run(d.name, func(b *testing.B) {
			table, err := ght.New(1024, ght.WithDigestor(d.fn), ght.WithAutoResize(0.75))
			if err != nil {
				b.Fatalf("Failed to create table: %v", err)
			}
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if err := table.Insert(ght.Int64(int64(i)), ght.Int64(int64(i))); err != nil {
					b.Fatalf("Failed to insert key %d: %v", i, err)
				}
			}
		})
	}
}

// BenchmarkSearch measures hits on a pre-filled table at several sizes.
func BenchmarkSearch(b *testing.B) {
	for _, numKeys := range []int{1_000, 100_000, 1_000_000} {
		b.Run(fmt.Sprintf("keys=%d", numKeys), func(b *testing.B) {
			table, err := ght.New(numKeys/2, ght.WithAutoResize(0.75))
			if err != nil {
				b.Fatalf("Failed to create table: %v", err)
			}
			for i := 0; i < numKeys; i++ {
				if err := table.Insert(ght.Int64(int64(i)), ght.Int64(int64(i))); err != nil {
					b.Fatalf("Failed to insert key %d: %v", i, err)
				}
			}
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				keyID := (i*31 + 17) % numKeys
				if _, found := table.Search(ght.Int64(int64(keyID))); !found {
					b.Fatalf("Key %d not found", keyID)
				}
			}
		})
	}
}

// BenchmarkSyncSearchParallel measures lock contention on a shared table.
func BenchmarkSyncSearchParallel(b *testing.B) {
	const numKeys = 100_000

	table, err := ght.NewSync(numKeys, ght.WithAutoResize(0.75))
	if err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}
	for i := 0; i < numKeys; i++ {
		if err := table.Insert(ght.Int64(int64(i)), ght.Int64(int64(i))); err != nil {
			b.Fatalf("Failed to insert key %d: %v", i, err)
		}
	}
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			table.Search(ght.Int64(int64(i % numKeys)))
			i++
		}
	})
}

func BenchmarkResize(b *testing.B) {
	const numKeys = 100_000

	table, err := ght.New(1024)
	if err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}
	for i := 0; i < numKeys; i++ {
		if err := table.Insert(ght.Int64(int64(i)), 0); err != nil {
			b.Fatalf("Failed to insert key %d: %v", i, err)
		}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		width := 1 << 16
		if i%2 == 1 {
			width = 1 << 10
		}
		if err := table.Resize(width); err != nil {
			b.Fatalf("Failed to resize: %v", err)
		}
	}
}
