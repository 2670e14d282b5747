/*
Package ght provides a generic, embeddable hash table built on separate chaining.

Keys and payloads are fixed-width Slot values that can hold any 8/16/32/64-bit
integer, a float32/float64 bit pattern, or a caller-defined handle. Tables
grow automatically when an auto-resize load factor is configured, and the
digest function can be replaced by any deterministic function.

Basic usage:

	import "github.com/theflywheel/ght"

	// 64 buckets, double the width whenever the load factor would pass 0.75
	t, err := ght.New(64, ght.WithAutoResize(0.75))
	if err != nil {
		log.Fatal(err)
	}
	defer t.Destroy()

	if err := t.Insert(ght.Int64(12345), ght.Float64(678.9)); err != nil {
		log.Fatal(err)
	}

	if v, ok := t.Search(ght.Int64(12345)); ok {
		fmt.Println("Value:", v.Float64())
	}

Features:

  - Fixed-width Slot keys and payloads with lossless integer and float encodings
  - Separate chaining with move-to-front on every successful lookup
  - Optional automatic doubling driven by a load-factor threshold
  - Explicit Resize to any positive width, growing or shrinking
  - Default murmur3 digestor specialised for 32-bit or 64-bit keys
  - Optional deallocator called for every discarded payload
  - Table for caller-synchronised use, SyncTable for shared use

Implementation Details:

Each bucket holds the head of a singly linked chain. A node caches the digest of
its key when it is inserted; Resize relinks the existing nodes into a new bucket
array using that cached digest and never calls the digestor again. Key equality
is decided on the key itself (or a configured Comparator), never on the digest,
so colliding digests are harmless.

Insert looks the key up first. A present key has its payload replaced in place,
with the deallocator seeing the old payload before the new one is stored. A new
key may first trigger a doubling when (load+1)/width would exceed the
auto-resize threshold, so the new entry always lands in the enlarged table.

Search returns a presence flag alongside the payload, so a stored zero is never
confused with a miss.
*/
package ght
