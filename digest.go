package ght

import "math/bits"

// Digestor maps a key to a bucket digest. It must be deterministic and
// defined for every key; distribution quality only affects chain lengths.
type Digestor func(key Slot) uint64

// KeyWidth is the encoded width of the keys a table will hold. It selects
// the default digestor once, when the table is built.
type KeyWidth int

const (
	KeyWidth64 KeyWidth = iota
	KeyWidth32
)

func (w KeyWidth) String() string {
	switch w {
	case KeyWidth32:
		return "32"
	case KeyWidth64:
		return "64"
	default:
		return "unknown"
	}
}

const murmurSeed = 0x9747b28c

// DefaultDigestor returns the murmur3 mixer for keys of width w.
// Unknown widths use the 64-bit mixer, which covers every Slot bit.
func DefaultDigestor(w KeyWidth) Digestor {
	if w == KeyWidth32 {
		return Murmur32
	}
	return Murmur64
}

// Murmur32 hashes the low 32 bits of key with a single murmur3 block and
// the standard fmix32 finalizer.
func Murmur32(key Slot) uint64 {
	const (
		c1 = 0xcc9e2d51
		c2 = 0x1b873593
	)

	h := uint32(murmurSeed)
	k := uint32(key)

	k *= c1
	k = bits.RotateLeft32(k, 15)
	k *= c2

	h ^= k
	h = bits.RotateLeft32(h, 13)
	h = h*5 + 0xe6546b64

	h ^= 4
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return uint64(h)
}

// Murmur64 hashes all 64 bits of key with a single murmur3 x64 block and
// the fmix64 finalizer.
func Murmur64(key Slot) uint64 {
	const (
		c1 = 0x87c37b91114253d5
		c2 = 0x4cf5ad432745937f
	)

	h := uint64(murmurSeed)
	k := uint64(key)

	k *= c1
	k = bits.RotateLeft64(k, 31)
	k *= c2

	h ^= k
	h = bits.RotateLeft64(h, 27)
	h = h*5 + 0x52dce729

	h ^= 8
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33

	return h
}
