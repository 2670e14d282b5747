package ght

import "math"

// Slot is the fixed-width scalar used for both keys and payloads.
//
// Any 8/16/32/64-bit integer or single/double precision float fits in a
// Slot. Floats are stored by bit pattern, so Float64(x).Float64() returns x
// exactly, NaN payloads included. A table should use one interpretation per
// key space and one per payload space.
type Slot uint64

// Int8 stores v sign-extended.
func Int8(v int8) Slot { return Slot(int64(v)) }

// Int16 stores v sign-extended.
func Int16(v int16) Slot { return Slot(int64(v)) }

// Int32 stores v sign-extended.
func Int32(v int32) Slot { return Slot(int64(v)) }

// Int64 stores v.
func Int64(v int64) Slot { return Slot(v) }

func Uint8(v uint8) Slot   { return Slot(v) }
func Uint16(v uint16) Slot { return Slot(v) }
func Uint32(v uint32) Slot { return Slot(v) }
func Uint64(v uint64) Slot { return Slot(v) }

// Float32 stores the IEEE-754 bits of v in the low 32 bits of the slot.
func Float32(v float32) Slot { return Slot(math.Float32bits(v)) }

// Float64 stores the IEEE-754 bits of v.
func Float64(v float64) Slot { return Slot(math.Float64bits(v)) }

// Handle stores an opaque reference chosen by the caller, typically an
// index into caller-owned storage. Go pointers cannot be stored in a Slot
// because the garbage collector does not trace them through integers.
func Handle(h uintptr) Slot { return Slot(h) }

func (s Slot) Int8() int8       { return int8(s) }
func (s Slot) Int16() int16     { return int16(s) }
func (s Slot) Int32() int32     { return int32(s) }
func (s Slot) Int64() int64     { return int64(s) }
func (s Slot) Uint8() uint8     { return uint8(s) }
func (s Slot) Uint16() uint16   { return uint16(s) }
func (s Slot) Uint32() uint32   { return uint32(s) }
func (s Slot) Uint64() uint64   { return uint64(s) }
func (s Slot) Handle() uintptr  { return uintptr(s) }
func (s Slot) Float32() float32 { return math.Float32frombits(uint32(s)) }
func (s Slot) Float64() float64 { return math.Float64frombits(uint64(s)) }
