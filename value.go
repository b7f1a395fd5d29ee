// Copyright (c) 2024 Neomantra Corp
//
// VariantValue is the in-memory tagged-union representation used as
// input to ValueBuilder and as the output of materializing a
// ValueReader. It preserves the exact primitive tag of its source
// (e.g. an Int16 stays an Int16) and supports structural equality and a
// deterministic, order-sensitivity-aware hash (spec: order-independent
// over object keys, order-dependent over array elements).

package variant

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
	"math/big"

	"github.com/google/uuid"
)

// ValueKind names the concrete shape of a VariantValue: every primitive
// tag plus the two container kinds, which have no primitive tag of
// their own.
type ValueKind uint8

const (
	Kind_Null              = ValueKind(PrimitiveTag_Null)
	Kind_BooleanTrue        = ValueKind(PrimitiveTag_BooleanTrue)
	Kind_BooleanFalse       = ValueKind(PrimitiveTag_BooleanFalse)
	Kind_Int8               = ValueKind(PrimitiveTag_Int8)
	Kind_Int16              = ValueKind(PrimitiveTag_Int16)
	Kind_Int32              = ValueKind(PrimitiveTag_Int32)
	Kind_Int64              = ValueKind(PrimitiveTag_Int64)
	Kind_Double             = ValueKind(PrimitiveTag_Double)
	Kind_Decimal4           = ValueKind(PrimitiveTag_Decimal4)
	Kind_Decimal8           = ValueKind(PrimitiveTag_Decimal8)
	Kind_Decimal16          = ValueKind(PrimitiveTag_Decimal16)
	Kind_Date               = ValueKind(PrimitiveTag_Date)
	Kind_Timestamp          = ValueKind(PrimitiveTag_Timestamp)
	Kind_TimestampNtz       = ValueKind(PrimitiveTag_TimestampNtz)
	Kind_Float              = ValueKind(PrimitiveTag_Float)
	Kind_Binary             = ValueKind(PrimitiveTag_Binary)
	Kind_String             = ValueKind(PrimitiveTag_String)
	Kind_TimeNtz            = ValueKind(PrimitiveTag_TimeNtz)
	Kind_TimestampTzNanos   = ValueKind(PrimitiveTag_TimestampTzNanos)
	Kind_TimestampNtzNanos  = ValueKind(PrimitiveTag_TimestampNtzNanos)
	Kind_Uuid               = ValueKind(PrimitiveTag_Uuid)
	Kind_Object             = ValueKind(21)
	Kind_Array              = ValueKind(22)
)

// VariantValue is a tagged union over every Variant primitive plus
// Object and Array. The zero value is not useful; construct with one of
// the New* factories.
type VariantValue struct {
	kind ValueKind

	boolVal bool
	i64Val  int64 // backs Int8/Int16/Int32/Int64/Date/Timestamp/TimestampNtz/TimeNtz/TimestampTzNanos/TimestampNtzNanos
	f32Val  float32
	f64Val  float64

	decScale    uint8
	decUnscaled *big.Int // used for Decimal4/8/16, any magnitude
	dec16Native bool      // Decimal16 only: true if constructed as the 96-bit-fitting sub-state

	binVal  []byte
	strVal  string
	uuidVal uuid.UUID

	obj *VariantObject
	arr *VariantArray
}

// VariantObject is an ordered-insertion mapping from field name to
// child value.
type VariantObject struct {
	keys   []string
	values map[string]*VariantValue
}

// NewVariantObject returns an empty object.
func NewVariantObject() *VariantObject {
	return &VariantObject{values: make(map[string]*VariantValue)}
}

// Set inserts or replaces the child at name, preserving first-insertion
// order. Setting a name that is already present replaces its child in
// place; no error is reported.
func (o *VariantObject) Set(name string, v *VariantValue) {
	if _, exists := o.values[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.values[name] = v
}

// Len returns the number of entries.
func (o *VariantObject) Len() int { return len(o.keys) }

// Keys returns field names in insertion order.
func (o *VariantObject) Keys() []string { return o.keys }

// Get returns the child at name, or nil, false if absent.
func (o *VariantObject) Get(name string) (*VariantValue, bool) {
	v, ok := o.values[name]
	return v, ok
}

// VariantArray is an ordered sequence of children.
type VariantArray struct {
	elements []*VariantValue
}

// NewVariantArray returns an array wrapping elements (not copied).
func NewVariantArray(elements ...*VariantValue) *VariantArray {
	return &VariantArray{elements: elements}
}

// Append adds v to the end of the array.
func (a *VariantArray) Append(v *VariantValue) { a.elements = append(a.elements, v) }

// Len returns the number of elements.
func (a *VariantArray) Len() int { return len(a.elements) }

// Get returns element i.
func (a *VariantArray) Get(i int) *VariantValue { return a.elements[i] }

///////////////////////////////////////////////////////////////////////////////
// Factory constructors.

func NewNull() *VariantValue          { return &VariantValue{kind: Kind_Null} }
func NewBool(b bool) *VariantValue {
	if b {
		return &VariantValue{kind: Kind_BooleanTrue, boolVal: true}
	}
	return &VariantValue{kind: Kind_BooleanFalse}
}
func NewInt8(v int8) *VariantValue   { return &VariantValue{kind: Kind_Int8, i64Val: int64(v)} }
func NewInt16(v int16) *VariantValue { return &VariantValue{kind: Kind_Int16, i64Val: int64(v)} }
func NewInt32(v int32) *VariantValue { return &VariantValue{kind: Kind_Int32, i64Val: int64(v)} }
func NewInt64(v int64) *VariantValue { return &VariantValue{kind: Kind_Int64, i64Val: v} }
func NewFloat(v float32) *VariantValue { return &VariantValue{kind: Kind_Float, f32Val: v} }
func NewDouble(v float64) *VariantValue { return &VariantValue{kind: Kind_Double, f64Val: v} }
func NewDate(daysSinceEpoch int32) *VariantValue {
	return &VariantValue{kind: Kind_Date, i64Val: int64(daysSinceEpoch)}
}
func NewTimestamp(microsSinceEpoch int64) *VariantValue {
	return &VariantValue{kind: Kind_Timestamp, i64Val: microsSinceEpoch}
}
func NewTimestampNtz(microsSinceEpoch int64) *VariantValue {
	return &VariantValue{kind: Kind_TimestampNtz, i64Val: microsSinceEpoch}
}
func NewTimeNtz(microsSinceMidnight int64) *VariantValue {
	return &VariantValue{kind: Kind_TimeNtz, i64Val: microsSinceMidnight}
}
func NewTimestampTzNanos(nanosSinceEpoch int64) *VariantValue {
	return &VariantValue{kind: Kind_TimestampTzNanos, i64Val: nanosSinceEpoch}
}
func NewTimestampNtzNanos(nanosSinceEpoch int64) *VariantValue {
	return &VariantValue{kind: Kind_TimestampNtzNanos, i64Val: nanosSinceEpoch}
}
func NewBinary(b []byte) *VariantValue { return &VariantValue{kind: Kind_Binary, binVal: b} }
func NewString(s string) *VariantValue { return &VariantValue{kind: Kind_String, strVal: s} }
func NewUuid(u uuid.UUID) *VariantValue { return &VariantValue{kind: Kind_Uuid, uuidVal: u} }
func NewObject(o *VariantObject) *VariantValue { return &VariantValue{kind: Kind_Object, obj: o} }
func NewArray(a *VariantArray) *VariantValue   { return &VariantValue{kind: Kind_Array, arr: a} }

// NewDecimal4 constructs a Decimal4 (32-bit unscaled magnitude).
func NewDecimal4(scale uint8, unscaled int32) *VariantValue {
	return &VariantValue{kind: Kind_Decimal4, decScale: scale, decUnscaled: big.NewInt(int64(unscaled))}
}

// NewDecimal8 constructs a Decimal8 (64-bit unscaled magnitude).
func NewDecimal8(scale uint8, unscaled int64) *VariantValue {
	return &VariantValue{kind: Kind_Decimal8, decScale: scale, decUnscaled: big.NewInt(unscaled)}
}

// NewDecimal16 constructs a Decimal16 from an arbitrary-precision
// unscaled magnitude, recording whether it was built from the
// 96-bit-fitting ("native") sub-state or the extended one.
func NewDecimal16(scale uint8, unscaled *big.Int) *VariantValue {
	return &VariantValue{
		kind:        Kind_Decimal16,
		decScale:    scale,
		decUnscaled: new(big.Int).Set(unscaled),
		dec16Native: FitsDecimal96(unscaled),
	}
}

// FromDecimal auto-sizes to the smallest of Decimal4/Decimal8/Decimal16
// that fits unscaled's magnitude: Decimal4 when it fits a signed 32-bit
// integer, Decimal8 when it fits a signed 64-bit integer, else
// Decimal16 (whose 96-bit threshold then separates its own native from
// extended sub-state).
func FromDecimal(scale uint8, unscaled *big.Int) *VariantValue {
	if unscaled.IsInt64() {
		v := unscaled.Int64()
		if v >= -(1<<31) && v <= (1<<31)-1 {
			return NewDecimal4(scale, int32(v))
		}
		return NewDecimal8(scale, v)
	}
	return NewDecimal16(scale, unscaled)
}

///////////////////////////////////////////////////////////////////////////////
// Accessors.

// Kind returns the value's concrete kind.
func (v *VariantValue) Kind() ValueKind { return v.kind }

func (v *VariantValue) BoolValue() bool     { return v.boolVal }
func (v *VariantValue) Int8Value() int8     { return int8(v.i64Val) }
func (v *VariantValue) Int16Value() int16   { return int16(v.i64Val) }
func (v *VariantValue) Int32Value() int32   { return int32(v.i64Val) }
func (v *VariantValue) Int64Value() int64   { return v.i64Val }
func (v *VariantValue) FloatValue() float32 { return v.f32Val }
func (v *VariantValue) DoubleValue() float64 { return v.f64Val }
func (v *VariantValue) DateValue() int32    { return int32(v.i64Val) }
func (v *VariantValue) MicrosValue() int64  { return v.i64Val } // Timestamp/TimestampNtz/TimeNtz
func (v *VariantValue) NanosValue() int64   { return v.i64Val } // TimestampTzNanos/TimestampNtzNanos
func (v *VariantValue) BinaryValue() []byte { return v.binVal }
func (v *VariantValue) StringValue() string { return v.strVal }
func (v *VariantValue) UuidValue() uuid.UUID { return v.uuidVal }
func (v *VariantValue) ObjectValue() *VariantObject { return v.obj }
func (v *VariantValue) ArrayValue() *VariantArray   { return v.arr }

// DecimalValue returns the (scale, unscaled) pair for any Decimal4/8/16.
func (v *VariantValue) DecimalValue() (scale uint8, unscaled *big.Int) {
	return v.decScale, v.decUnscaled
}

// IsDecimal16Native reports whether a Decimal16 was constructed from the
// 96-bit-fitting sub-state (meaningful only when Kind() == Kind_Decimal16).
func (v *VariantValue) IsDecimal16Native() bool { return v.dec16Native }

///////////////////////////////////////////////////////////////////////////////
// Structural equality.

// Equal reports structural equality per spec §8 property 1: Decimal16's
// two storage sub-states compare equal whenever scale and numeric value
// agree, objects compare equal regardless of key insertion order, and
// arrays compare equal only when elements agree in both value and order.
func (a *VariantValue) Equal(b *VariantValue) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Kind_Null, Kind_BooleanTrue, Kind_BooleanFalse:
		return true
	case Kind_Int8, Kind_Int16, Kind_Int32, Kind_Int64,
		Kind_Date, Kind_Timestamp, Kind_TimestampNtz, Kind_TimeNtz,
		Kind_TimestampTzNanos, Kind_TimestampNtzNanos:
		return a.i64Val == b.i64Val
	case Kind_Float:
		return a.f32Val == b.f32Val
	case Kind_Double:
		return a.f64Val == b.f64Val
	case Kind_Decimal4, Kind_Decimal8, Kind_Decimal16:
		return a.decScale == b.decScale && a.decUnscaled.Cmp(b.decUnscaled) == 0
	case Kind_Binary:
		return bytesEqual(a.binVal, b.binVal)
	case Kind_String:
		return a.strVal == b.strVal
	case Kind_Uuid:
		return a.uuidVal == b.uuidVal
	case Kind_Object:
		return a.obj.equal(b.obj)
	case Kind_Array:
		return a.arr.equal(b.arr)
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (o *VariantObject) equal(other *VariantObject) bool {
	if o.Len() != other.Len() {
		return false
	}
	for k, v := range o.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (a *VariantArray) equal(other *VariantArray) bool {
	if a.Len() != other.Len() {
		return false
	}
	for i, v := range a.elements {
		if !v.Equal(other.elements[i]) {
			return false
		}
	}
	return true
}

///////////////////////////////////////////////////////////////////////////////
// Deterministic hashing. No fit in the retrieved pack's hashing
// libraries (cespare/xxhash/v2 hashes byte streams, not
// order-independent key/value maps), so this is built on the standard
// library's hash/fnv the way a one-off combiner would be.

// Hash returns a deterministic hash consistent with Equal: order
// independent over object keys (XOR-accumulated), order dependent over
// array elements (sequentially mixed).
func (v *VariantValue) Hash() uint64 {
	h := fnv.New64a()
	v.hashInto(h)
	return h.Sum64()
}

func (v *VariantValue) hashInto(h hash.Hash64) {
	writeU8(h, uint8(v.kind))
	switch v.kind {
	case Kind_Null, Kind_BooleanTrue, Kind_BooleanFalse:
		// no payload beyond the kind tag
	case Kind_Int8, Kind_Int16, Kind_Int32, Kind_Int64,
		Kind_Date, Kind_Timestamp, Kind_TimestampNtz, Kind_TimeNtz,
		Kind_TimestampTzNanos, Kind_TimestampNtzNanos:
		writeU64(h, uint64(v.i64Val))
	case Kind_Float:
		f := v.f32Val
		if f == 0 {
			f = 0 // -0 == +0 under Equal, so hash both as +0
		}
		writeU64(h, uint64(math.Float32bits(f)))
	case Kind_Double:
		f := v.f64Val
		if f == 0 {
			f = 0 // -0 == +0 under Equal, so hash both as +0
		}
		writeU64(h, math.Float64bits(f))
	case Kind_Decimal4, Kind_Decimal8, Kind_Decimal16:
		writeU8(h, v.decScale)
		h.Write(v.decUnscaled.Bytes())
	case Kind_Binary:
		h.Write(v.binVal)
	case Kind_String:
		h.Write([]byte(v.strVal))
	case Kind_Uuid:
		h.Write(v.uuidVal[:])
	case Kind_Object:
		var acc uint64
		for _, key := range v.obj.keys {
			child := v.obj.values[key]
			eh := fnv.New64a()
			eh.Write([]byte(key))
			child.hashInto(eh)
			acc ^= eh.Sum64()
		}
		writeU64(h, acc)
	case Kind_Array:
		for _, elem := range v.arr.elements {
			elem.hashInto(h)
		}
	}
}

func writeU8(h hash.Hash64, b uint8) {
	h.Write([]byte{b})
}

func writeU64(h hash.Hash64, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}
