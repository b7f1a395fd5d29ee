// Copyright (c) 2024 Neomantra Corp
//
// ValueBuilder encodes a VariantValue tree into a value blob. Container
// children are written in two phases (design note: payload length isn't
// known until children are encoded, so header sizes can't be chosen
// until after the fact): first into a scratch buffer rented from the
// pool, in input order; then the header, field-IDs/offsets, and payload
// bytes are emitted in final (sorted, for objects) order by copying each
// child's byte range out of the scratch buffer.

package variant

import (
	"fmt"
	"math"
	"sort"
)

// ValueBuilder is a stateful writer reusable across top-level encodings.
// Not safe for concurrent use; distinct instances are independent.
type ValueBuilder struct {
	pool *BufferPool
}

// NewValueBuilder returns a builder with its own scratch-buffer pool.
func NewValueBuilder() *ValueBuilder {
	return &ValueBuilder{pool: newBufferPool()}
}

// CollectFieldNames walks v and adds every object key to mb. Call this
// once over the whole tree before mb.Build(), so every field name has a
// sorted ID by the time Encode needs one.
func CollectFieldNames(mb *MetadataBuilder, v *VariantValue) {
	switch v.Kind() {
	case Kind_Object:
		for _, k := range v.obj.keys {
			mb.Add(k)
			CollectFieldNames(mb, v.obj.values[k])
		}
	case Kind_Array:
		for _, e := range v.arr.elements {
			CollectFieldNames(mb, e)
		}
	}
}

// Encode performs the full build-encode pipeline for v: collect field
// names, build sorted metadata, then write the value blob.
func Encode(v *VariantValue) (metadata []byte, value []byte, err error) {
	mb := NewMetadataBuilder()
	CollectFieldNames(mb, v)
	metadata, remap := mb.Build()
	vb := NewValueBuilder()
	value, err = vb.Encode(mb, remap, v)
	return metadata, value, err
}

// Encode writes v into a fresh value blob. mb must already have had
// every object key in v's tree added (see CollectFieldNames), and remap
// must be the table mb.Build() returned.
func (vb *ValueBuilder) Encode(mb *MetadataBuilder, remap []int, v *VariantValue) ([]byte, error) {
	switch v.Kind() {
	case Kind_Null:
		return []byte{encodePrimitiveHeader(PrimitiveTag_Null)}, nil
	case Kind_BooleanTrue:
		return []byte{encodePrimitiveHeader(PrimitiveTag_BooleanTrue)}, nil
	case Kind_BooleanFalse:
		return []byte{encodePrimitiveHeader(PrimitiveTag_BooleanFalse)}, nil
	case Kind_Int8:
		return []byte{encodePrimitiveHeader(PrimitiveTag_Int8), byte(v.Int8Value())}, nil
	case Kind_Int16:
		out := make([]byte, 3)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Int16)
		putUintWidth(out[1:], 2, uint32(uint16(v.Int16Value())))
		return out, nil
	case Kind_Int32:
		out := make([]byte, 5)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Int32)
		putUintWidth(out[1:], 4, uint32(v.Int32Value()))
		return out, nil
	case Kind_Int64:
		out := make([]byte, 9)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Int64)
		putUint64LE(out[1:], uint64(v.Int64Value()))
		return out, nil
	case Kind_Float:
		out := make([]byte, 5)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Float)
		putUintWidth(out[1:], 4, float32bits(v.FloatValue()))
		return out, nil
	case Kind_Double:
		out := make([]byte, 9)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Double)
		putUint64LE(out[1:], float64bits(v.DoubleValue()))
		return out, nil
	case Kind_Decimal4:
		return vb.encodeDecimal4(v)
	case Kind_Decimal8:
		return vb.encodeDecimal8(v)
	case Kind_Decimal16:
		return vb.encodeDecimal16(v)
	case Kind_Date:
		out := make([]byte, 5)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Date)
		putUintWidth(out[1:], 4, uint32(v.DateValue()))
		return out, nil
	case Kind_Timestamp:
		return encodeMicros(PrimitiveTag_Timestamp, v.MicrosValue()), nil
	case Kind_TimestampNtz:
		return encodeMicros(PrimitiveTag_TimestampNtz, v.MicrosValue()), nil
	case Kind_TimeNtz:
		return encodeMicros(PrimitiveTag_TimeNtz, v.MicrosValue()), nil
	case Kind_TimestampTzNanos:
		return encodeMicros(PrimitiveTag_TimestampTzNanos, v.NanosValue()), nil
	case Kind_TimestampNtzNanos:
		return encodeMicros(PrimitiveTag_TimestampNtzNanos, v.NanosValue()), nil
	case Kind_Binary:
		return encodeLengthPrefixed(PrimitiveTag_Binary, v.BinaryValue()), nil
	case Kind_String:
		return vb.encodeString(v.StringValue()), nil
	case Kind_Uuid:
		payload := EncodeUuid(v.UuidValue())
		out := make([]byte, 17)
		out[0] = encodePrimitiveHeader(PrimitiveTag_Uuid)
		copy(out[1:], payload[:])
		return out, nil
	case Kind_Object:
		return vb.encodeObject(mb, remap, v.obj)
	case Kind_Array:
		return vb.encodeArray(mb, remap, v.arr)
	default:
		return nil, ErrUnsupportedPrimitive
	}
}

func encodeMicros(tag PrimitiveTag, v int64) []byte {
	out := make([]byte, 9)
	out[0] = encodePrimitiveHeader(tag)
	putUint64LE(out[1:], uint64(v))
	return out
}

func encodeLengthPrefixed(tag PrimitiveTag, data []byte) []byte {
	out := make([]byte, 5+len(data))
	out[0] = encodePrimitiveHeader(tag)
	putUintWidth(out[1:5], 4, uint32(len(data)))
	copy(out[5:], data)
	return out
}

// encodeString applies the short-string policy: ShortString when the
// byte length fits in 6 bits, else the String primitive.
func (vb *ValueBuilder) encodeString(s string) []byte {
	if len(s) <= MaxShortStringLen {
		out := make([]byte, 1+len(s))
		h, _ := encodeShortStringHeader(len(s))
		out[0] = h
		copy(out[1:], s)
		return out
	}
	return encodeLengthPrefixed(PrimitiveTag_String, []byte(s))
}

func (vb *ValueBuilder) encodeDecimal4(v *VariantValue) ([]byte, error) {
	scale, unscaled := v.DecimalValue()
	if scale > MaxDecimalScale {
		return nil, fmt.Errorf("%w: scale %d exceeds %d", ErrDecimalOverflow, scale, MaxDecimalScale)
	}
	if !unscaled.IsInt64() {
		return nil, malformedf("decimal4 unscaled value out of range")
	}
	out := make([]byte, 6)
	out[0] = encodePrimitiveHeader(PrimitiveTag_Decimal4)
	out[1] = scale
	putUintWidth(out[2:], 4, uint32(int32(unscaled.Int64())))
	return out, nil
}

func (vb *ValueBuilder) encodeDecimal8(v *VariantValue) ([]byte, error) {
	scale, unscaled := v.DecimalValue()
	if scale > MaxDecimalScale {
		return nil, fmt.Errorf("%w: scale %d exceeds %d", ErrDecimalOverflow, scale, MaxDecimalScale)
	}
	if !unscaled.IsInt64() {
		return nil, malformedf("decimal8 unscaled value out of range")
	}
	out := make([]byte, 10)
	out[0] = encodePrimitiveHeader(PrimitiveTag_Decimal8)
	out[1] = scale
	putUint64LE(out[2:], uint64(unscaled.Int64()))
	return out, nil
}

func (vb *ValueBuilder) encodeDecimal16(v *VariantValue) ([]byte, error) {
	scale, unscaled := v.DecimalValue()
	if scale > MaxDecimalScale {
		return nil, fmt.Errorf("%w: scale %d exceeds %d", ErrDecimalOverflow, scale, MaxDecimalScale)
	}
	payload, err := encodeDecimal16Unscaled(unscaled)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 18)
	out[0] = encodePrimitiveHeader(PrimitiveTag_Decimal16)
	out[1] = scale
	copy(out[2:], payload[:])
	return out, nil
}

///////////////////////////////////////////////////////////////////////////////
// Container encoding (two-phase).

type childRange struct {
	start, end int
	sortedID   int // only meaningful for object children
}

func (vb *ValueBuilder) encodeObject(mb *MetadataBuilder, remap []int, obj *VariantObject) ([]byte, error) {
	n := obj.Len()
	scratch := vb.pool.Get()
	ranges := make([]childRange, 0, n)

	for _, key := range obj.keys {
		start := len(scratch)
		childBytes, err := vb.Encode(mb, remap, obj.values[key])
		if err != nil {
			vb.pool.Put(scratch[:0])
			return nil, err
		}
		scratch = append(scratch, childBytes...)
		provisionalID := mb.Add(key)
		ranges = append(ranges, childRange{start: start, end: len(scratch), sortedID: remap[provisionalID]})
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ranges[order[i]].sortedID < ranges[order[j]].sortedID
	})

	maxSortedID := 0
	for _, r := range ranges {
		if r.sortedID > maxSortedID {
			maxSortedID = r.sortedID
		}
	}
	fieldIDSize := 1
	if n > 0 {
		fieldIDSize = minWidth(uint32(maxSortedID))
	}
	payloadLen := len(scratch)
	offsetSize := minWidth(uint32(max1(payloadLen)))
	isLarge := n > 255

	countSize := 1
	if isLarge {
		countSize = 4
	}
	headerLen := 1 + countSize
	fieldIDsStart := headerLen
	offsetsStart := fieldIDsStart + n*fieldIDSize
	valuesStart := offsetsStart + (n+1)*offsetSize
	out := make([]byte, valuesStart+payloadLen)

	out[0] = encodeObjectHeader(objectHeader{fieldIDSize: fieldIDSize, offsetSize: offsetSize, isLarge: isLarge})
	putUintWidth(out[1:], countSize, uint32(n))

	cum := 0
	for rank, oi := range order {
		rng := ranges[oi]
		putUintWidth(out[fieldIDsStart+rank*fieldIDSize:], fieldIDSize, uint32(rng.sortedID))
		putUintWidth(out[offsetsStart+rank*offsetSize:], offsetSize, uint32(cum))
		copy(out[valuesStart+cum:], scratch[rng.start:rng.end])
		cum += rng.end - rng.start
	}
	putUintWidth(out[offsetsStart+n*offsetSize:], offsetSize, uint32(cum))

	vb.pool.Put(scratch[:0])
	return out, nil
}

func (vb *ValueBuilder) encodeArray(mb *MetadataBuilder, remap []int, arr *VariantArray) ([]byte, error) {
	n := arr.Len()
	scratch := vb.pool.Get()
	ranges := make([]childRange, 0, n)

	for i := 0; i < n; i++ {
		start := len(scratch)
		childBytes, err := vb.Encode(mb, remap, arr.Get(i))
		if err != nil {
			vb.pool.Put(scratch[:0])
			return nil, err
		}
		scratch = append(scratch, childBytes...)
		ranges = append(ranges, childRange{start: start, end: len(scratch)})
	}

	payloadLen := len(scratch)
	offsetSize := minWidth(uint32(max1(payloadLen)))
	isLarge := n > 255

	countSize := 1
	if isLarge {
		countSize = 4
	}
	headerLen := 1 + countSize
	offsetsStart := headerLen
	valuesStart := offsetsStart + (n+1)*offsetSize
	out := make([]byte, valuesStart+payloadLen)

	out[0] = encodeArrayHeader(arrayHeader{offsetSize: offsetSize, isLarge: isLarge})
	putUintWidth(out[1:], countSize, uint32(n))

	cum := 0
	for i, rng := range ranges {
		putUintWidth(out[offsetsStart+i*offsetSize:], offsetSize, uint32(cum))
		copy(out[valuesStart+cum:], scratch[rng.start:rng.end])
		cum += rng.end - rng.start
	}
	putUintWidth(out[offsetsStart+n*offsetSize:], offsetSize, uint32(cum))

	vb.pool.Put(scratch[:0])
	return out, nil
}

func max1(n int) uint32 {
	if n < 1 {
		return 1
	}
	return uint32(n)
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

func float64bits(f float64) uint64 {
	return math.Float64bits(f)
}
