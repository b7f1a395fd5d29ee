// Copyright (c) 2024 Neomantra Corp
//
// ValueReader is a zero-copy traversal view of one Variant value. It
// borrows the metadata and value buffers it was constructed over; child
// readers produced by Object()/Array() must not outlive those buffers.

package variant

import (
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValueReader borrows (metadata, value) and exposes O(1) type inspection
// plus typed accessors that fail with ErrTypeMismatch on a tag mismatch.
type ValueReader struct {
	meta  *MetadataReader
	buf   []byte
	vh    valueHeader
}

// NewValueReader parses the leading header byte of value and binds it to
// metadata for field-name resolution.
func NewValueReader(meta *MetadataReader, value []byte) (*ValueReader, error) {
	if len(value) < 1 {
		return nil, unexpectedBytesError(len(value), 1)
	}
	return &ValueReader{meta: meta, buf: value, vh: decodeValueHeader(value[0])}, nil
}

// BasicType returns the value's 2-bit family: Primitive, ShortString,
// Object, or Array.
func (vr *ValueReader) BasicType() BasicType {
	return vr.vh.basicType
}

// Tag returns the concrete primitive tag. It is only meaningful (and
// only returns a nil error) when BasicType() == BasicType_Primitive.
func (vr *ValueReader) Tag() (PrimitiveTag, error) {
	return decodePrimitiveHeader(vr.vh)
}

// IsNull reports whether the value is the Null primitive.
func (vr *ValueReader) IsNull() bool {
	tag, err := vr.Tag()
	return err == nil && tag == PrimitiveTag_Null
}

// payload returns the bytes following the one-byte header.
func (vr *ValueReader) payload() []byte {
	return vr.buf[1:]
}

func (vr *ValueReader) expectTag(want PrimitiveTag) error {
	got, err := vr.Tag()
	if err != nil {
		return err
	}
	if got != want {
		return typeMismatchError(want, got)
	}
	return nil
}

// GetBool returns the value of a BooleanTrue/BooleanFalse primitive.
func (vr *ValueReader) GetBool() (bool, error) {
	tag, err := vr.Tag()
	if err != nil {
		return false, err
	}
	switch tag {
	case PrimitiveTag_BooleanTrue:
		return true, nil
	case PrimitiveTag_BooleanFalse:
		return false, nil
	default:
		return false, typeMismatchError(PrimitiveTag_BooleanTrue, tag)
	}
}

// GetInt8 returns the value of an Int8 primitive.
func (vr *ValueReader) GetInt8() (int8, error) {
	if err := vr.expectTag(PrimitiveTag_Int8); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 1 {
		return 0, unexpectedBytesError(len(p), 1)
	}
	return int8(p[0]), nil
}

// GetInt16 returns the value of an Int16 primitive.
func (vr *ValueReader) GetInt16() (int16, error) {
	if err := vr.expectTag(PrimitiveTag_Int16); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 2 {
		return 0, unexpectedBytesError(len(p), 2)
	}
	return int16(binary.LittleEndian.Uint16(p)), nil
}

// GetInt32 returns the value of an Int32 primitive.
func (vr *ValueReader) GetInt32() (int32, error) {
	if err := vr.expectTag(PrimitiveTag_Int32); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 4 {
		return 0, unexpectedBytesError(len(p), 4)
	}
	return int32(binary.LittleEndian.Uint32(p)), nil
}

// GetInt64 returns the value of an Int64 primitive.
func (vr *ValueReader) GetInt64() (int64, error) {
	if err := vr.expectTag(PrimitiveTag_Int64); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 8 {
		return 0, unexpectedBytesError(len(p), 8)
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

// GetFloat returns the value of a Float primitive.
func (vr *ValueReader) GetFloat() (float32, error) {
	if err := vr.expectTag(PrimitiveTag_Float); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 4 {
		return 0, unexpectedBytesError(len(p), 4)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p)), nil
}

// GetDouble returns the value of a Double primitive.
func (vr *ValueReader) GetDouble() (float64, error) {
	if err := vr.expectTag(PrimitiveTag_Double); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 8 {
		return 0, unexpectedBytesError(len(p), 8)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

// GetDecimal4 returns the (scale, unscaled) pair of a Decimal4 primitive.
func (vr *ValueReader) GetDecimal4() (scale uint8, unscaled int32, err error) {
	if err = vr.expectTag(PrimitiveTag_Decimal4); err != nil {
		return
	}
	p := vr.payload()
	if len(p) < 5 {
		return 0, 0, unexpectedBytesError(len(p), 5)
	}
	scale = p[0]
	unscaled = int32(binary.LittleEndian.Uint32(p[1:5]))
	return
}

// GetDecimal8 returns the (scale, unscaled) pair of a Decimal8 primitive.
func (vr *ValueReader) GetDecimal8() (scale uint8, unscaled int64, err error) {
	if err = vr.expectTag(PrimitiveTag_Decimal8); err != nil {
		return
	}
	p := vr.payload()
	if len(p) < 9 {
		return 0, 0, unexpectedBytesError(len(p), 9)
	}
	scale = p[0]
	unscaled = int64(binary.LittleEndian.Uint64(p[1:9]))
	return
}

// GetDecimal16 returns the (scale, unscaled) pair of a Decimal16
// primitive; unscaled may exceed 96 bits.
func (vr *ValueReader) GetDecimal16() (scale uint8, unscaled *big.Int, err error) {
	if err = vr.expectTag(PrimitiveTag_Decimal16); err != nil {
		return
	}
	p := vr.payload()
	if len(p) < 17 {
		return 0, nil, unexpectedBytesError(len(p), 17)
	}
	scale = p[0]
	unscaled, err = decodeDecimal16Unscaled(p[1:17])
	return
}

// TryGetDecimal16Native96 returns unscaled as an int64-pair-free native
// view only when the magnitude fits in 96 bits; ok is false (not an
// error) otherwise, per the spec's "try" accessor convention.
func (vr *ValueReader) TryGetDecimal16Native96() (scale uint8, unscaled *big.Int, ok bool, err error) {
	scale, unscaled, err = vr.GetDecimal16()
	if err != nil {
		return 0, nil, false, err
	}
	if !FitsDecimal96(unscaled) {
		return scale, nil, false, nil
	}
	return scale, unscaled, true, nil
}

// GetDate returns the value of a Date primitive (days since epoch).
func (vr *ValueReader) GetDate() (int32, error) {
	if err := vr.expectTag(PrimitiveTag_Date); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 4 {
		return 0, unexpectedBytesError(len(p), 4)
	}
	return int32(binary.LittleEndian.Uint32(p)), nil
}

// GetTimestamp returns the value of a Timestamp primitive (microseconds
// since epoch, with timezone).
func (vr *ValueReader) GetTimestamp() (int64, error) {
	return vr.getMicros(PrimitiveTag_Timestamp)
}

// GetTimestampNtz returns the value of a TimestampNtz primitive
// (microseconds since epoch, without timezone).
func (vr *ValueReader) GetTimestampNtz() (int64, error) {
	return vr.getMicros(PrimitiveTag_TimestampNtz)
}

// GetTimeNtz returns the value of a TimeNtz primitive (microseconds
// since midnight).
func (vr *ValueReader) GetTimeNtz() (int64, error) {
	return vr.getMicros(PrimitiveTag_TimeNtz)
}

func (vr *ValueReader) getMicros(want PrimitiveTag) (int64, error) {
	if err := vr.expectTag(want); err != nil {
		return 0, err
	}
	p := vr.payload()
	if len(p) < 8 {
		return 0, unexpectedBytesError(len(p), 8)
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

// GetTimestampTzNanos returns the value of a TimestampTzNanos primitive
// (nanoseconds since epoch, with timezone).
func (vr *ValueReader) GetTimestampTzNanos() (int64, error) {
	return vr.getMicros(PrimitiveTag_TimestampTzNanos)
}

// GetTimestampNtzNanos returns the value of a TimestampNtzNanos
// primitive (nanoseconds since epoch, without timezone).
func (vr *ValueReader) GetTimestampNtzNanos() (int64, error) {
	return vr.getMicros(PrimitiveTag_TimestampNtzNanos)
}

// GetBinary returns the payload bytes of a Binary primitive.
func (vr *ValueReader) GetBinary() ([]byte, error) {
	if err := vr.expectTag(PrimitiveTag_Binary); err != nil {
		return nil, err
	}
	return vr.getLengthPrefixed()
}

func (vr *ValueReader) getLengthPrefixed() ([]byte, error) {
	p := vr.payload()
	if len(p) < 4 {
		return nil, unexpectedBytesError(len(p), 4)
	}
	n := binary.LittleEndian.Uint32(p)
	if uint32(len(p)-4) < n {
		return nil, unexpectedBytesError(len(p)-4, int(n))
	}
	return p[4 : 4+n], nil
}

// GetStringBytes returns the raw UTF-8 bytes of a ShortString or String
// primitive, without validating UTF-8.
func (vr *ValueReader) GetStringBytes() ([]byte, error) {
	switch vr.vh.basicType {
	case BasicType_ShortString:
		n, err := decodeShortStringHeader(vr.vh)
		if err != nil {
			return nil, err
		}
		p := vr.payload()
		if len(p) < n {
			return nil, unexpectedBytesError(len(p), n)
		}
		return p[:n], nil
	case BasicType_Primitive:
		if err := vr.expectTag(PrimitiveTag_String); err != nil {
			return nil, err
		}
		return vr.getLengthPrefixed()
	default:
		return nil, basicTypeMismatchError(BasicType_ShortString, vr.vh.basicType)
	}
}

// GetString decodes the value as a UTF-8 string, accepting either a
// ShortString or a String primitive.
func (vr *ValueReader) GetString() (string, error) {
	b, err := vr.GetStringBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUtf8
	}
	return string(b), nil
}

// GetUuid returns the value of a Uuid primitive.
func (vr *ValueReader) GetUuid() (uuid.UUID, error) {
	if err := vr.expectTag(PrimitiveTag_Uuid); err != nil {
		return uuid.UUID{}, err
	}
	return DecodeUuid(vr.payload())
}

// Object binds an ObjectReader to this value, failing with
// ErrTypeMismatch if the basic type is not Object.
func (vr *ValueReader) Object() (*ObjectReader, error) {
	return newObjectReader(vr.meta, vr.buf)
}

// Array binds an ArrayReader to this value, failing with
// ErrTypeMismatch if the basic type is not Array.
func (vr *ValueReader) Array() (*ArrayReader, error) {
	return newArrayReader(vr.meta, vr.buf)
}
