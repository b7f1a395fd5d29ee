// Copyright (c) 2024 Neomantra Corp
//
// Header packing/unpacking and variable-width little-endian integer
// codecs shared by every reader and builder in this package.

package variant

// metadataHeader is the first byte of a metadata blob.
type metadataHeader struct {
	version       uint8
	sortedStrings bool
	offsetSize    int // 1..4
}

func decodeMetadataHeader(b byte) (metadataHeader, error) {
	version := b & 0x0F
	reserved := (b >> 4) & 0x01
	if reserved != 0 {
		return metadataHeader{}, malformedReservedBitsError()
	}
	sorted := (b>>5)&0x01 != 0
	offsetSize := int((b>>6)&0x03) + 1
	if version != MetadataVersion1 {
		return metadataHeader{}, ErrUnsupportedVersion
	}
	return metadataHeader{version: version, sortedStrings: sorted, offsetSize: offsetSize}, nil
}

func encodeMetadataHeader(h metadataHeader) byte {
	var b byte = h.version & 0x0F
	if h.sortedStrings {
		b |= 1 << 5
	}
	b |= byte(h.offsetSize-1) << 6
	return b
}

func malformedReservedBitsError() error {
	return ErrMalformedEncoding
}

// valueHeader splits a value's leading byte into its basic type and its
// 6-bit value-header payload.
type valueHeader struct {
	basicType  BasicType
	headerBits uint8 // 6 bits
}

func decodeValueHeader(b byte) valueHeader {
	return valueHeader{
		basicType:  BasicType(b & 0x03),
		headerBits: b >> 2,
	}
}

func encodeValueHeader(basicType BasicType, headerBits uint8) byte {
	return byte(basicType&0x03) | (headerBits << 2)
}

// decodePrimitiveHeader returns the primitive tag carried in a primitive
// value's header bits.
func decodePrimitiveHeader(vh valueHeader) (PrimitiveTag, error) {
	if vh.basicType != BasicType_Primitive {
		return 0, basicTypeMismatchError(BasicType_Primitive, vh.basicType)
	}
	tag := PrimitiveTag(vh.headerBits)
	if !tag.IsAssigned() {
		return 0, unexpectedTagError(uint8(tag))
	}
	return tag, nil
}

func encodePrimitiveHeader(tag PrimitiveTag) byte {
	return encodeValueHeader(BasicType_Primitive, uint8(tag))
}

// decodeShortStringHeader returns the byte length carried in a ShortString
// value's header bits (0..63).
func decodeShortStringHeader(vh valueHeader) (int, error) {
	if vh.basicType != BasicType_ShortString {
		return 0, basicTypeMismatchError(BasicType_ShortString, vh.basicType)
	}
	return int(vh.headerBits), nil
}

func encodeShortStringHeader(length int) (byte, error) {
	if length < 0 || length > MaxShortStringLen {
		return 0, malformedf("short string length %d out of range", length)
	}
	return encodeValueHeader(BasicType_ShortString, uint8(length)), nil
}

// objectHeader is the decoded form of an Object value's 6 header bits.
type objectHeader struct {
	fieldIDSize int // 1..4
	offsetSize  int // 1..4
	isLarge     bool
}

func decodeObjectHeader(vh valueHeader) (objectHeader, error) {
	if vh.basicType != BasicType_Object {
		return objectHeader{}, basicTypeMismatchError(BasicType_Object, vh.basicType)
	}
	bits := vh.headerBits
	if bits&0x20 != 0 { // bit 5 (the 6th header bit) is reserved zero
		return objectHeader{}, malformedReservedBitsError()
	}
	fieldIDSize := int(bits&0x03) + 1
	offsetSize := int((bits>>2)&0x03) + 1
	isLarge := (bits>>4)&0x01 != 0
	return objectHeader{fieldIDSize: fieldIDSize, offsetSize: offsetSize, isLarge: isLarge}, nil
}

func encodeObjectHeader(h objectHeader) byte {
	bits := uint8(h.fieldIDSize-1) & 0x03
	bits |= (uint8(h.offsetSize-1) & 0x03) << 2
	if h.isLarge {
		bits |= 1 << 4
	}
	return encodeValueHeader(BasicType_Object, bits)
}

// arrayHeader is the decoded form of an Array value's 6 header bits.
type arrayHeader struct {
	offsetSize int // 1..4
	isLarge    bool
}

func decodeArrayHeader(vh valueHeader) (arrayHeader, error) {
	if vh.basicType != BasicType_Array {
		return arrayHeader{}, basicTypeMismatchError(BasicType_Array, vh.basicType)
	}
	bits := vh.headerBits
	if bits&0x38 != 0 { // top 3 bits reserved zero
		return arrayHeader{}, malformedReservedBitsError()
	}
	offsetSize := int(bits&0x03) + 1
	isLarge := (bits>>2)&0x01 != 0
	return arrayHeader{offsetSize: offsetSize, isLarge: isLarge}, nil
}

func encodeArrayHeader(h arrayHeader) byte {
	bits := uint8(h.offsetSize-1) & 0x03
	if h.isLarge {
		bits |= 1 << 2
	}
	return encodeValueHeader(BasicType_Array, bits)
}

///////////////////////////////////////////////////////////////////////////////
// Variable-width little-endian unsigned integers, widths 1..4.

// readUintWidth reads an unsigned little-endian integer of the given byte
// width (1..4) from b[0:width].
func readUintWidth(b []byte, width int) (uint32, error) {
	if width < 1 || width > 4 {
		return 0, unexpectedWidthError(width)
	}
	if len(b) < width {
		return 0, unexpectedBytesError(len(b), width)
	}
	var v uint32
	for i := 0; i < width; i++ {
		v |= uint32(b[i]) << (8 * uint(i))
	}
	return v, nil
}

// putUintWidth writes v into b[0:width] as an unsigned little-endian
// integer of the given byte width (1..4). The caller must ensure v fits.
func putUintWidth(b []byte, width int, v uint32) {
	for i := 0; i < width; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

// minWidth returns the smallest byte width (1..4) that can hold v.
func minWidth(v uint32) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFF:
		return 3
	default:
		return 4
	}
}
