// Copyright (c) 2024 Neomantra Corp
//
// ObjectReader parses the Object container header, indexes field-IDs and
// offsets, and exposes child ValueReaders. Field lookup is a binary
// search over field-IDs, since the builder always emits them in strict
// ascending order (spec: ascending field-ID implies ascending field name
// because field-IDs reference sorted metadata positions).

package variant

import "bytes"

// ObjectReader is a zero-copy view over one Object value.
type ObjectReader struct {
	meta          *MetadataReader
	buf           []byte
	header        objectHeader
	count         int
	fieldIDsStart int
	offsetsStart  int
	valuesStart   int
}

func newObjectReader(meta *MetadataReader, value []byte) (*ObjectReader, error) {
	if len(value) < 1 {
		return nil, unexpectedBytesError(len(value), 1)
	}
	vh := decodeValueHeader(value[0])
	h, err := decodeObjectHeader(vh)
	if err != nil {
		return nil, err
	}

	countSize := 1
	if h.isLarge {
		countSize = 4
	}
	if len(value) < 1+countSize {
		return nil, unexpectedBytesError(len(value), 1+countSize)
	}
	countRaw, err := readUintWidth(value[1:], countSize)
	if err != nil {
		return nil, err
	}
	count := int(countRaw)

	fieldIDsStart := 1 + countSize
	offsetsStart := fieldIDsStart + count*h.fieldIDSize
	valuesStart := offsetsStart + (count+1)*h.offsetSize
	if len(value) < valuesStart {
		return nil, unexpectedBytesError(len(value), valuesStart)
	}

	or := &ObjectReader{
		meta:          meta,
		buf:           value,
		header:        h,
		count:         count,
		fieldIDsStart: fieldIDsStart,
		offsetsStart:  offsetsStart,
		valuesStart:   valuesStart,
	}

	prevID := -1
	for i := 0; i < count; i++ {
		id, err := or.fieldID(i)
		if err != nil {
			return nil, err
		}
		if int(id) <= prevID {
			return nil, malformedf("object field-ids not in strict ascending order")
		}
		prevID = int(id)
	}
	return or, nil
}

// Count returns the number of fields.
func (or *ObjectReader) Count() int {
	return or.count
}

func (or *ObjectReader) fieldID(i int) (uint32, error) {
	off := or.fieldIDsStart + i*or.header.fieldIDSize
	return readUintWidth(or.buf[off:], or.header.fieldIDSize)
}

func (or *ObjectReader) offset(i int) (uint32, error) {
	off := or.offsetsStart + i*or.header.offsetSize
	return readUintWidth(or.buf[off:], or.header.offsetSize)
}

// GetFieldName resolves field i's name through the metadata dictionary.
func (or *ObjectReader) GetFieldName(i int) (string, error) {
	id, err := or.fieldID(i)
	if err != nil {
		return "", err
	}
	return or.meta.GetString(int(id))
}

// GetFieldValue returns a ValueReader bound to field i's value. The
// child's length is self-describing from its own header; it is not
// derived from the next offset, since the spec permits non-monotonic
// offsets when physical layout differs from field-ID order.
func (or *ObjectReader) GetFieldValue(i int) (*ValueReader, error) {
	if i < 0 || i >= or.count {
		return nil, malformedf("object field index %d out of range [0,%d)", i, or.count)
	}
	off, err := or.offset(i)
	if err != nil {
		return nil, err
	}
	start := or.valuesStart + int(off)
	if start > len(or.buf) {
		return nil, malformedf("object field offset %d out of range", off)
	}
	return NewValueReader(or.meta, or.buf[start:])
}

// TryGetField performs a binary search over field indices 0..Count(),
// resolving each tested field-ID through the metadata dictionary for
// comparison, and returns the matching field's ValueReader. ok is false
// (not an error) when absent.
func (or *ObjectReader) TryGetField(name []byte) (vr *ValueReader, ok bool, err error) {
	lo, hi := 0, or.count
	for lo < hi {
		mid := (lo + hi) / 2
		id, err := or.fieldID(mid)
		if err != nil {
			return nil, false, err
		}
		fieldName, err := or.meta.GetBytes(int(id))
		if err != nil {
			return nil, false, err
		}
		switch bytes.Compare(fieldName, name) {
		case 0:
			v, err := or.GetFieldValue(mid)
			return v, err == nil, err
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return nil, false, nil
}
