// Copyright (c) 2024 Neomantra Corp
//
// ArrayReader parses the Array container header and exposes child
// ValueReaders, analogous to ObjectReader but without field-IDs.

package variant

// ArrayReader is a zero-copy view over one Array value.
type ArrayReader struct {
	meta         *MetadataReader
	buf          []byte
	header       arrayHeader
	count        int
	offsetsStart int
	valuesStart  int
}

func newArrayReader(meta *MetadataReader, value []byte) (*ArrayReader, error) {
	if len(value) < 1 {
		return nil, unexpectedBytesError(len(value), 1)
	}
	vh := decodeValueHeader(value[0])
	h, err := decodeArrayHeader(vh)
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

	offsetsStart := 1 + countSize
	valuesStart := offsetsStart + (count+1)*h.offsetSize
	if len(value) < valuesStart {
		return nil, unexpectedBytesError(len(value), valuesStart)
	}

	return &ArrayReader{
		meta:         meta,
		buf:          value,
		header:       h,
		count:        count,
		offsetsStart: offsetsStart,
		valuesStart:  valuesStart,
	}, nil
}

// Count returns the number of elements.
func (ar *ArrayReader) Count() int {
	return ar.count
}

func (ar *ArrayReader) offset(i int) (uint32, error) {
	off := ar.offsetsStart + i*ar.header.offsetSize
	return readUintWidth(ar.buf[off:], ar.header.offsetSize)
}

// GetElement returns a ValueReader bound to element i. Like
// ObjectReader.GetFieldValue, the child is self-delimiting from its own
// header rather than from the next offset.
func (ar *ArrayReader) GetElement(i int) (*ValueReader, error) {
	if i < 0 || i >= ar.count {
		return nil, malformedf("array index %d out of range [0,%d)", i, ar.count)
	}
	off, err := ar.offset(i)
	if err != nil {
		return nil, err
	}
	start := ar.valuesStart + int(off)
	if start > len(ar.buf) {
		return nil, malformedf("array element offset %d out of range", off)
	}
	return NewValueReader(ar.meta, ar.buf[start:])
}
