// Copyright (c) 2024 Neomantra Corp
//
// MetadataReader parses the metadata blob: header, dictionary size,
// offset table, string bytes. It borrows its input and never copies it.

package variant

import (
	"sort"
	"unicode/utf8"
)

// MetadataReader is a zero-copy view over a Variant metadata blob.
type MetadataReader struct {
	buf        []byte
	header     metadataHeader
	dictSize   int
	offsetsOff int // byte offset of the offset table within buf
	stringsOff int // byte offset of the string bytes region within buf
}

// NewMetadataReader parses b as a Variant metadata blob.
func NewMetadataReader(b []byte) (*MetadataReader, error) {
	if len(b) < 1 {
		return nil, unexpectedBytesError(len(b), 1)
	}
	h, err := decodeMetadataHeader(b[0])
	if err != nil {
		return nil, err
	}
	if len(b) < 1+h.offsetSize {
		return nil, unexpectedBytesError(len(b), 1+h.offsetSize)
	}
	dictSizeRaw, err := readUintWidth(b[1:], h.offsetSize)
	if err != nil {
		return nil, err
	}
	dictSize := int(dictSizeRaw)

	offsetsOff := 1 + h.offsetSize
	numOffsets := dictSize + 1
	offsetTableBytes := numOffsets * h.offsetSize
	stringsOff := offsetsOff + offsetTableBytes
	if len(b) < stringsOff {
		return nil, unexpectedBytesError(len(b), stringsOff)
	}

	mr := &MetadataReader{
		buf:        b,
		header:     h,
		dictSize:   dictSize,
		offsetsOff: offsetsOff,
		stringsOff: stringsOff,
	}

	// Validate every offset is within the remaining string region and
	// monotonically non-decreasing.
	stringRegionLen := len(b) - stringsOff
	prev := uint32(0)
	for i := 0; i <= dictSize; i++ {
		off, err := mr.rawOffset(i)
		if err != nil {
			return nil, err
		}
		if int(off) > stringRegionLen {
			return nil, malformedf("metadata offset %d out of range", off)
		}
		if i > 0 && off < prev {
			return nil, malformedf("metadata offsets not monotonically non-decreasing")
		}
		prev = off
	}
	return mr, nil
}

// Size is the number of strings in the dictionary.
func (mr *MetadataReader) Size() int {
	return mr.dictSize
}

// IsSorted reports whether the dictionary strings are in strict
// lexicographic UTF-8-byte order, enabling binary search in Find.
func (mr *MetadataReader) IsSorted() bool {
	return mr.header.sortedStrings
}

func (mr *MetadataReader) rawOffset(i int) (uint32, error) {
	off := mr.offsetsOff + i*mr.header.offsetSize
	return readUintWidth(mr.buf[off:], mr.header.offsetSize)
}

// GetBytes returns the raw UTF-8 bytes of dictionary entry i, borrowed
// from the underlying buffer.
func (mr *MetadataReader) GetBytes(i int) ([]byte, error) {
	if i < 0 || i >= mr.dictSize {
		return nil, malformedf("metadata index %d out of range [0,%d)", i, mr.dictSize)
	}
	start, err := mr.rawOffset(i)
	if err != nil {
		return nil, err
	}
	end, err := mr.rawOffset(i + 1)
	if err != nil {
		return nil, err
	}
	return mr.buf[mr.stringsOff+int(start) : mr.stringsOff+int(end)], nil
}

// GetString decodes dictionary entry i as a UTF-8 string, failing with
// ErrInvalidUtf8 if the bytes are not valid UTF-8.
func (mr *MetadataReader) GetString(i int) (string, error) {
	b, err := mr.GetBytes(i)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUtf8
	}
	return string(b), nil
}

// Find looks up name's dictionary index: binary search when the
// dictionary is sorted, else a linear scan. Comparisons are byte-wise on
// UTF-8 bytes, not Unicode collation. Returns ErrNotFound if absent.
func (mr *MetadataReader) Find(name []byte) (int, error) {
	if mr.header.sortedStrings {
		idx, err := mr.findSorted(name)
		if err != nil {
			return 0, err
		}
		if idx < 0 {
			return 0, ErrNotFound
		}
		return idx, nil
	}
	for i := 0; i < mr.dictSize; i++ {
		b, err := mr.GetBytes(i)
		if err != nil {
			return 0, err
		}
		if string(b) == string(name) {
			return i, nil
		}
	}
	return 0, ErrNotFound
}

// findSorted performs the binary search; returns -1 (not an error) when
// absent, which Find turns into ErrNotFound.
func (mr *MetadataReader) findSorted(name []byte) (int, error) {
	var searchErr error
	idx := sort.Search(mr.dictSize, func(i int) bool {
		b, err := mr.GetBytes(i)
		if err != nil {
			searchErr = err
			return true
		}
		return string(b) >= string(name)
	})
	if searchErr != nil {
		return 0, searchErr
	}
	if idx >= mr.dictSize {
		return -1, nil
	}
	b, err := mr.GetBytes(idx)
	if err != nil {
		return 0, err
	}
	if string(b) != string(name) {
		return -1, nil
	}
	return idx, nil
}
