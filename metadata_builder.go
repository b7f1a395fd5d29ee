// Copyright (c) 2024 Neomantra Corp
//
// MetadataBuilder collects unique field names and emits the sorted
// metadata blob plus a remap table from provisional IDs to sorted IDs.

package variant

import "sort"

// MetadataBuilder interns field names and builds a sorted metadata blob.
// Not safe for concurrent use by multiple goroutines; distinct instances
// are independent.
type MetadataBuilder struct {
	names  []string
	byName map[string]int // name -> provisional id
}

// NewMetadataBuilder returns an empty builder.
func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{
		byName: make(map[string]int),
	}
}

// Add interns name, returning its provisional ID. Re-adding the same
// name returns the same ID.
func (mb *MetadataBuilder) Add(name string) int {
	if id, ok := mb.byName[name]; ok {
		return id
	}
	id := len(mb.names)
	mb.names = append(mb.names, name)
	mb.byName[name] = id
	return id
}

// Count returns the number of distinct names interned so far.
func (mb *MetadataBuilder) Count() int {
	return len(mb.names)
}

// Build emits the sorted metadata blob and a remap table where
// remap[provisionalID] = sortedID. The sort is byte-wise over UTF-8
// bytes, not code-point order.
func (mb *MetadataBuilder) Build() (metadata []byte, remap []int) {
	n := len(mb.names)
	order := make([]int, n) // order[sortedID] = provisionalID
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return mb.names[order[i]] < mb.names[order[j]]
	})

	remap = make([]int, n)
	sortedNames := make([]string, n)
	for sortedID, provisionalID := range order {
		remap[provisionalID] = sortedID
		sortedNames[sortedID] = mb.names[provisionalID]
	}

	totalStringBytes := 0
	for _, s := range sortedNames {
		totalStringBytes += len(s)
	}
	offsetSize := minWidth(uint32(totalStringBytes))
	if w := minWidth(uint32(n)); w > offsetSize {
		offsetSize = w
	}

	headerLen := 1
	dictSizeLen := offsetSize
	offsetTableLen := (n + 1) * offsetSize
	total := headerLen + dictSizeLen + offsetTableLen + totalStringBytes

	buf := make([]byte, total)
	buf[0] = encodeMetadataHeader(metadataHeader{
		version:       MetadataVersion1,
		sortedStrings: true,
		offsetSize:    offsetSize,
	})
	putUintWidth(buf[headerLen:], offsetSize, uint32(n))

	offsetsStart := headerLen + dictSizeLen
	stringsStart := offsetsStart + offsetTableLen
	pos := 0
	for i, s := range sortedNames {
		putUintWidth(buf[offsetsStart+i*offsetSize:], offsetSize, uint32(pos))
		copy(buf[stringsStart+pos:], s)
		pos += len(s)
	}
	putUintWidth(buf[offsetsStart+n*offsetSize:], offsetSize, uint32(pos))

	return buf, remap
}
