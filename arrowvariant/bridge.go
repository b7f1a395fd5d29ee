// Copyright (c) 2024 Neomantra Corp

package arrowvariant

import "github.com/NimbleMarkets/variant-go"

// OpenRow binds a ValueReader over row i's (metadata, value) blobs,
// borrowing directly from the array's underlying Arrow buffers.
func OpenRow(a *VariantArray, i int) (*variant.ValueReader, error) {
	meta, err := variant.NewMetadataReader(a.Metadata(i))
	if err != nil {
		return nil, err
	}
	return variant.NewValueReader(meta, a.Value(i))
}
