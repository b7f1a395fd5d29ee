// Copyright (c) 2024 Neomantra Corp
//
// VariantArray is the extension array counterpart to VariantType,
// exposing each row's (metadata, value) byte pair so a caller can hand
// them straight to variant.NewMetadataReader/variant.NewValueReader
// without copying the underlying Arrow buffers.

package arrowvariant

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/array"
)

// VariantArray wraps a struct<metadata: binary, value: binary> array as
// an Arrow extension array.
type VariantArray struct {
	array.ExtensionArrayBase
}

func (a *VariantArray) storage() *array.Struct {
	return a.Storage().(*array.Struct)
}

// Metadata returns the metadata blob for row i.
func (a *VariantArray) Metadata(i int) []byte {
	return a.storage().Field(0).(*array.Binary).Value(i)
}

// Value returns the value blob for row i.
func (a *VariantArray) Value(i int) []byte {
	return a.storage().Field(1).(*array.Binary).Value(i)
}

// String renders every row as "{metadata=<N>B value=<N>B}", rows
// separated by a space, mostly useful for debugging a batch dump.
func (a *VariantArray) String() string {
	s := a.storage()
	out := ""
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("{metadata=%dB value=%dB}", len(a.Metadata(i)), len(a.Value(i)))
	}
	return out
}
