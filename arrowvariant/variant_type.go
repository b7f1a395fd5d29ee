// Copyright (c) 2024 Neomantra Corp
//
// VariantType is an Arrow extension type over struct<metadata: binary,
// value: binary>, the storage layout Parquet/Arrow readers use to carry
// a Variant column through a record batch. It follows the same
// ExtensionBase/ArrayType convention arrow-go's own extension types
// (arrow/extensions: uuid, bool8, fixed_shape_tensor) use; this package
// is scoped to the extension-type boundary only — no IPC, no shredding,
// no record-batch construction, which are out of scope here.

package arrowvariant

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
)

// ExtensionName is the canonical Arrow extension name for Variant
// columns, matching the name Parquet/Arrow readers look for.
const ExtensionName = "parquet.variant"

func init() {
	if err := arrow.RegisterExtensionType(NewVariantType()); err != nil {
		panic(err)
	}
}

func storageType() arrow.DataType {
	return arrow.StructOf(
		arrow.Field{Name: "metadata", Type: arrow.BinaryTypes.Binary},
		arrow.Field{Name: "value", Type: arrow.BinaryTypes.Binary},
	)
}

// VariantType is the Arrow extension type for a Variant-encoded column.
type VariantType struct {
	arrow.ExtensionBase
}

// NewVariantType returns the VariantType bound to its canonical
// struct<metadata: binary, value: binary> storage.
func NewVariantType() *VariantType {
	return &VariantType{ExtensionBase: arrow.ExtensionBase{Storage: storageType()}}
}

// ArrayType returns the reflect.Type backing columns of this extension
// type, as arrow-go's extension registry requires.
func (VariantType) ArrayType() reflect.Type {
	return reflect.TypeOf(VariantArray{})
}

// ExtensionName returns the canonical Arrow extension name.
func (VariantType) ExtensionName() string {
	return ExtensionName
}

// ExtensionEquals reports whether other is a VariantType with the same
// storage layout.
func (t *VariantType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*VariantType)
	if !ok {
		return false
	}
	return arrow.TypeEqual(t.Storage, o.Storage)
}

// Serialize returns the extension's metadata payload. The storage
// layout alone fully determines the type, so no extra metadata is
// needed.
func (VariantType) Serialize() string {
	return ""
}

// Deserialize reconstructs a VariantType from its storage type and
// serialized metadata, failing if the storage layout doesn't match the
// canonical struct<metadata: binary, value: binary>.
func (VariantType) Deserialize(storage arrow.DataType, data string) (arrow.ExtensionType, error) {
	if !arrow.TypeEqual(storage, storageType()) {
		return nil, fmt.Errorf("arrowvariant: unexpected storage type %s", storage)
	}
	return NewVariantType(), nil
}
