// Copyright (c) 2024 Neomantra Corp
//
// Adapted from the Apache Parquet/Arrow Variant encoding spec:
//   https://github.com/apache/parquet-format/blob/master/VariantEncoding.md

package variant

// BasicType is the 2-bit family packed into the low bits of every value
// header byte.
type BasicType uint8

const (
	BasicType_Primitive   BasicType = 0
	BasicType_ShortString BasicType = 1
	BasicType_Object      BasicType = 2
	BasicType_Array       BasicType = 3
)

func (bt BasicType) String() string {
	switch bt {
	case BasicType_Primitive:
		return "Primitive"
	case BasicType_ShortString:
		return "ShortString"
	case BasicType_Object:
		return "Object"
	case BasicType_Array:
		return "Array"
	default:
		return "Unknown"
	}
}

// PrimitiveTag is the 6-bit concrete kind of a Primitive value.
type PrimitiveTag uint8

const (
	PrimitiveTag_Null              PrimitiveTag = 0
	PrimitiveTag_BooleanTrue       PrimitiveTag = 1
	PrimitiveTag_BooleanFalse      PrimitiveTag = 2
	PrimitiveTag_Int8              PrimitiveTag = 3
	PrimitiveTag_Int16             PrimitiveTag = 4
	PrimitiveTag_Int32             PrimitiveTag = 5
	PrimitiveTag_Int64             PrimitiveTag = 6
	PrimitiveTag_Double            PrimitiveTag = 7
	PrimitiveTag_Decimal4          PrimitiveTag = 8
	PrimitiveTag_Decimal8          PrimitiveTag = 9
	PrimitiveTag_Decimal16         PrimitiveTag = 10
	PrimitiveTag_Date              PrimitiveTag = 11
	PrimitiveTag_Timestamp         PrimitiveTag = 12
	PrimitiveTag_TimestampNtz      PrimitiveTag = 13
	PrimitiveTag_Float             PrimitiveTag = 14
	PrimitiveTag_Binary            PrimitiveTag = 15
	PrimitiveTag_String            PrimitiveTag = 16
	PrimitiveTag_TimeNtz           PrimitiveTag = 17
	PrimitiveTag_TimestampTzNanos  PrimitiveTag = 18
	PrimitiveTag_TimestampNtzNanos PrimitiveTag = 19
	PrimitiveTag_Uuid              PrimitiveTag = 20
)

var primitiveTagNames = map[PrimitiveTag]string{
	PrimitiveTag_Null:              "Null",
	PrimitiveTag_BooleanTrue:       "BooleanTrue",
	PrimitiveTag_BooleanFalse:      "BooleanFalse",
	PrimitiveTag_Int8:              "Int8",
	PrimitiveTag_Int16:             "Int16",
	PrimitiveTag_Int32:             "Int32",
	PrimitiveTag_Int64:             "Int64",
	PrimitiveTag_Double:            "Double",
	PrimitiveTag_Decimal4:          "Decimal4",
	PrimitiveTag_Decimal8:          "Decimal8",
	PrimitiveTag_Decimal16:         "Decimal16",
	PrimitiveTag_Date:              "Date",
	PrimitiveTag_Timestamp:         "Timestamp",
	PrimitiveTag_TimestampNtz:      "TimestampNtz",
	PrimitiveTag_Float:             "Float",
	PrimitiveTag_Binary:            "Binary",
	PrimitiveTag_String:            "String",
	PrimitiveTag_TimeNtz:           "TimeNtz",
	PrimitiveTag_TimestampTzNanos:  "TimestampTzNanos",
	PrimitiveTag_TimestampNtzNanos: "TimestampNtzNanos",
	PrimitiveTag_Uuid:              "Uuid",
}

func (t PrimitiveTag) String() string {
	if name, ok := primitiveTagNames[t]; ok {
		return name
	}
	return "Reserved"
}

// IsAssigned reports whether the tag is one of the 21 defined primitive
// kinds; every other 6-bit value is reserved and unreadable.
func (t PrimitiveTag) IsAssigned() bool {
	_, ok := primitiveTagNames[t]
	return ok
}

// MetadataVersion1 is the only metadata version this codec accepts.
const MetadataVersion1 = 1

// MaxShortStringLen is the largest byte length ShortString can carry
// directly in its 6-bit value header.
const MaxShortStringLen = 63

// Decimal96MagnitudeBitLimit separates Decimal16 values whose unscaled
// magnitude fits a native 96-bit decimal from those that need the
// arbitrary-precision (Decimal128) storage flavor.
const Decimal96MagnitudeBitLimit = 96

// MaxDecimalScale is the largest legal decimal scale (spec §3).
const MaxDecimalScale = 38
