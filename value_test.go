// Copyright (c) 2024 Neomantra Corp

package variant_test

import (
	variant "github.com/NimbleMarkets/variant-go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Object scenario", func() {
	It("decodes {\"age\":30,\"name\":\"Bob\"} per scenario 3", func() {
		metadata := []byte{0x01, 0x02, 0x00, 0x03, 0x07, 0x61, 0x67, 0x65, 0x6E, 0x61, 0x6D, 0x65}
		value := []byte{0x02, 0x02, 0x00, 0x01, 0x00, 0x02, 0x06, 0x0C, 0x1E, 0x0D, 0x42, 0x6F, 0x62}

		mr, err := variant.NewMetadataReader(metadata)
		Expect(err).To(BeNil())
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())
		Expect(vr.BasicType()).To(Equal(variant.BasicType_Object))

		obj, err := vr.Object()
		Expect(err).To(BeNil())
		Expect(obj.Count()).To(Equal(2))

		name0, err := obj.GetFieldName(0)
		Expect(err).To(BeNil())
		Expect(name0).To(Equal("age"))

		field0, err := obj.GetFieldValue(0)
		Expect(err).To(BeNil())
		age, err := field0.GetInt8()
		Expect(err).To(BeNil())
		Expect(age).To(Equal(int8(30)))

		nameField, ok, err := obj.TryGetField([]byte("name"))
		Expect(err).To(BeNil())
		Expect(ok).To(BeTrue())
		nameVal, err := nameField.GetString()
		Expect(err).To(BeNil())
		Expect(nameVal).To(Equal("Bob"))
	})
})

var _ = Describe("Array scenario", func() {
	It("decodes [42,\"hi\",null] per scenario 4", func() {
		metadata := emptyMetadataBlob()
		value := []byte{0x03, 0x03, 0x00, 0x02, 0x05, 0x06, 0x0C, 0x2A, 0x09, 0x68, 0x69, 0x00}

		mr, err := variant.NewMetadataReader(metadata)
		Expect(err).To(BeNil())
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())
		Expect(vr.BasicType()).To(Equal(variant.BasicType_Array))

		arr, err := vr.Array()
		Expect(err).To(BeNil())
		Expect(arr.Count()).To(Equal(3))

		e0, err := arr.GetElement(0)
		Expect(err).To(BeNil())
		v0, err := e0.GetInt8()
		Expect(err).To(BeNil())
		Expect(v0).To(Equal(int8(42)))

		e1, err := arr.GetElement(1)
		Expect(err).To(BeNil())
		s1, err := e1.GetString()
		Expect(err).To(BeNil())
		Expect(s1).To(Equal("hi"))

		e2, err := arr.GetElement(2)
		Expect(err).To(BeNil())
		Expect(e2.IsNull()).To(BeTrue())
	})
})

var _ = Describe("ValueBuilder round-trip", func() {
	It("round-trips a nested object/array tree through Encode", func() {
		obj := variant.NewVariantObject()
		obj.Set("name", variant.NewString("Bob"))
		obj.Set("age", variant.NewInt8(30))
		scores := variant.NewVariantArray(variant.NewInt8(95), variant.NewInt8(87))
		obj.Set("scores", variant.NewArray(scores))
		tree := variant.NewObject(obj)

		metadata, value, err := variant.Encode(tree)
		Expect(err).To(BeNil())

		mr, err := variant.NewMetadataReader(metadata)
		Expect(err).To(BeNil())
		Expect(mr.IsSorted()).To(BeTrue())

		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())
		decoded, err := materialize(vr)
		Expect(err).To(BeNil())
		Expect(decoded.Equal(tree)).To(BeTrue())
	})

	It("treats objects as order-independent and arrays as order-dependent", func() {
		a := variant.NewVariantObject()
		a.Set("x", variant.NewInt8(1))
		a.Set("y", variant.NewInt8(2))
		b := variant.NewVariantObject()
		b.Set("y", variant.NewInt8(2))
		b.Set("x", variant.NewInt8(1))
		Expect(variant.NewObject(a).Equal(variant.NewObject(b))).To(BeTrue())
		Expect(variant.NewObject(a).Hash()).To(Equal(variant.NewObject(b).Hash()))

		arrA := variant.NewArray(variant.NewVariantArray(variant.NewInt8(1), variant.NewInt8(2)))
		arrB := variant.NewArray(variant.NewVariantArray(variant.NewInt8(2), variant.NewInt8(1)))
		Expect(arrA.Equal(arrB)).To(BeFalse())
	})

	It("forces is_large when an object has 256 fields", func() {
		obj := variant.NewVariantObject()
		for i := 0; i < 256; i++ {
			obj.Set(fieldName(i), variant.NewInt32(int32(i)))
		}
		tree := variant.NewObject(obj)
		metadata, value, err := variant.Encode(tree)
		Expect(err).To(BeNil())
		mr, err := variant.NewMetadataReader(metadata)
		Expect(err).To(BeNil())
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())
		or, err := vr.Object()
		Expect(err).To(BeNil())
		Expect(or.Count()).To(Equal(256))
	})

	It("round-trips an empty object and an empty array", func() {
		emptyObj := variant.NewObject(variant.NewVariantObject())
		metadata, value, err := variant.Encode(emptyObj)
		Expect(err).To(BeNil())
		mr, _ := variant.NewMetadataReader(metadata)
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())
		or, err := vr.Object()
		Expect(err).To(BeNil())
		Expect(or.Count()).To(Equal(0))

		emptyArr := variant.NewArray(variant.NewVariantArray())
		metadata2, value2, err := variant.Encode(emptyArr)
		Expect(err).To(BeNil())
		mr2, _ := variant.NewMetadataReader(metadata2)
		vr2, err := variant.NewValueReader(mr2, value2)
		Expect(err).To(BeNil())
		ar, err := vr2.Array()
		Expect(err).To(BeNil())
		Expect(ar.Count()).To(Equal(0))
	})
})

func fieldName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%26]) + string(letters[(i/26)%26]) + string(rune('0'+i%10))
}

func emptyMetadataBlob() []byte {
	mb := variant.NewMetadataBuilder()
	blob, _ := mb.Build()
	return blob
}

// materialize walks a ValueReader into a VariantValue tree, the way a
// caller bridging a read path into the owned-tree API would.
func materialize(vr *variant.ValueReader) (*variant.VariantValue, error) {
	switch vr.BasicType() {
	case variant.BasicType_ShortString:
		s, err := vr.GetString()
		if err != nil {
			return nil, err
		}
		return variant.NewString(s), nil
	case variant.BasicType_Object:
		or, err := vr.Object()
		if err != nil {
			return nil, err
		}
		out := variant.NewVariantObject()
		for i := 0; i < or.Count(); i++ {
			name, err := or.GetFieldName(i)
			if err != nil {
				return nil, err
			}
			child, err := or.GetFieldValue(i)
			if err != nil {
				return nil, err
			}
			childTree, err := materialize(child)
			if err != nil {
				return nil, err
			}
			out.Set(name, childTree)
		}
		return variant.NewObject(out), nil
	case variant.BasicType_Array:
		ar, err := vr.Array()
		if err != nil {
			return nil, err
		}
		out := variant.NewVariantArray()
		for i := 0; i < ar.Count(); i++ {
			child, err := ar.GetElement(i)
			if err != nil {
				return nil, err
			}
			childTree, err := materialize(child)
			if err != nil {
				return nil, err
			}
			out.Append(childTree)
		}
		return variant.NewArray(out), nil
	}

	tag, err := vr.Tag()
	if err != nil {
		return nil, err
	}
	switch tag {
	case variant.PrimitiveTag_Null:
		return variant.NewNull(), nil
	case variant.PrimitiveTag_BooleanTrue:
		return variant.NewBool(true), nil
	case variant.PrimitiveTag_BooleanFalse:
		return variant.NewBool(false), nil
	case variant.PrimitiveTag_Int8:
		v, err := vr.GetInt8()
		return variant.NewInt8(v), err
	case variant.PrimitiveTag_Int16:
		v, err := vr.GetInt16()
		return variant.NewInt16(v), err
	case variant.PrimitiveTag_Int32:
		v, err := vr.GetInt32()
		return variant.NewInt32(v), err
	case variant.PrimitiveTag_Int64:
		v, err := vr.GetInt64()
		return variant.NewInt64(v), err
	case variant.PrimitiveTag_Double:
		v, err := vr.GetDouble()
		return variant.NewDouble(v), err
	case variant.PrimitiveTag_String:
		s, err := vr.GetString()
		return variant.NewString(s), err
	default:
		return nil, variant.ErrUnsupportedPrimitive
	}
}
