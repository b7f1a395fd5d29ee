// Copyright (c) 2024 Neomantra Corp

package variant_test

import (
	"time"

	variant "github.com/NimbleMarkets/variant-go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JsonEncoder/JsonWriter round-trip", func() {
	DescribeTable("scalar JSON texts round-trip textually",
		func(text string) {
			metadata, value, err := variant.EncodeJSON([]byte(text))
			Expect(err).To(BeNil())
			out, err := variant.ToJSON(metadata, value)
			Expect(err).To(BeNil())
			Expect(string(out)).To(Equal(text))
		},
		Entry("small integer", "42"),
		Entry("negative integer", "-7"),
		Entry("64-bit integer", "9223372036854775807"),
		Entry("finite double", "3.5"),
		Entry("string", `"hello"`),
		Entry("true", "true"),
		Entry("false", "false"),
		Entry("null", "null"),
		Entry("empty object", "{}"),
		Entry("empty array", "[]"),
	)

	It("infers the narrowest integer width that fits", func() {
		for text, wantKind := range map[string]variant.ValueKind{
			"0":         variant.Kind_Int8,
			"127":       variant.Kind_Int8,
			"128":       variant.Kind_Int16,
			"32767":     variant.Kind_Int16,
			"32768":     variant.Kind_Int32,
			"2147483648": variant.Kind_Int64,
		} {
			metadata, value, err := variant.EncodeJSON([]byte(text))
			Expect(err).To(BeNil())
			mr, err := variant.NewMetadataReader(metadata)
			Expect(err).To(BeNil())
			vr, err := variant.NewValueReader(mr, value)
			Expect(err).To(BeNil())
			tag, err := vr.Tag()
			Expect(err).To(BeNil())
			Expect(variant.ValueKind(tag)).To(Equal(wantKind))
		}
	})

	It("structurally round-trips the nested users/scores scenario", func() {
		text := `{"users":[{"name":"Alice","scores":[95,87]},{"name":"Bob"}]}`

		metadata1, value1, err := variant.EncodeJSON([]byte(text))
		Expect(err).To(BeNil())
		mr1, err := variant.NewMetadataReader(metadata1)
		Expect(err).To(BeNil())
		vr1, err := variant.NewValueReader(mr1, value1)
		Expect(err).To(BeNil())
		first, err := materialize(vr1)
		Expect(err).To(BeNil())

		reEmitted, err := variant.ToJSON(metadata1, value1)
		Expect(err).To(BeNil())

		metadata2, value2, err := variant.EncodeJSON(reEmitted)
		Expect(err).To(BeNil())
		mr2, err := variant.NewMetadataReader(metadata2)
		Expect(err).To(BeNil())
		vr2, err := variant.NewValueReader(mr2, value2)
		Expect(err).To(BeNil())
		second, err := materialize(vr2)
		Expect(err).To(BeNil())

		Expect(second.Equal(first)).To(BeTrue())
	})

	It("rejects malformed JSON with ErrMalformedJson", func() {
		_, _, err := variant.EncodeJSON([]byte(`{"a":}`))
		Expect(err).To(MatchError(variant.ErrMalformedJson))
	})

	It("rejects a NaN-producing float during JSON write via the tree writer", func() {
		v := variant.NewDouble(nanValue())
		_, err := variant.TreeToJSON(v)
		Expect(err).To(Equal(variant.ErrUnrepresentableFloat))
	})

	It("renders Timestamp zoned and TimestampNtz unzoned regardless of host local time", func() {
		original := time.Local
		time.Local = time.FixedZone("TEST", -5*3600)
		defer func() { time.Local = original }()

		const micros = int64(1700000000123456) // 2023-11-14T22:13:20.123456Z

		tsJSON, err := variant.TreeToJSON(variant.NewTimestamp(micros))
		Expect(err).To(BeNil())
		Expect(string(tsJSON)).To(Equal(`"2023-11-14T22:13:20.123456Z"`))

		ntzJSON, err := variant.TreeToJSON(variant.NewTimestampNtz(micros))
		Expect(err).To(BeNil())
		Expect(string(ntzJSON)).To(Equal(`"2023-11-14T22:13:20.123456"`))
	})

	It("round-trips an ISO-8601 string through ParseTimestamp and the JSON writer", func() {
		micros, err := variant.ParseTimestamp("2023-11-14T22:13:20.123456Z")
		Expect(err).To(BeNil())

		out, err := variant.TreeToJSON(variant.NewTimestamp(micros))
		Expect(err).To(BeNil())
		Expect(string(out)).To(Equal(`"2023-11-14T22:13:20.123456Z"`))
	})

	It("rejects a non-ISO-8601 string in ParseTimestamp", func() {
		_, err := variant.ParseTimestamp("not a timestamp")
		Expect(err).ToNot(BeNil())
	})
})

func nanValue() float64 {
	var zero float64
	return zero / zero
}
