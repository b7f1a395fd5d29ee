// Copyright (c) 2024 Neomantra Corp

package variant_test

import (
	variant "github.com/NimbleMarkets/variant-go"

	"github.com/google/uuid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UUID byte order", func() {
	It("decodes the §9 design-note bytes to the expected UUID string", func() {
		raw := []byte{
			0x55, 0x0E, 0x84, 0x00, 0xE2, 0x9B, 0x41, 0xD4,
			0xA7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00,
		}
		got, err := variant.DecodeUuid(raw)
		Expect(err).To(BeNil())
		Expect(got.String()).To(Equal("550e8400-e29b-41d4-a716-446655440000"))
	})

	It("round-trips through Encode/GetUuid", func() {
		u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
		v := variant.NewUuid(u)

		metadata, value, err := variant.Encode(v)
		Expect(err).To(BeNil())
		mr, err := variant.NewMetadataReader(metadata)
		Expect(err).To(BeNil())
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())

		got, err := vr.GetUuid()
		Expect(err).To(BeNil())
		Expect(got).To(Equal(u))
	})
})
