// Copyright (c) 2024 Neomantra Corp

package variant_test

import (
	variant "github.com/NimbleMarkets/variant-go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Header round-trip", func() {
	Context("metadata of two unsorted entries \"b\",\"a\"", func() {
		It("parses exactly as scenario 1 describes", func() {
			b := []byte{0x01, 0x02, 0x00, 0x01, 0x02, 0x62, 0x61}
			mr, err := variant.NewMetadataReader(b)
			Expect(err).To(BeNil())
			Expect(mr.Size()).To(Equal(2))
			Expect(mr.IsSorted()).To(BeFalse())

			got, err := mr.GetBytes(0)
			Expect(err).To(BeNil())
			Expect(string(got)).To(Equal("b"))

			idx, err := mr.Find([]byte("a"))
			Expect(err).To(BeNil())
			Expect(idx).To(Equal(1))

			_, err = mr.Find([]byte("c"))
			Expect(err).To(Equal(variant.ErrNotFound))
		})
	})

	Context("empty metadata", func() {
		It("reports size 0 and not-found on every lookup", func() {
			mb := variant.NewMetadataBuilder()
			blob, _ := mb.Build()
			mr, err := variant.NewMetadataReader(blob)
			Expect(err).To(BeNil())
			Expect(mr.Size()).To(Equal(0))
			_, err = mr.Find([]byte("anything"))
			Expect(err).To(Equal(variant.ErrNotFound))
		})
	})

	Context("builder always emits sorted metadata", func() {
		It("sorts names byte-wise and remaps provisional to sorted IDs", func() {
			mb := variant.NewMetadataBuilder()
			idB := mb.Add("b")
			idA := mb.Add("a")
			blob, remap := mb.Build()

			mr, err := variant.NewMetadataReader(blob)
			Expect(err).To(BeNil())
			Expect(mr.IsSorted()).To(BeTrue())
			Expect(mr.Size()).To(Equal(2))

			s0, _ := mr.GetString(0)
			s1, _ := mr.GetString(1)
			Expect(s0).To(Equal("a"))
			Expect(s1).To(Equal("b"))
			Expect(remap[idA]).To(Equal(0))
			Expect(remap[idB]).To(Equal(1))
		})
	})

	Context("short string \"Hi\"", func() {
		It("parses exactly as scenario 2 describes", func() {
			b := []byte{0x09, 0x48, 0x69}
			mr := emptyMetadataReader()
			vr, err := variant.NewValueReader(mr, b)
			Expect(err).To(BeNil())
			Expect(vr.BasicType()).To(Equal(variant.BasicType_ShortString))
			s, err := vr.GetString()
			Expect(err).To(BeNil())
			Expect(s).To(Equal("Hi"))
		})
	})
})

func emptyMetadataReader() *variant.MetadataReader {
	mb := variant.NewMetadataBuilder()
	blob, _ := mb.Build()
	mr, _ := variant.NewMetadataReader(blob)
	return mr
}
