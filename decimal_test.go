// Copyright (c) 2024 Neomantra Corp

package variant_test

import (
	"math/big"

	variant "github.com/NimbleMarkets/variant-go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decimal128 boundary", func() {
	It("reports 2^96-1 as fitting and 2^96 as not fitting", func() {
		maxFit := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))
		tooBig := new(big.Int).Lsh(big.NewInt(1), 96)
		Expect(variant.FitsDecimal96(maxFit)).To(BeTrue())
		Expect(variant.FitsDecimal96(tooBig)).To(BeFalse())
		Expect(variant.FitsDecimal96(new(big.Int).Neg(maxFit))).To(BeTrue())
		Expect(variant.FitsDecimal96(new(big.Int).Neg(tooBig))).To(BeFalse())
	})

	It("round-trips 2^96 as a Decimal16 per scenario 5", func() {
		unscaled := new(big.Int).Lsh(big.NewInt(1), 96)
		v := variant.NewDecimal16(0, unscaled)
		Expect(v.IsDecimal16Native()).To(BeFalse())

		metadata, value, err := variant.Encode(v)
		Expect(err).To(BeNil())
		mr, err := variant.NewMetadataReader(metadata)
		Expect(err).To(BeNil())
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())

		_, _, ok, err := vr.TryGetDecimal16Native96()
		Expect(err).To(BeNil())
		Expect(ok).To(BeFalse())

		scale, got, err := vr.GetDecimal16()
		Expect(err).To(BeNil())
		Expect(scale).To(Equal(uint8(0)))
		Expect(got.Cmp(unscaled)).To(Equal(0))
		Expect(variant.DecimalString(got, scale)).To(Equal("79228162514264337593543950336"))
	})

	It("round-trips a decimal with scale through FromDecimal auto-sizing", func() {
		small := variant.FromDecimal(2, big.NewInt(12345))
		Expect(small.Kind()).To(Equal(variant.Kind_Decimal4))

		mid := variant.FromDecimal(4, big.NewInt(1<<40))
		Expect(mid.Kind()).To(Equal(variant.Kind_Decimal8))

		big128 := new(big.Int).Lsh(big.NewInt(1), 100)
		large := variant.FromDecimal(3, big128)
		Expect(large.Kind()).To(Equal(variant.Kind_Decimal16))

		for _, v := range []*variant.VariantValue{small, mid, large} {
			metadata, value, err := variant.Encode(v)
			Expect(err).To(BeNil())
			mr, _ := variant.NewMetadataReader(metadata)
			vr, err := variant.NewValueReader(mr, value)
			Expect(err).To(BeNil())
			decoded, err := materializeDecimal(vr)
			Expect(err).To(BeNil())
			Expect(decoded.Equal(v)).To(BeTrue())
		}
	})

	It("rejects a scale beyond the legal maximum with ErrDecimalOverflow", func() {
		v := variant.NewDecimal4(39, 1)
		_, _, err := variant.Encode(v)
		Expect(err).To(MatchError(variant.ErrDecimalOverflow))
	})

	It("preserves a zero magnitude with a nonzero scale", func() {
		v := variant.NewDecimal8(5, 0)
		metadata, value, err := variant.Encode(v)
		Expect(err).To(BeNil())
		mr, _ := variant.NewMetadataReader(metadata)
		vr, err := variant.NewValueReader(mr, value)
		Expect(err).To(BeNil())
		scale, unscaled, err := vr.GetDecimal8()
		Expect(err).To(BeNil())
		Expect(scale).To(Equal(uint8(5)))
		Expect(unscaled).To(Equal(int64(0)))
	})
})

func materializeDecimal(vr *variant.ValueReader) (*variant.VariantValue, error) {
	tag, err := vr.Tag()
	if err != nil {
		return nil, err
	}
	switch tag {
	case variant.PrimitiveTag_Decimal4:
		scale, unscaled, err := vr.GetDecimal4()
		return variant.NewDecimal4(scale, unscaled), err
	case variant.PrimitiveTag_Decimal8:
		scale, unscaled, err := vr.GetDecimal8()
		return variant.NewDecimal8(scale, unscaled), err
	case variant.PrimitiveTag_Decimal16:
		scale, unscaled, err := vr.GetDecimal16()
		return variant.NewDecimal16(scale, unscaled), err
	default:
		return nil, variant.ErrUnsupportedPrimitive
	}
}
