// Copyright (c) 2024 Neomantra Corp
//
// Decimal4/Decimal8 are native-width signed decimals. Decimal16 needs a
// 128-bit two's-complement magnitude, beyond any native Go integer; this
// file supplies that conversion plus decimal-string formatting for the
// JSON writer. No third-party arbitrary-precision decimal library
// appears in the retrieved example pack (checked across every go.mod
// and go.sum under _examples/), so this one component is built directly
// on the standard library's math/big.

package variant

import (
	"math/big"
)

var (
	decimal128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)
	decimal128MaxPos  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	decimal128MinNeg  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	decimal96Limit    = new(big.Int).Lsh(big.NewInt(1), 96) // exclusive bound on |unscaled|
)

// FitsDecimal96 reports whether unscaled's magnitude fits within 96 bits,
// i.e. whether it can be carried as a "native" 96-bit decimal rather than
// needing the arbitrary-precision storage flavor.
func FitsDecimal96(unscaled *big.Int) bool {
	abs := new(big.Int).Abs(unscaled)
	return abs.Cmp(decimal96Limit) < 0
}

// encodeDecimal16Unscaled packs unscaled as 16 little-endian two's
// complement bytes. unscaled must fit in the signed 128-bit range.
func encodeDecimal16Unscaled(unscaled *big.Int) ([16]byte, error) {
	var out [16]byte
	if unscaled.Cmp(decimal128MaxPos) > 0 || unscaled.Cmp(decimal128MinNeg) < 0 {
		return out, malformedf("decimal unscaled value does not fit in 128 bits")
	}
	v := unscaled
	if unscaled.Sign() < 0 {
		v = new(big.Int).Add(decimal128Modulus, unscaled)
	}
	be := v.Bytes() // big-endian, no leading zero byte beyond what's significant
	// Right-align into a 16-byte big-endian buffer, then reverse to LE.
	var beBuf [16]byte
	copy(beBuf[16-len(be):], be)
	for i := 0; i < 16; i++ {
		out[i] = beBuf[15-i]
	}
	return out, nil
}

// decodeDecimal16Unscaled unpacks 16 little-endian two's complement bytes
// into a signed big.Int.
func decodeDecimal16Unscaled(b []byte) (*big.Int, error) {
	if len(b) < 16 {
		return nil, unexpectedBytesError(len(b), 16)
	}
	var beBuf [16]byte
	for i := 0; i < 16; i++ {
		beBuf[i] = b[15-i]
	}
	v := new(big.Int).SetBytes(beBuf[:])
	if beBuf[0]&0x80 != 0 {
		v.Sub(v, decimal128Modulus)
	}
	return v, nil
}

// DecimalString renders unscaled/scale as a plain decimal-string literal
// (no exponent), the form the JSON writer uses for Decimal16 values whose
// magnitude exceeds 96 bits.
func DecimalString(unscaled *big.Int, scale uint8) string {
	neg := unscaled.Sign() < 0
	digits := new(big.Int).Abs(unscaled).String()
	s := int(scale)
	if s == 0 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	for len(digits) <= s {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-s]
	fracPart := digits[len(digits)-s:]
	out := intPart + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
