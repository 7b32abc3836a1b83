// Package bfloat16 implements bfloat16 (brain floating point) arithmetic
// entirely in integer operations, the way a soft-float runtime for a
// processor without floating-point hardware would.
//
// The four arithmetic operations use truncating renormalization rather than
// IEEE 754 round-to-nearest-even. This is deliberate: the package is
// bit-for-bit compatible with a soft-float kernel that trades the last unit
// of precision for simplicity, and the exact result patterns are part of its
// contract. Conversions to and from float32/float64 are exact or correctly
// rounded as documented on each function.
package bfloat16

import "math"

// BFloat16 is a bfloat16 value represented by its IEEE-style bit pattern:
// 1 sign bit, 8 exponent bits (bias 127), 7 mantissa bits.
type BFloat16 uint16

const (
	uvnan    = 0x7FC0 // canonical quiet NaN
	uvinf    = 0x7F80
	uvneginf = 0xFF80

	signMask16 = 0x8000
	expMask16  = 0x7F80
	fracMask16 = 0x007F

	shift16 = 7
	mask16  = 0xFF
	bias16  = 127
)

// Class describes which of the five value categories a pattern falls into.
type Class int

const (
	ClassZero Class = iota
	ClassSubnormal
	ClassNormal
	ClassInf
	ClassNaN
)

func (c Class) String() string {
	switch c {
	case ClassZero:
		return "Zero"
	case ClassSubnormal:
		return "Subnormal"
	case ClassNormal:
		return "Normal"
	case ClassInf:
		return "Inf"
	case ClassNaN:
		return "NaN"
	}
	return "Unknown"
}

// Classify returns the category of f.
func (f BFloat16) Classify() Class {
	exp := f & expMask16
	frac := f & fracMask16
	switch {
	case exp == expMask16 && frac != 0:
		return ClassNaN
	case exp == expMask16:
		return ClassInf
	case exp == 0 && frac == 0:
		return ClassZero
	case exp == 0:
		return ClassSubnormal
	}
	return ClassNormal
}

// split unpacks the three bit fields of f.
// sign is 0 or 1, exp and frac are the raw biased fields.
func (f BFloat16) split() (sign, exp, frac uint16) {
	sign = uint16(f>>15) & 1
	exp = uint16(f>>shift16) & mask16
	frac = uint16(f) & fracMask16
	return
}

// pack is the inverse of split. exp and frac are masked to their field
// widths; callers clamp the exponent before packing.
func pack(sign uint16, exp int32, frac uint32) BFloat16 {
	return BFloat16(sign)<<15 | BFloat16(uint32(exp)&mask16)<<shift16 | BFloat16(frac&fracMask16)
}

// NaN returns the canonical quiet NaN pattern.
func NaN() BFloat16 { return uvnan }

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf(sign int) BFloat16 {
	if sign >= 0 {
		return uvinf
	}
	return uvneginf
}

// Frombits returns the value corresponding to the bit pattern b.
func Frombits(b uint16) BFloat16 { return BFloat16(b) }

// Bits returns the bit pattern of f.
func (f BFloat16) Bits() uint16 { return uint16(f) }

// IsNaN reports whether f is a NaN, canonical or not.
func (f BFloat16) IsNaN() bool {
	return f&expMask16 == expMask16 && f&fracMask16 != 0
}

// IsInf reports whether f is an infinity, according to sign.
// If sign > 0, IsInf reports whether f is positive infinity.
// If sign < 0, IsInf reports whether f is negative infinity.
// If sign == 0, IsInf reports whether f is either infinity.
func (f BFloat16) IsInf(sign int) bool {
	return sign >= 0 && f == uvinf || sign <= 0 && f == uvneginf
}

// IsZero reports whether f is +0 or -0.
func (f BFloat16) IsZero() bool { return f&^signMask16 == 0 }

// Signbit reports whether f is negative or negative zero.
func (f BFloat16) Signbit() bool { return f&signMask16 != 0 }

// Neg returns f with its sign bit flipped.
func (f BFloat16) Neg() BFloat16 { return f ^ signMask16 }

// Abs returns f with its sign bit cleared.
func (f BFloat16) Abs() BFloat16 { return f &^ signMask16 }

// Float32 returns the float32 represented by the same value as f.
// The conversion is exact: bfloat16 is the upper half of binary32.
func (f BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(f) << 16)
}

// Float64 returns the float64 representation of f. The conversion is exact.
func (f BFloat16) Float64() float64 {
	return float64(f.Float32())
}

// FromFloat32 converts f to BFloat16, rounding to nearest even.
// NaN inputs are quieted; their upper payload bits are kept.
func FromFloat32(f float32) BFloat16 {
	b := math.Float32bits(f)
	if b&0x7FFFFFFF > 0x7F800000 {
		// NaN; set the quiet bit
		return BFloat16(b>>16) | 0x0040
	}
	b += 0x7FFF + (b >> 16 & 1)
	return BFloat16(b >> 16)
}

// FromFloat64 converts f to BFloat16, rounding to nearest even.
func FromFloat64(f float64) BFloat16 {
	return FromFloat32(float32(f))
}
