package bfloat16

// The arithmetic in this file mirrors a soft-float kernel written for a
// target without multiply/divide hardware. Renormalization truncates low
// bits instead of rounding to nearest even, and addition discards an
// operand outright when the exponents differ by more than 8. Changing
// either would change result patterns; both are part of the contract.

// clz32 returns the number of leading zero bits in x; 32 when x is 0.
func clz32(x uint32) int {
	n := 32
	for c := 16; c != 0; c >>= 1 {
		if y := x >> uint(c); y != 0 {
			n -= c
			x = y
		}
	}
	return n - int(x)
}

// Add returns the sum of a and b.
//
// Special cases are:
//
//	NaN + anything = the NaN operand (first one, left to right)
//	±Inf + ∓Inf = NaN
//	±Inf + x = ±Inf
//	±0 + x = x
func (a BFloat16) Add(b BFloat16) BFloat16 {
	ca, cb := a.Classify(), b.Classify()
	switch {
	case ca == ClassNaN:
		return a
	case cb == ClassNaN:
		return b
	case ca == ClassInf:
		if cb == ClassInf && (a^b)&signMask16 != 0 {
			return uvnan
		}
		return a
	case cb == ClassInf:
		return b
	case ca == ClassZero:
		return b
	case cb == ClassZero:
		return a
	}

	signA, expA, fracA := a.split()
	signB, expB, fracB := b.split()

	mantA, mantB := uint32(fracA), uint32(fracB)
	if expA != 0 {
		mantA |= 1 << shift16
	}
	if expB != 0 {
		mantB |= 1 << shift16
	}

	// Align on the smaller exponent. The larger operand's mantissa is
	// widened left so the smaller one keeps its low bits until the final
	// truncation. Past 8 positions the smaller operand cannot contribute
	// a single mantissa bit and the larger one is returned as-is.
	exp := int32(expA)
	switch d := int32(expA) - int32(expB); {
	case d > 0:
		if d > 8 {
			return a
		}
		exp = int32(expB)
		mantA <<= uint(d)
	case d < 0:
		if d < -8 {
			return b
		}
		mantB <<= uint(-d)
	}

	if signA == signB {
		mant := mantA + mantB
		// bring the mantissa back into the 8-bit window
		for n := 24 - clz32(mant); n > 0; n-- {
			mant >>= 1
			if exp++; exp >= mask16 {
				return uvnan
			}
		}
		return pack(signA, exp, mant)
	}

	sign, mant := signA, mantA-mantB
	if mantA < mantB {
		sign, mant = signB, mantB-mantA
	}
	if mant == 0 {
		return 0
	}
	if mant < 1<<shift16 {
		// cancellation: shift the leading bit back up
		for mant&(1<<shift16) == 0 {
			mant <<= 1
			if exp--; exp <= 0 {
				return 0
			}
		}
	} else {
		for n := 24 - clz32(mant); n > 0; n-- {
			mant >>= 1
			if exp++; exp >= mask16 {
				return uvnan
			}
		}
	}
	return pack(sign, exp, mant)
}

// Sub returns the difference a - b.
func (a BFloat16) Sub(b BFloat16) BFloat16 {
	return a.Add(b ^ signMask16)
}

// Mul returns the product of a and b.
//
// Special cases are, checked in order:
//
//	NaN * x = NaN
//	±Inf * ±0 = NaN
//	±Inf * x = ±Inf (sign by xor)
//	±0 * x = ±0 (sign by xor)
//
// The left operand is classified first, matching the reference kernel,
// so ±Inf * NaN yields an infinity.
func (a BFloat16) Mul(b BFloat16) BFloat16 {
	signA, expA, fracA := a.split()
	signB, expB, fracB := b.split()
	sign := signA ^ signB

	ca, cb := a.Classify(), b.Classify()
	switch {
	case ca == ClassNaN:
		return a
	case ca == ClassInf:
		if cb == ClassZero {
			return uvnan
		}
		return BFloat16(sign)<<15 | uvinf
	case cb == ClassNaN:
		return b
	case cb == ClassInf:
		if ca == ClassZero {
			return uvnan
		}
		return BFloat16(sign)<<15 | uvinf
	case ca == ClassZero || cb == ClassZero:
		return BFloat16(sign) << 15
	}

	// normalize subnormal operands, tracking the exponent correction
	var adjust int32
	mantA, mantB := uint32(fracA), uint32(fracB)
	eA, eB := int32(expA), int32(expB)
	if expA == 0 {
		for mantA&(1<<shift16) == 0 {
			mantA <<= 1
			adjust--
		}
		eA = 1
	} else {
		mantA |= 1 << shift16
	}
	if expB == 0 {
		for mantB&(1<<shift16) == 0 {
			mantB <<= 1
			adjust--
		}
		eB = 1
	} else {
		mantB |= 1 << shift16
	}

	mant := mantA * mantB
	exp := eA + eB - bias16 + adjust

	if mant&(1<<15) != 0 {
		// carry into the next binade
		mant = (mant >> (shift16 + 1)) & fracMask16
		exp++
	} else {
		mant = (mant >> shift16) & fracMask16
	}

	if exp >= mask16 {
		return BFloat16(sign)<<15 | uvinf
	}
	if exp <= 0 {
		if exp < -6 {
			return BFloat16(sign) << 15
		}
		mant >>= uint(1 - exp)
		exp = 0
	}
	return pack(sign, exp, mant)
}

// Quo returns the quotient a / b.
//
// Special cases are:
//
//	x / NaN = NaN
//	±Inf / ±Inf = NaN
//	x / ±Inf = ±0 (sign by xor)
//	±0 / ±0 = NaN
//	x / ±0 = ±Inf (sign by xor)
//	NaN / x = NaN
//	±Inf / x = ±Inf (sign by xor)
//	±0 / x = ±0 (sign by xor)
//
// The divisor is classified first, matching the reference kernel.
func (a BFloat16) Quo(b BFloat16) BFloat16 {
	signA, expA, fracA := a.split()
	signB, expB, fracB := b.split()
	sign := signA ^ signB

	ca, cb := a.Classify(), b.Classify()
	switch {
	case cb == ClassNaN:
		return b
	case cb == ClassInf:
		if ca == ClassInf {
			return uvnan
		}
		return BFloat16(sign) << 15
	case cb == ClassZero:
		if ca == ClassZero {
			return uvnan
		}
		return BFloat16(sign)<<15 | uvinf
	case ca == ClassNaN:
		return a
	case ca == ClassInf:
		return BFloat16(sign)<<15 | uvinf
	case ca == ClassZero:
		return BFloat16(sign) << 15
	}

	mantA, mantB := uint32(fracA), uint32(fracB)
	if expA != 0 {
		mantA |= 1 << shift16
	}
	if expB != 0 {
		mantB |= 1 << shift16
	}

	// 16-step restoring long division of the mantissas
	dividend := mantA << 15
	divisor := mantB
	var quotient uint32
	for i := 0; i < 16; i++ {
		quotient <<= 1
		if d := divisor << uint(15-i); dividend >= d {
			dividend -= d
			quotient |= 1
		}
	}

	exp := int32(expA) - int32(expB) + bias16
	if expA == 0 {
		exp--
	}
	if expB == 0 {
		exp++
	}

	if quotient&(1<<15) != 0 {
		quotient >>= 8
	} else {
		for quotient&(1<<15) == 0 && exp > 1 {
			quotient <<= 1
			exp--
		}
		quotient >>= 8
	}
	quotient &= fracMask16

	if exp >= mask16 {
		return BFloat16(sign)<<15 | uvinf
	}
	if exp <= 0 {
		return BFloat16(sign) << 15
	}
	return pack(sign, exp, quotient)
}

// Compare compares a and b and returns:
//
//	-1 if a <  b
//	 0 if a == b (incl. -0 == 0, -Inf == -Inf, and +Inf == +Inf)
//	+1 if a >  b
//
// a NaN is considered less than any non-NaN, and two NaNs are equal.
func (a BFloat16) Compare(b BFloat16) int {
	aNaN := a.IsNaN()
	bNaN := b.IsNaN()
	if aNaN && bNaN {
		return 0
	}
	if aNaN {
		return -1
	}
	if bNaN {
		return 1
	}

	ia := int16(a) ^ ((int16(a) >> 15) & 0x7fff)
	ia += int16(a >> 15)
	ib := int16(b) ^ ((int16(b) >> 15) & 0x7fff)
	ib += int16(b >> 15)
	if ia < ib {
		return -1
	}
	if ia > ib {
		return 1
	}
	return 0
}
