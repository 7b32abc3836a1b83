package bfloat16

import (
	"math/bits"
	"strconv"

	"github.com/shogo82148/int128"
)

func (x BFloat16) String() string {
	return x.Text('g', -1)
}

// Text converts the floating-point number x to a string according to the
// given format and precision prec.
//
// The formats 'b' and 'x' render the exact bit pattern and ignore prec.
// The format 'f' renders the exact integral part of x, truncated toward
// zero; bfloat16 magnitudes reach 255·2^120, so this path works on 128-bit
// integers. All other formats delegate to [strconv.AppendFloat] on the
// float32 image of x, which represents x exactly.
func (x BFloat16) Text(fmt byte, prec int) string {
	return string(x.Append(make([]byte, 0, 16), fmt, prec))
}

// Append appends the string form of x, as generated by [BFloat16.Text],
// to buf and returns the extended buffer.
func (x BFloat16) Append(buf []byte, fmt byte, prec int) []byte {
	switch {
	case x.IsNaN():
		return append(buf, "NaN"...)
	case x == uvinf:
		return append(buf, "+Inf"...)
	case x == uvneginf:
		return append(buf, "-Inf"...)
	}

	switch fmt {
	case 'b':
		return x.appendBin(buf)
	case 'f':
		return x.appendFixed(buf)
	case 'x', 'X':
		return x.appendHex(buf, fmt)
	}
	return strconv.AppendFloat(buf, x.Float64(), fmt, prec, 32)
}

// appendBin writes the 'b' format: decimal mantissa, 'p', decimal binary
// exponent, e.g. 1.0 => "128p-7".
func (x BFloat16) appendBin(buf []byte) []byte {
	if x&signMask16 != 0 {
		buf = append(buf, '-')
	}
	exp := int(x>>shift16&mask16) - bias16
	frac := x & fracMask16

	if exp == -bias16 {
		exp++
	} else {
		frac |= 1 << shift16
	}
	exp -= shift16

	buf = strconv.AppendUint(buf, uint64(frac), 10)
	buf = append(buf, 'p')
	if exp >= 0 {
		buf = append(buf, '+')
	}
	return strconv.AppendInt(buf, int64(exp), 10)
}

// appendFixed writes the integral part of x exactly, truncated toward zero.
func (x BFloat16) appendFixed(buf []byte) []byte {
	if x&signMask16 != 0 {
		buf = append(buf, '-')
	}
	_, exp, frac := x.split()
	mant := uint64(frac)
	e := int(exp) - bias16 - shift16
	if exp != 0 {
		mant |= 1 << shift16
	} else {
		e = 1 - bias16 - shift16
	}

	var v int128.Uint128
	switch {
	case e >= 0:
		v = int128.Uint128{L: mant}.Lsh(uint(e))
	case e > -64:
		v = int128.Uint128{L: mant >> uint(-e)}
	}

	// decimal digits, least significant first
	ten := int128.Uint128{L: 10}
	var digits [40]byte
	i := len(digits)
	for {
		var mod int128.Uint128
		v, mod = v.DivMod(ten)
		i--
		digits[i] = byte(mod.L) + '0'
		if v == (int128.Uint128{}) {
			break
		}
	}
	return append(buf, digits[i:]...)
}

const (
	lowerhex = "0123456789abcdef"
	upperhex = "0123456789ABCDEF"
)

// appendHex writes the exact hexadecimal form of x, e.g. 1.5 => "0x1.8p+00".
func (x BFloat16) appendHex(buf []byte, fmt byte) []byte {
	hex := lowerhex
	if fmt == 'X' {
		hex = upperhex
	}

	if x&signMask16 != 0 {
		buf = append(buf, '-')
	}
	buf = append(buf, '0', fmt)

	_, exp, frac := x.split()
	e := int(exp) - bias16
	if exp == 0 {
		if frac == 0 {
			buf = append(buf, '0', 'p', '+', '0', '0')
			return buf
		}
		// normalize the subnormal so it prints as 1.xxx
		l := bits.Len32(uint32(frac))
		frac = frac << uint(shift16-l+1) & fracMask16
		e = l - (bias16 + shift16)
	}

	buf = append(buf, '1')
	if frac != 0 {
		h := frac << 1 // 7 fraction bits, as two hex digits
		buf = append(buf, '.', hex[h>>4])
		if h&0xF != 0 {
			buf = append(buf, hex[h&0xF])
		}
	}

	buf = append(buf, 'p')
	if e >= 0 {
		buf = append(buf, '+')
	} else {
		buf = append(buf, '-')
		e = -e
	}
	if e < 10 {
		buf = append(buf, '0')
	}
	return strconv.AppendInt(buf, int64(e), 10)
}

// lower(c) is a lower-case letter if and only if
// c is either that lower-case letter or the equivalent upper-case letter.
func lower(c byte) byte {
	return c | ('x' - 'X')
}

// commonPrefixLenIgnoreCase returns the length of the common
// prefix of s and prefix, with the character case of s ignored.
// The prefix argument must be all lower-case.
func commonPrefixLenIgnoreCase(s, prefix string) int {
	n := min(len(prefix), len(s))
	for i := 0; i < n; i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != prefix[i] {
			return i
		}
	}
	return n
}

// special matches the spellings of infinities and NaN.
func special(s string) (f BFloat16, ok bool) {
	if len(s) == 0 {
		return 0, false
	}

	sign := 1
	switch s[0] {
	case '+', '-':
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	switch {
	case len(s) > 0 && lower(s[0]) == 'i':
		n := commonPrefixLenIgnoreCase(s, "infinity")
		if n == 3 && len(s) == 3 || n == 8 && len(s) == 8 {
			return Inf(sign), true
		}
	case sign > 0 && commonPrefixLenIgnoreCase(s, "nan") == 3 && len(s) == 3:
		return NaN(), true
	}
	return 0, false
}

// Parse converts the string s to a bfloat16 value, rounding to nearest
// even. It accepts the same syntax as [strconv.ParseFloat] plus the usual
// special spellings ("Inf", "-Infinity", "NaN", case-insensitive).
func Parse(s string) (BFloat16, error) {
	if f, ok := special(s); ok {
		return f, nil
	}
	f, err := strconv.ParseFloat(s, 32)
	// keep strconv's contract: on ErrRange f is the nearest representable
	// value (±Inf or ±0) and is returned along with the error
	return FromFloat32(float32(f)), err
}
