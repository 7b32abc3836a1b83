package bfloat16

import (
	"runtime"
	"testing"
)

func TestSqrt(t *testing.T) {
	tests := []struct {
		x, y BFloat16
	}{
		// special cases
		{0x0000, 0x0000},
		{0x8000, 0x8000},
		{0x7F80, 0x7F80},
		{0xBF80, 0x7FC0}, // sqrt of a negative is NaN
		{0x7FC1, 0x7FC1},

		// exact squares
		{0x3F80, 0x3F80}, // sqrt(1) = 1
		{0x4080, 0x4000}, // sqrt(4) = 2
		{0x4110, 0x4040}, // sqrt(9) = 3
		{0x3E80, 0x3F00}, // sqrt(0.25) = 0.5
		{0x0080, 0x2000}, // sqrt(2^-126) = 2^-63

		// inexact results
		{0x4000, 0x3FB5}, // sqrt(2)
		{0x4040, 0x3FDE}, // sqrt(3)
		{0x0040, 0x1FB5}, // sqrt(2^-127)
	}
	for _, tt := range tests {
		got := tt.x.Sqrt()
		if got.IsNaN() && tt.y.IsNaN() {
			continue
		}
		if got != tt.y {
			t.Errorf("sqrt(0x%04X): expected 0x%04X, got 0x%04X", tt.x.Bits(), tt.y.Bits(), got.Bits())
		}
	}
}

// the square root is monotone, so rounding it must be too.
func TestSqrtMonotone(t *testing.T) {
	prev := BFloat16(0).Sqrt()
	for b := 1; b < 0x7F80; b++ {
		cur := BFloat16(b).Sqrt()
		if cur.Compare(prev) < 0 {
			t.Fatalf("sqrt(0x%04X) < sqrt(0x%04X)", b, b-1)
		}
		prev = cur
	}
}

func BenchmarkSqrt(b *testing.B) {
	x := BFloat16(0x4049)
	for i := 0; i < b.N; i++ {
		runtime.KeepAlive(x.Sqrt())
	}
}
