package main

import (
	"testing"

	"github.com/shogo82148/bfloat16"
)

func TestParseOperand(t *testing.T) {
	tests := []struct {
		s string
		f bfloat16.BFloat16
	}{
		{"0x3F80", 0x3F80},
		{"0XBFC0", 0xBFC0},
		{"1.5", 0x3FC0},
		{"-2", 0xC000},
		{"inf", 0x7F80},
		{"NaN", 0x7FC0},
	}
	for _, tt := range tests {
		got, err := parseOperand(tt.s)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.s, err)
			continue
		}
		if got != tt.f {
			t.Errorf("%q: expected 0x%04X, got 0x%04X", tt.s, tt.f.Bits(), got.Bits())
		}
	}

	for _, s := range []string{"0xGG", "0x12345", "abc", ""} {
		if _, err := parseOperand(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestSelftest(t *testing.T) {
	if err := selftest(); err != nil {
		t.Errorf("selftest failed: %v", err)
	}
}
