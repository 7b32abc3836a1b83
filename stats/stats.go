// Package stats summarizes BF16 tensors stored in safetensors checkpoints.
//
// All reductions run on the bfloat16 software kernel rather than on
// float64, so the reported sums and means are what a bfloat16-only target
// would compute, truncation and all.
package stats

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/nlpodyssey/safetensors"
	"github.com/shogo82148/bfloat16"
)

// Summary holds per-tensor statistics.
type Summary struct {
	Name  string
	Count int // total elements
	Zeros int // ±0 elements
	NaNs  int
	Infs  int

	// Min, Max, Sum and Mean are over the finite elements only.
	// They are NaN when the tensor has no finite element.
	Min  bfloat16.BFloat16
	Max  bfloat16.BFloat16
	Sum  bfloat16.BFloat16
	Mean bfloat16.BFloat16

	// Field-value histograms, n-bits style.
	Signs     [2]int
	Exponents [256]int
	Mantissas [128]int
}

// Summarize computes the Summary of a single BF16 tensor view.
func Summarize(name string, tv safetensors.TensorView) (Summary, error) {
	if tv.DType() != safetensors.BF16 {
		return Summary{}, fmt.Errorf("stats: tensor %q has dtype %s, want BF16", name, tv.DType())
	}

	sum := Summary{
		Name: name,
		Min:  bfloat16.NaN(),
		Max:  bfloat16.NaN(),
		Sum:  bfloat16.NaN(),
		Mean: bfloat16.NaN(),
	}
	data := tv.Data()
	sum.Count = len(data) / 2

	total := bfloat16.BFloat16(0)
	finite := 0
	for i := 0; i < sum.Count; i++ {
		v := bfloat16.Frombits(binary.LittleEndian.Uint16(data[2*i:]))

		sign, exp, frac := v.Bits()>>15, v.Bits()>>7&0xFF, v.Bits()&0x7F
		sum.Signs[sign]++
		sum.Exponents[exp]++
		sum.Mantissas[frac]++

		switch {
		case v.IsNaN():
			sum.NaNs++
		case v.IsInf(0):
			sum.Infs++
		default:
			if v.IsZero() {
				sum.Zeros++
			}
			if finite == 0 {
				sum.Min, sum.Max = v, v
			} else {
				if v.Compare(sum.Min) < 0 {
					sum.Min = v
				}
				if v.Compare(sum.Max) > 0 {
					sum.Max = v
				}
			}
			total = total.Add(v)
			finite++
		}
	}

	if finite > 0 {
		sum.Sum = total
		sum.Mean = total.Quo(bfloat16.FromFloat64(float64(finite)))
	}
	return sum, nil
}

// File reads a safetensors file and summarizes every BF16 tensor in it.
// Tensors with other dtypes are skipped.
func File(path string) ([]Summary, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	st, err := safetensors.Deserialize(buf)
	if err != nil {
		return nil, fmt.Errorf("stats: deserialize %s: %w", path, err)
	}

	var out []Summary
	for _, t := range st.Tensors() {
		if t.TensorView.DType() != safetensors.BF16 {
			continue
		}
		s, err := Summarize(t.Name, t.TensorView)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
