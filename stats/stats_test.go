package stats

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/nlpodyssey/safetensors"
	"github.com/shogo82148/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bf16Data(bits ...uint16) []byte {
	buf := make([]byte, 2*len(bits))
	for i, b := range bits {
		binary.LittleEndian.PutUint16(buf[2*i:], b)
	}
	return buf
}

// 1.0, 2.0, 0, NaN, +Inf, -1.5
var sample = []uint16{0x3F80, 0x4000, 0x0000, 0x7FC0, 0x7F80, 0xBFC0}

func TestSummarize(t *testing.T) {
	tv, err := safetensors.NewTensorView(safetensors.BF16, []uint64{6}, bf16Data(sample...))
	require.NoError(t, err)

	s, err := Summarize("w", tv)
	require.NoError(t, err)

	assert.Equal(t, "w", s.Name)
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 1, s.Zeros)
	assert.Equal(t, 1, s.NaNs)
	assert.Equal(t, 1, s.Infs)
	assert.Equal(t, bfloat16.BFloat16(0xBFC0), s.Min)
	assert.Equal(t, bfloat16.BFloat16(0x4000), s.Max)
	assert.Equal(t, bfloat16.BFloat16(0x3FC0), s.Sum)  // 1.5
	assert.Equal(t, bfloat16.BFloat16(0x3EC0), s.Mean) // 1.5/4

	assert.Equal(t, 5, s.Signs[0])
	assert.Equal(t, 1, s.Signs[1])
	assert.Equal(t, 1, s.Exponents[0])
	assert.Equal(t, 2, s.Exponents[127])
	assert.Equal(t, 1, s.Exponents[128])
	assert.Equal(t, 2, s.Exponents[255])
	assert.Equal(t, 4, s.Mantissas[0])
	assert.Equal(t, 2, s.Mantissas[0x40])
}

func TestSummarizeEmpty(t *testing.T) {
	tv, err := safetensors.NewTensorView(safetensors.BF16, []uint64{0, 3}, nil)
	require.NoError(t, err)

	s, err := Summarize("empty", tv)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
	assert.True(t, s.Min.IsNaN())
	assert.True(t, s.Mean.IsNaN())
}

func TestSummarizeWrongDType(t *testing.T) {
	tv, err := safetensors.NewTensorView(safetensors.F32, []uint64{1}, make([]byte, 4))
	require.NoError(t, err)

	_, err = Summarize("w", tv)
	assert.ErrorContains(t, err, "dtype")
}

func TestFile(t *testing.T) {
	weights, err := safetensors.NewTensorView(safetensors.BF16, []uint64{6}, bf16Data(sample...))
	require.NoError(t, err)
	// non-BF16 tensors are skipped
	scale, err := safetensors.NewTensorView(safetensors.F32, []uint64{1}, make([]byte, 4))
	require.NoError(t, err)

	buf, err := safetensors.Serialize(map[string]safetensors.TensorView{
		"weights": weights,
		"scale":   scale,
	}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.safetensors")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	summaries, err := File(path)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "weights", summaries[0].Name)
	assert.Equal(t, 6, summaries[0].Count)

	_, err = File(filepath.Join(t.TempDir(), "missing.safetensors"))
	assert.Error(t, err)
}
