// Command bf16 exercises the bfloat16 software arithmetic kernel from the
// command line. It evaluates single operations on bit patterns or decimal
// values, replays the kernel's fixed self-test vectors, and summarizes BF16
// tensors stored in safetensors files.
//
// Usage:
//
//	bf16 -op add 0x3F80 0x3F80
//	bf16 -op quo -bits 6 2
//	bf16 -op sqrt 2.0
//	bf16 -selftest
//	bf16 -stats model.safetensors
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/shogo82148/bfloat16"
	"github.com/shogo82148/bfloat16/stats"
)

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorableStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

// parseOperand accepts either a raw bit pattern ("0x3F80") or a decimal
// value ("1.5", "Inf", "NaN").
func parseOperand(s string) (bfloat16.BFloat16, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		bits, err := strconv.ParseUint(s[2:], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid bit pattern %q: %w", s, err)
		}
		return bfloat16.Frombits(uint16(bits)), nil
	}
	return bfloat16.Parse(s)
}

func printResult(r bfloat16.BFloat16, bitsOnly bool) {
	if bitsOnly {
		fmt.Printf("0x%04X\n", r.Bits())
		return
	}
	fmt.Printf("0x%04X\t%v\t%v\n", r.Bits(), r, r.Classify())
}

// selftest replays the fixed vectors the original memory-mapped harness
// wrote to its checker.
func selftest() error {
	vectors := []struct {
		name string
		got  bfloat16.BFloat16
		want bfloat16.BFloat16
	}{
		{"add 1.0+1.0", bfloat16.Frombits(0x3F80).Add(0x3F80), 0x4000},
		{"sub 3.0-2.0", bfloat16.Frombits(0x4040).Sub(0x4000), 0x3F80},
		{"mul 2.0*3.0", bfloat16.Frombits(0x4000).Mul(0x4040), 0x40C0},
		{"quo 6.0/2.0", bfloat16.Frombits(0x40C0).Quo(0x4000), 0x4040},
	}
	failed := 0
	for _, v := range vectors {
		if v.got != v.want {
			slog.Error("selftest", "case", v.name, "got", fmt.Sprintf("0x%04X", v.got.Bits()), "want", fmt.Sprintf("0x%04X", v.want.Bits()))
			failed++
			continue
		}
		slog.Debug("selftest", "case", v.name, "result", fmt.Sprintf("0x%04X", v.got.Bits()))
	}
	if !bfloat16.Frombits(0x0000).IsZero() || !bfloat16.NaN().IsNaN() || !bfloat16.Frombits(0x7F80).IsInf(1) {
		slog.Error("selftest", "case", "predicates")
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("%d self-test case(s) failed", failed)
	}
	fmt.Println("ok")
	return nil
}

func summarize(path string) error {
	summaries, err := stats.File(path)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Printf("%s\tn=%d zeros=%d nans=%d infs=%d min=%v max=%v mean=%v\n",
			s.Name, s.Count, s.Zeros, s.NaNs, s.Infs, s.Min, s.Max, s.Mean)
	}
	return nil
}

func mainImpl() error {
	op := flag.String("op", "", "operation to evaluate: add, sub, mul, quo or sqrt")
	bitsOnly := flag.Bool("bits", false, "print only the raw result bit pattern")
	runSelftest := flag.Bool("selftest", false, "run the kernel's fixed test vectors")
	statsFile := flag.String("stats", "", "summarize the BF16 tensors of a safetensors file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()
	setupLogging(*verbose)

	switch {
	case *runSelftest:
		return selftest()
	case *statsFile != "":
		return summarize(*statsFile)
	case *op != "":
	default:
		flag.Usage()
		return fmt.Errorf("one of -op, -selftest or -stats is required")
	}

	want := 2
	if *op == "sqrt" {
		want = 1
	}
	args := flag.Args()
	if len(args) != want {
		return fmt.Errorf("operation %q takes %d operand(s), got %d", *op, want, len(args))
	}
	a, err := parseOperand(args[0])
	if err != nil {
		return err
	}
	var b bfloat16.BFloat16
	if want == 2 {
		if b, err = parseOperand(args[1]); err != nil {
			return err
		}
	}

	var r bfloat16.BFloat16
	switch *op {
	case "add":
		r = a.Add(b)
	case "sub":
		r = a.Sub(b)
	case "mul":
		r = a.Mul(b)
	case "quo", "div":
		r = a.Quo(b)
	case "sqrt":
		r = a.Sqrt()
	default:
		return fmt.Errorf("unknown operation %q", *op)
	}
	printResult(r, *bitsOnly)
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bf16: %s\n", err)
		os.Exit(1)
	}
}
