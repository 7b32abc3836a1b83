package bfloat16

import "fmt"

var _ fmt.Formatter = BFloat16(0)

// Format implements [fmt.Formatter].
// It supports the verbs 'b', 'e', 'E', 'f', 'g', 'G', 'x', 'X' and 'v',
// along with width, the '+' and ' ' flags, and '-' for left alignment.
func (x BFloat16) Format(s fmt.State, verb rune) {
	var data []byte
	switch {
	case x.IsNaN():
		data = []byte("NaN")
	case x == uvinf:
		data = []byte("+Inf")
	case x == uvneginf:
		data = []byte("-Inf")
	default:
		switch verb {
		case 'b', 'e', 'E', 'f', 'g', 'G', 'x', 'X', 'v':
		default:
			fmt.Fprintf(s, "%%!%c(bfloat16.BFloat16=%s)", verb, x.Text('g', -1))
			return
		}

		var prefix []byte
		if x&signMask16 != 0 {
			prefix = append(prefix, '-')
			x &^= signMask16
		} else if s.Flag('+') {
			prefix = append(prefix, '+')
		} else if s.Flag(' ') {
			prefix = append(prefix, ' ')
		}

		prec := -1
		if p, ok := s.Precision(); ok {
			prec = p
		}
		if verb == 'v' {
			verb = 'g'
		}
		data = x.Append(data, byte(verb), prec)
		data = append(prefix, data...)
	}

	if w, ok := s.Width(); ok && len(data) < w {
		pad := make([]byte, w-len(data))
		for i := range pad {
			pad[i] = ' '
		}
		if s.Flag('-') {
			s.Write(data)
			s.Write(pad)
		} else {
			s.Write(pad)
			s.Write(data)
		}
		return
	}
	s.Write(data)
}
