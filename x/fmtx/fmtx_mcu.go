//go:build rp2040

package fmtx

import "io"

// Tiny formatter subset for MCU builds: %s, %d, %u, %x, %v and %%.
// No width/precision flags; unknown verbs print verbatim.

func Sprintf(format string, a ...any) string {
	var buf []byte
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			buf = append(buf, c)
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			buf = append(buf, '%')
			continue
		}
		if ai >= len(a) {
			buf = append(buf, '%', verb)
			continue
		}
		buf = appendAny(buf, a[ai], verb)
		ai++
	}
	return string(buf)
}

func Printf(format string, a ...any) (int, error) {
	s := Sprintf(format, a...)
	print(s)
	return len(s), nil
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return w.Write([]byte(Sprintf(format, a...)))
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

func appendAny(buf []byte, v any, verb byte) []byte {
	switch x := v.(type) {
	case string:
		return append(buf, x...)
	case error:
		return append(buf, x.Error()...)
	case bool:
		if x {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case int:
		return appendInt(buf, int64(x), verb)
	case int8:
		return appendInt(buf, int64(x), verb)
	case int16:
		return appendInt(buf, int64(x), verb)
	case int32:
		return appendInt(buf, int64(x), verb)
	case int64:
		return appendInt(buf, x, verb)
	case uint:
		return appendUint(buf, uint64(x), verb)
	case uint8:
		return appendUint(buf, uint64(x), verb)
	case uint16:
		return appendUint(buf, uint64(x), verb)
	case uint32:
		return appendUint(buf, uint64(x), verb)
	case uint64:
		return appendUint(buf, x, verb)
	default:
		return append(buf, '?')
	}
}

func appendInt(buf []byte, v int64, verb byte) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	return appendUint(buf, uint64(v), verb)
}

func appendUint(buf []byte, v uint64, verb byte) []byte {
	base := uint64(10)
	if verb == 'x' || verb == 'X' {
		base = 16
	}
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		d := byte(v % base)
		if d < 10 {
			tmp[i] = '0' + d
		} else if verb == 'X' {
			tmp[i] = 'A' + d - 10
		} else {
			tmp[i] = 'a' + d - 10
		}
		v /= base
		if v == 0 {
			break
		}
	}
	return append(buf, tmp[i:]...)
}
