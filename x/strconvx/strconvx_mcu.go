//go:build rp2040 || rp2350

package strconvx

// Small integer parsers with strconv's signatures. Bases 2..36 only; base 0
// means 10 (no prefix detection). Out-of-range values are errors, as in
// strconv.

type numError string

func (e numError) Error() string { return "strconvx: " + string(e) }

const (
	errSyntax numError = "invalid syntax"
	errRange  numError = "value out of range"
)

func Atoi(s string) (int, error) {
	v, err := ParseInt(s, 10, 0)
	return int(v), err
}

func ParseInt(s string, base, bitSize int) (int64, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	u, err := ParseUint(s, base, 64)
	if err != nil {
		return 0, err
	}
	limit := uint64(1) << (bits(bitSize) - 1)
	if neg {
		if u > limit {
			return 0, errRange
		}
		return -int64(u), nil
	}
	if u >= limit {
		return 0, errRange
	}
	return int64(u), nil
}

func ParseUint(s string, base, bitSize int) (uint64, error) {
	if base == 0 {
		base = 10
	}
	if base < 2 || base > 36 || len(s) == 0 {
		return 0, errSyntax
	}
	n := bits(bitSize)
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'z':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'Z':
			d = c - 'A' + 10
		default:
			return 0, errSyntax
		}
		if int(d) >= base {
			return 0, errSyntax
		}
		if v > (^uint64(0)-uint64(d))/uint64(base) {
			return 0, errRange
		}
		v = v*uint64(base) + uint64(d)
	}
	if n < 64 && v >= 1<<n {
		return 0, errRange
	}
	return v, nil
}

func bits(bitSize int) uint {
	if bitSize <= 0 || bitSize > 64 {
		return 64
	}
	return uint(bitSize)
}
