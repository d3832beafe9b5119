// Package conv appends decimal text to byte slices without fmt or strconv,
// so formatting on the MCU stays allocation free when dst has room.
package conv

// AppendUint appends the base-10 form of n.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// AppendInt appends the base-10 form of n with a leading '-' when negative.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		// uint64(-n) is correct for math.MinInt64 as well.
		return AppendUint(append(dst, '-'), uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendCenti appends a hundredths value with one decimal place, rounded
// half away from zero: 2050 -> "20.5", 2249 -> "22.5", -53 -> "-0.5".
// A value that rounds to zero never carries a sign.
func AppendCenti(dst []byte, centi int64) []byte {
	u := uint64(centi)
	if centi < 0 {
		u = uint64(-centi)
	}
	tenths := (u + 5) / 10
	if centi < 0 && tenths != 0 {
		dst = append(dst, '-')
	}
	dst = AppendUint(dst, tenths/10)
	return append(dst, '.', byte('0'+tenths%10))
}
