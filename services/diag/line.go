package diag

import (
	"strings"

	"envpanel-go/errcode"
	"envpanel-go/types"
	"envpanel-go/x/conv"
	"envpanel-go/x/strconvx"
)

// Line layout, one sample per line:
//
//	<seq> / <adc_raw> / <temp_centi_c> / <hum_centi_pct>\r\n
//
// Invalid environment readings print "--" in both environment columns.
const (
	sep     = " / "
	invalid = "--"
)

// Record is one parsed line.
type Record struct {
	Seq         uint64
	ADCRaw      uint16
	TempCentiC  int32
	HumCentiPct uint32
	Valid       bool
}

// FormatLine appends the line for s to dst without allocating when dst has
// room.
func FormatLine(dst []byte, s types.Sample) []byte {
	dst = conv.AppendUint(dst, s.Seq)
	dst = append(dst, sep...)
	dst = conv.AppendUint(dst, uint64(s.ADCRaw))
	dst = append(dst, sep...)
	if s.Valid {
		dst = conv.AppendInt(dst, int64(s.TempCentiC))
		dst = append(dst, sep...)
		dst = conv.AppendUint(dst, uint64(s.HumCentiPct))
	} else {
		dst = append(dst, invalid...)
		dst = append(dst, sep...)
		dst = append(dst, invalid...)
	}
	return append(dst, '\r', '\n')
}

// ParseLine is the inverse of FormatLine. Surrounding whitespace and the
// line terminator are ignored.
func ParseLine(line string) (Record, error) {
	var r Record
	f := strings.Split(strings.TrimSpace(line), sep)
	if len(f) != 4 {
		return r, errcode.Wrap(errcode.InvalidParams, "diag.ParseLine", "want 4 fields", nil)
	}
	var err error
	if r.Seq, err = strconvx.ParseUint(f[0], 10, 64); err != nil {
		return r, errcode.Wrap(errcode.InvalidParams, "diag.ParseLine", "seq", err)
	}
	adc, err := strconvx.ParseUint(f[1], 10, 16)
	if err != nil {
		return r, errcode.Wrap(errcode.InvalidParams, "diag.ParseLine", "adc", err)
	}
	r.ADCRaw = uint16(adc)

	if f[2] == invalid && f[3] == invalid {
		return r, nil
	}
	temp, err := strconvx.ParseInt(f[2], 10, 32)
	if err != nil {
		return r, errcode.Wrap(errcode.InvalidParams, "diag.ParseLine", "temp", err)
	}
	hum, err := strconvx.ParseUint(f[3], 10, 32)
	if err != nil {
		return r, errcode.Wrap(errcode.InvalidParams, "diag.ParseLine", "hum", err)
	}
	r.TempCentiC, r.HumCentiPct, r.Valid = int32(temp), uint32(hum), true
	return r, nil
}
