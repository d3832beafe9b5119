package display

import (
	"envpanel-go/types"
	"envpanel-go/x/conv"
)

// Width is the character count of one LCD row.
const Width = 16

// Line is one fixed-width LCD row. Lines compare with ==.
type Line [Width]byte

func (l Line) String() string { return string(l[:]) }

// Frame is the two rows shown at once.
type Frame [2]Line

// PadLine copies s into a Line, truncating or space-padding to Width.
// Bytes outside printable ASCII become spaces: the LCD driver treats '\n'
// as a cursor move and has no glyphs above 0x7E.
func PadLine(s string) Line {
	var l Line
	n := copy(l[:], s)
	for i := range l {
		if i >= n || l[i] < 0x20 || l[i] > 0x7E {
			l[i] = ' '
		}
	}
	return l
}

const placeholder = "--.-"

// Fixed screens.
const (
	loadingLine1 = "Humidity Sensor"
	loadingLine2 = "Loading..."
	errorLine1   = "ERROR"
)

// Format builds the frame for st. It is pure: same state, same bytes.
func Format(st types.UIState) Frame {
	switch st.Mode {
	case types.ModeLoading:
		return Frame{PadLine(loadingLine1), PadLine(loadingLine2)}
	case types.ModeError:
		l1 := st.Line1
		if l1 == "" {
			l1 = errorLine1
		}
		return Frame{PadLine(l1), PadLine(st.Line2)}
	}

	switch st.View {
	case types.ViewText:
		return Frame{PadLine(st.Line1), PadLine(st.Line2)}
	case types.ViewPhotoresistor:
		return formatLight(st)
	default:
		return formatEnv(st)
	}
}

func formatEnv(st types.UIState) Frame {
	var a, b lineBuf
	valid := st.HasSample && st.Sample.Valid

	a.str("Temp: ")
	if valid {
		v := st.Sample.TempCentiC
		if st.Unit == types.Fahrenheit {
			v = st.Sample.CentiF()
		}
		a.centi(v, 4)
	} else {
		a.str(placeholder)
	}
	a.byte(st.Unit.Suffix())

	b.str("Humidity: ")
	if valid {
		b.centi(int32(st.Sample.HumCentiPct), 4)
	} else {
		b.str(placeholder)
	}
	b.byte('%')

	return Frame{a.line(), b.line()}
}

func formatLight(st types.UIState) Frame {
	var a, b lineBuf
	a.str("Light: ")
	b.str("ADC: ")
	if st.HasSample {
		a.uint(uint64(st.LightPct), 3)
		a.byte('%')
		b.uint(uint64(st.Sample.ADCRaw), 4)
	} else {
		a.str("---%")
		b.str("----")
	}
	return Frame{a.line(), b.line()}
}

// lineBuf appends into a fixed row without allocating.
type lineBuf struct {
	b [Width]byte
	n int
}

func (l *lineBuf) byte(c byte) {
	if l.n < Width {
		l.b[l.n] = c
		l.n++
	}
}

func (l *lineBuf) str(s string) {
	for i := 0; i < len(s); i++ {
		l.byte(s[i])
	}
}

func (l *lineBuf) bytes(p []byte) {
	for _, c := range p {
		l.byte(c)
	}
}

func (l *lineBuf) pad(n int) {
	for ; n > 0; n-- {
		l.byte(' ')
	}
}

// uint writes v right-aligned in width columns.
func (l *lineBuf) uint(v uint64, width int) {
	var tmp [20]byte
	l.right(conv.AppendUint(tmp[:0], v), width)
}

// centi writes a hundredths value with one decimal, right-aligned in width
// columns.
func (l *lineBuf) centi(v int32, width int) {
	var tmp [24]byte
	l.right(conv.AppendCenti(tmp[:0], int64(v)), width)
}

func (l *lineBuf) right(d []byte, width int) {
	l.pad(width - len(d))
	l.bytes(d)
}

func (l *lineBuf) line() Line {
	for i := l.n; i < Width; i++ {
		l.b[i] = ' '
	}
	return Line(l.b)
}
