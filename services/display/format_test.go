package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"envpanel-go/types"
)

func envState(temp int32, hum uint32) types.UIState {
	return types.UIState{
		Mode:      types.ModeNormal,
		View:      types.ViewEnvironment,
		HasSample: true,
		Sample:    types.Sample{TempCentiC: temp, HumCentiPct: hum, Valid: true},
	}
}

func TestPadLine(t *testing.T) {
	assert.Equal(t, "abc             ", PadLine("abc").String())
	assert.Equal(t, "0123456789abcdef", PadLine("0123456789abcdefXYZ").String())
	assert.Equal(t, "                ", PadLine("").String())
	assert.Equal(t, "bay 2 north     ", PadLine("bay 2\nnorth\n").String())
	assert.Equal(t, "a b  c          ", PadLine("a\tb\x7f\xc3c").String())
}

func TestFormatEnvironment(t *testing.T) {
	cases := []struct {
		name       string
		st         types.UIState
		row0, row1 string
	}{
		{"celsius", envState(2200, 4500), "Temp: 22.0C", "Humidity: 45.0%"},
		{"rounding", envState(2055, 4549), "Temp: 20.6C", "Humidity: 45.5%"},
		{"single digit", envState(505, 900), "Temp:  5.1C", "Humidity:  9.0%"},
		{"negative", envState(-1234, 10000), "Temp: -12.3C", "Humidity: 100.0%"},
		{"negative rounds to zero", envState(-4, 0), "Temp:  0.0C", "Humidity:  0.0%"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := Format(c.st)
			assert.Equal(t, PadLine(c.row0), f[0])
			assert.Equal(t, PadLine(c.row1), f[1])
		})
	}
}

func TestFormatFahrenheit(t *testing.T) {
	st := envState(2050, 4500)
	st.Unit = types.Fahrenheit
	f := Format(st)
	assert.Equal(t, "Temp: 68.9F     ", f[0].String())
}

func TestFormatPlaceholders(t *testing.T) {
	st := envState(0, 0)
	st.Sample.Valid = false
	f := Format(st)
	assert.Equal(t, "Temp: --.-C     ", f[0].String())
	assert.Equal(t, "Humidity: --.-% ", f[1].String())

	st.HasSample = false
	st.Sample.Valid = true
	st.Unit = types.Fahrenheit
	f = Format(st)
	assert.Equal(t, "Temp: --.-F     ", f[0].String())
}

func TestFormatLight(t *testing.T) {
	st := types.UIState{
		Mode:      types.ModeNormal,
		View:      types.ViewPhotoresistor,
		HasSample: true,
		LightPct:  52,
		Sample:    types.Sample{ADCRaw: 1234},
	}
	f := Format(st)
	assert.Equal(t, "Light:  52%     ", f[0].String())
	assert.Equal(t, "ADC: 1234       ", f[1].String())

	st.HasSample = false
	f = Format(st)
	assert.Equal(t, "Light: ---%     ", f[0].String())
	assert.Equal(t, "ADC: ----       ", f[1].String())
}

func TestFormatModes(t *testing.T) {
	f := Format(types.UIState{Mode: types.ModeLoading})
	assert.Equal(t, "Humidity Sensor ", f[0].String())
	assert.Equal(t, "Loading...      ", f[1].String())

	f = Format(types.UIState{Mode: types.ModeError, Line2: "NO DATA"})
	assert.Equal(t, "ERROR           ", f[0].String())
	assert.Equal(t, "NO DATA         ", f[1].String())

	f = Format(types.UIState{Mode: types.ModeNormal, View: types.ViewText, Line1: "Env Panel", Line2: "hello"})
	assert.Equal(t, "Env Panel       ", f[0].String())
	assert.Equal(t, "hello           ", f[1].String())
}
