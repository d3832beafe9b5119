package types

// Mode is the top-level display mode.
type Mode uint8

const (
	ModeLoading Mode = iota
	ModeNormal
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeNormal:
		return "normal"
	case ModeError:
		return "error"
	}
	return "unknown"
}

// View selects what Normal mode shows.
type View uint8

const (
	ViewEnvironment View = iota
	ViewPhotoresistor
	ViewText

	numViews
)

// Next cycles Environment -> Photoresistor -> Text -> Environment.
func (v View) Next() View { return (v + 1) % numViews }

func (v View) String() string {
	switch v {
	case ViewEnvironment:
		return "environment"
	case ViewPhotoresistor:
		return "photoresistor"
	case ViewText:
		return "text"
	}
	return "unknown"
}

type TempUnit uint8

const (
	Celsius TempUnit = iota
	Fahrenheit
)

// Suffix is the single character printed after a temperature.
func (u TempUnit) Suffix() byte {
	if u == Fahrenheit {
		return 'F'
	}
	return 'C'
}

// UIState is everything the display engine needs to build a frame.
// Owned by the control loop (UI core); the engine only reads it.
type UIState struct {
	Mode Mode
	View View
	Unit TempUnit

	// HasSample is false until the first sample has been drained.
	HasSample bool
	Sample    Sample

	// LightPct is ADCRaw mapped from the calibrated ADC range to 0..100.
	LightPct uint8

	// LEDLevel is the number of lit bar LEDs (0..N).
	LEDLevel uint8

	// Text view and Error mode lines.
	Line1, Line2 string
}
