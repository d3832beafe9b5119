package types

import "envpanel-go/errcode"

// ------------------------
// Sensor sample
// ------------------------

// Sample is one timestamped sensor + light reading. It is produced only by
// the sampler, never mutated once committed to the ring, and always copied
// by value across the core boundary.
type Sample struct {
	Seq         uint64 `json:"seq"`
	TimestampMs uint64 `json:"ts_ms"`

	// ADCRaw is the photoresistor reading, 12 significant bits (0..4095).
	ADCRaw uint16 `json:"adc_raw"`

	// Hundredths of °C (e.g. 2050 => 20.50°C).
	TempCentiC int32 `json:"temp_centi_c"`
	// Hundredths of %RH (0..10000 for 0..100.00%).
	HumCentiPct uint32 `json:"hum_centi_pct"`

	// Valid is false when the humidity/temperature read failed; ADCRaw is
	// always meaningful.
	Valid bool         `json:"valid"`
	Fault errcode.Code `json:"fault,omitempty"`
}

// SameEnv reports whether two samples would show the same environment data.
func (s Sample) SameEnv(o Sample) bool {
	if s.Valid != o.Valid {
		return false
	}
	if !s.Valid {
		return true
	}
	return s.TempCentiC == o.TempCentiC && s.HumCentiPct == o.HumCentiPct
}

// CentiF converts the temperature to hundredths of °F, rounded.
func (s Sample) CentiF() int32 {
	v := s.TempCentiC * 9
	if v >= 0 {
		v = (v + 2) / 5
	} else {
		v = (v - 2) / 5
	}
	return v + 3200
}

// Celsius returns °C as a float for logs.
func (s Sample) Celsius() float32 { return float32(s.TempCentiC) / 100 }

// Humidity returns %RH as a float for logs.
func (s Sample) Humidity() float32 { return float32(s.HumCentiPct) / 100 }
