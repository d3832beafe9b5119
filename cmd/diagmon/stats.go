package main

import (
	"fmt"
	"math"

	"envpanel-go/services/diag"
)

// span tracks min, max and sum of one column.
type span struct {
	min, max int64
	sum      int64
	n        int
}

func (s *span) add(v int64) {
	if s.n == 0 || v < s.min {
		s.min = v
	}
	if s.n == 0 || v > s.max {
		s.max = v
	}
	s.sum += v
	s.n++
}

func (s *span) mean() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return float64(s.sum) / float64(s.n)
}

// window summarises a run of consecutive diagnostic lines.
type window struct {
	size int

	lines   int
	invalid int
	gaps    uint64
	lastSeq uint64
	seen    bool

	adc, temp, hum span
}

func newWindow(size int) *window {
	if size < 1 {
		size = 1
	}
	return &window{size: size}
}

// add folds r in and reports whether the window is full.
func (w *window) add(r diag.Record) bool {
	if w.seen && r.Seq > w.lastSeq+1 {
		w.gaps += r.Seq - w.lastSeq - 1
	}
	w.lastSeq, w.seen = r.Seq, true
	w.lines++

	w.adc.add(int64(r.ADCRaw))
	if r.Valid {
		w.temp.add(int64(r.TempCentiC))
		w.hum.add(int64(r.HumCentiPct))
	} else {
		w.invalid++
	}
	return w.lines >= w.size
}

// reset starts a new window. Sequence tracking carries over so gaps across
// window boundaries still count.
func (w *window) reset() {
	*w = window{size: w.size, lastSeq: w.lastSeq, seen: w.seen}
}

func (w *window) String() string {
	s := fmt.Sprintf("lines=%d invalid=%d gaps=%d adc[min=%d max=%d mean=%.1f]",
		w.lines, w.invalid, w.gaps, w.adc.min, w.adc.max, w.adc.mean())
	if w.temp.n > 0 {
		s += fmt.Sprintf(" temp[min=%.2f max=%.2f mean=%.2f]C hum[min=%.2f max=%.2f mean=%.2f]%%",
			float64(w.temp.min)/100, float64(w.temp.max)/100, w.temp.mean()/100,
			float64(w.hum.min)/100, float64(w.hum.max)/100, w.hum.mean()/100)
	}
	return s
}
