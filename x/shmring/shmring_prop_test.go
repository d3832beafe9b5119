package shmring

import (
	"testing"

	"pgregory.net/rapid"
)

// Model check: any interleaving of producer and consumer operations behaves
// like a bounded FIFO that refuses writes when holding capacity-1 values.
func TestRingMatchesBoundedFIFO(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(2, 33).Draw(t, "capacity")
		r := New[uint64](capacity)

		var model []uint64
		var next uint64
		pendingReserve := false

		ops := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 400).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case 0: // reserve
				slot, ok := r.TryReserve()
				full := len(model) == capacity-1
				if ok == full {
					t.Fatalf("TryReserve ok=%v with %d/%d queued", ok, len(model), capacity-1)
				}
				pendingReserve = ok
				if ok {
					*slot = next
				}
			case 1: // commit
				r.Commit()
				if pendingReserve {
					model = append(model, next)
					next++
					pendingReserve = false
				}
			case 2: // pop
				v, ok := r.TryPop()
				if ok != (len(model) > 0) {
					t.Fatalf("TryPop ok=%v with %d queued", ok, len(model))
				}
				if ok {
					if v != model[0] {
						t.Fatalf("TryPop=%d want %d", v, model[0])
					}
					model = model[1:]
				}
			case 3: // drain
				for v := range r.Drain() {
					if len(model) == 0 {
						t.Fatalf("Drain yielded uncommitted value %d", v)
					}
					if v != model[0] {
						t.Fatalf("Drain=%d want %d", v, model[0])
					}
					model = model[1:]
				}
				if len(model) != 0 {
					t.Fatalf("Drain left %d committed values", len(model))
				}
			}
			if r.Len() != len(model) {
				t.Fatalf("Len=%d model=%d", r.Len(), len(model))
			}
		}
	})
}
