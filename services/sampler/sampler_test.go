package sampler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"envpanel-go/drivers/dht20"
	"envpanel-go/errcode"
	"envpanel-go/types"
	"envpanel-go/x/shmring"
	"envpanel-go/x/timex"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSensor struct {
	mu   sync.Mutex
	temp int32
	hum  uint32
	err  error
	n    int
}

func (f *fakeSensor) Measure() (int32, uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return f.temp, f.hum, f.err
}

func (f *fakeSensor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

type fixedLight uint16

func (l fixedLight) ReadLight() uint16 { return uint16(l) }

func newSampler(t *testing.T, capacity int, sensor Sensor) (*Sampler, *shmring.Ring[types.Sample], *timex.Manual) {
	t.Helper()
	ring := shmring.New[types.Sample](capacity)
	clk := &timex.Manual{}
	s, err := New(Config{Period: time.Second}, sensor, fixedLight(1234), ring, clk.Now)
	require.NoError(t, err)
	return s, ring, clk
}

func TestSampleCommitsReading(t *testing.T) {
	s, ring, clk := newSampler(t, 4, &fakeSensor{temp: 2200, hum: 4500})
	clk.Set(1500)

	require.True(t, s.Sample())
	got, ok := ring.TryPop()
	require.True(t, ok)
	assert.Equal(t, types.Sample{
		Seq:         1,
		TimestampMs: 1500,
		ADCRaw:      1234,
		TempCentiC:  2200,
		HumCentiPct: 4500,
		Valid:       true,
	}, got)
}

func TestSensorFaultPublishesInvalidSample(t *testing.T) {
	sensor := &fakeSensor{temp: 9999, hum: 9999, err: dht20.ErrCRC}
	s, ring, _ := newSampler(t, 4, sensor)

	require.True(t, s.Sample())
	got, _ := ring.TryPop()
	assert.False(t, got.Valid)
	assert.Equal(t, errcode.CRCMismatch, got.Fault)
	assert.Equal(t, uint16(1234), got.ADCRaw, "light is still reported")
	assert.Zero(t, got.TempCentiC)
	assert.Equal(t, uint32(1), s.Faults())

	sensor.err = nil
	require.True(t, s.Sample())
	got, _ = ring.TryPop()
	assert.True(t, got.Valid)
	assert.Equal(t, errcode.Code(""), got.Fault)
}

func TestFullRingDropsButSequenceAdvances(t *testing.T) {
	s, ring, _ := newSampler(t, 3, &fakeSensor{temp: 1, hum: 1})

	assert.True(t, s.Sample())
	assert.True(t, s.Sample())
	assert.False(t, s.Sample())
	assert.Equal(t, uint32(1), ring.Dropped())

	var seqs []uint64
	for v := range ring.Drain() {
		seqs = append(seqs, v.Seq)
	}
	assert.Equal(t, []uint64{1, 2}, seqs)

	require.True(t, s.Sample())
	v, _ := ring.TryPop()
	assert.Equal(t, uint64(4), v.Seq)
}

func TestRunSamplesUntilCancelled(t *testing.T) {
	sensor := &fakeSensor{temp: 2000, hum: 5000}
	ring := shmring.New[types.Sample](8)
	s, err := New(Config{Period: 5 * time.Millisecond}, sensor, fixedLight(1), ring, timex.SinceBootMs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-ring.Readable():
	case <-time.After(time.Second):
		t.Fatal("no sample committed")
	}
	require.Eventually(t, func() bool { return sensor.calls() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestNewRejectsNilDeps(t *testing.T) {
	_, err := New(Config{}, nil, fixedLight(0), shmring.New[types.Sample](2), timex.SinceBootMs)
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}
