package diag

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"envpanel-go/bus"
	"envpanel-go/services/config"
	"envpanel-go/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func startService(t *testing.T, cfg config.Diag) (*Service, *bus.Connection, *syncBuffer, func()) {
	t.Helper()
	b := bus.NewBus(8)
	out := &syncBuffer{}
	svc := New(out, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, b.NewConnection("diag"))
		close(done)
	}()
	stop := func() {
		cancel()
		<-done
	}
	return svc, b.NewConnection("test"), out, stop
}

func TestWritesNewestSample(t *testing.T) {
	svc, conn, out, stop := startService(t, config.Diag{Enabled: true, RateHz: 200})

	s := types.Sample{Seq: 9, ADCRaw: 321, TempCentiC: 2050, HumCentiPct: 4500, Valid: true}
	require.Eventually(t, func() bool {
		conn.Publish(conn.NewMessage(bus.T("env", "sample"), s, false))
		return strings.Contains(out.String(), "9 / 321 / 2050 / 4500\r\n")
	}, time.Second, 10*time.Millisecond)

	stop()
	assert.NotZero(t, svc.Written())
}

func TestIdlePeriodsWriteNothing(t *testing.T) {
	_, conn, out, stop := startService(t, config.Diag{Enabled: true, RateHz: 200})

	s := types.Sample{Seq: 1, ADCRaw: 5}
	require.Eventually(t, func() bool {
		conn.Publish(conn.NewMessage(bus.T("env", "sample"), s, false))
		return out.String() != ""
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	n := strings.Count(out.String(), "\r\n")
	time.Sleep(50 * time.Millisecond)
	stop()
	assert.Equal(t, n, strings.Count(out.String(), "\r\n"))
}

func TestDisabledUntilConfigured(t *testing.T) {
	_, conn, out, stop := startService(t, config.Diag{Enabled: false, RateHz: 200})
	defer stop()

	s := types.Sample{Seq: 3, ADCRaw: 7, TempCentiC: 1, HumCentiPct: 2, Valid: true}
	for i := 0; i < 5; i++ {
		conn.Publish(conn.NewMessage(bus.T("env", "sample"), s, false))
		time.Sleep(10 * time.Millisecond)
	}
	assert.Empty(t, out.String())

	conn.Publish(conn.NewMessage(config.Topic(config.SectionDiag), config.Diag{Enabled: true, RateHz: 100}, true))
	require.Eventually(t, func() bool {
		conn.Publish(conn.NewMessage(bus.T("env", "sample"), s, false))
		return strings.Contains(out.String(), "3 / 7 / 1 / 2\r\n")
	}, time.Second, 10*time.Millisecond)
}

func TestModeMessagesAreNotLines(t *testing.T) {
	_, conn, out, stop := startService(t, config.Diag{Enabled: true, RateHz: 200})
	conn.Publish(conn.NewMessage(bus.T("env", "mode"), types.ModeError, true))
	time.Sleep(30 * time.Millisecond)
	stop()
	assert.Empty(t, out.String())
}
