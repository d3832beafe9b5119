package bus

import (
	"sort"
	"testing"
	"time"
)

// The panel's topic layout.
var (
	topicSample  = T("env", "sample")
	topicMode    = T("env", "mode")
	topicDiag    = T("config", "diag")
	topicDisplay = T("config", "display")
	topicText    = T("config", "text")
)

type displayCfg struct {
	MinIntervalMs int
	ADCNoise      uint16
}

func TestSamplesReachLogger(t *testing.T) {
	b := NewBus(4)
	control := b.NewConnection("control")
	diag := b.NewConnection("diag")

	sub := diag.Subscribe(topicSample)
	control.Publish(control.NewMessage(topicSample, "seq=1", false))

	expectOneOf(t, sub, "seq=1")
}

func TestRetainedConfigReachesLateSubscriber(t *testing.T) {
	b := NewBus(2)
	cfg := b.NewConnection("config")
	cfg.Publish(cfg.NewMessage(topicDisplay, displayCfg{MinIntervalMs: 1000, ADCNoise: 15}, true))

	control := b.NewConnection("control")
	sub := control.Subscribe(topicDisplay)

	select {
	case got := <-sub.Channel():
		if !got.Retained {
			t.Error("expected the retained flag")
		}
		if d, ok := got.Payload.(displayCfg); !ok || d.ADCNoise != 15 {
			t.Errorf("unexpected payload %#v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for retained config")
	}
}

func TestRetainedOverwrite(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("config")
	c.Publish(c.NewMessage(topicText, "Env Panel", true))
	c.Publish(c.NewMessage(topicText, "Greenhouse", true))

	got := drainPayloads(t, c.Subscribe(topicText), 1)
	if got[0] != "Greenhouse" {
		t.Fatalf("expected latest retained text, got %v", got)
	}
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestSingleLevelWildcard(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	envAny := c.Subscribe(T("env", Single))
	cfgAny := c.Subscribe(T("config", Single))
	anySample := c.Subscribe(T(Single, "sample"))
	deep := c.Subscribe(T("config", Single, "x"))

	c.Publish(b.NewMessage(topicSample, "s", false))
	expectOneOf(t, envAny, "s")
	expectOneOf(t, anySample, "s")
	expectNoMessage(t, cfgAny)

	c.Publish(b.NewMessage(topicDiag, "d", false))
	expectOneOf(t, cfgAny, "d")
	expectNoMessage(t, envAny)
	expectNoMessage(t, deep)

	// "+" needs exactly one token.
	c.Publish(b.NewMessage(T("env"), "bare", false))
	expectNoMessage(t, envAny)
	expectNoMessage(t, anySample)
}

func TestMultiLevelWildcard(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	all := c.Subscribe(T(Multi))
	env := c.Subscribe(T("env", Multi))
	envExact := c.Subscribe(T("env"))

	c.Publish(b.NewMessage(T("env"), "p1", false))
	expectOneOf(t, all, "p1")
	expectOneOf(t, env, "p1")
	expectOneOf(t, envExact, "p1")

	c.Publish(b.NewMessage(topicMode, "p2", false))
	expectOneOf(t, all, "p2")
	expectOneOf(t, env, "p2")
	expectNoMessage(t, envExact)

	c.Publish(b.NewMessage(topicDisplay, "p3", false))
	expectOneOf(t, all, "p3")
	expectNoMessage(t, env)
}

func TestWildcardRetainedReplay(t *testing.T) {
	b := NewBus(32)
	c := b.NewConnection("config")

	c.Publish(b.NewMessage(topicDiag, "diag", true))
	c.Publish(b.NewMessage(topicDisplay, "display", true))
	c.Publish(b.NewMessage(topicText, "text", true))
	c.Publish(b.NewMessage(topicMode, "normal", true))

	assertUnorderedEqual(t, drainPayloads(t, c.Subscribe(T("config", Single)), 3),
		[]string{"diag", "display", "text"})
	assertUnorderedEqual(t, drainPayloads(t, c.Subscribe(T(Multi)), 4),
		[]string{"diag", "display", "text", "normal"})
	assertUnorderedEqual(t, drainPayloads(t, c.Subscribe(T(Single, "mode")), 1),
		[]string{"normal"})
}

func TestRetainedClear(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("config")

	c.Publish(b.NewMessage(topicText, "text", true))
	c.Publish(b.NewMessage(topicDiag, "diag", true))
	c.Publish(b.NewMessage(topicText, nil, true))

	got := drainPayloads(t, c.Subscribe(T("config", Multi)), 1)
	if got[0] != "diag" {
		t.Fatalf("expected only diag after clear, got %v", got)
	}
}

// -----------------------------------------------------------------------------
// Queueing
// -----------------------------------------------------------------------------

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(Topic{"env", "sample"})

	for _, p := range []string{"s1", "s2", "s3"} {
		c.Publish(b.NewMessage(Topic{"env", "sample"}, p, false))
	}
	got := drainPayloads(t, s, 2)
	if got[0] != "s2" || got[1] != "s3" {
		t.Fatalf("expected [s2 s3], got %v", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(Topic{"env", "mode"})
	s.Unsubscribe()

	if _, ok := <-s.Channel(); ok {
		t.Fatal("expected closed channel")
	}
	// Publishing after unsubscribe must not panic on the closed channel.
	c.Publish(b.NewMessage(Topic{"env", "mode"}, "normal", false))
	// Second unsubscribe is a no-op.
	c.Unsubscribe(s)
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s1 := c.Subscribe(Topic{"a"})
	s2 := c.Subscribe(Topic{"b", "#"})
	c.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("subscription %v still open", s.Topic())
		}
	}
	if !b.root.empty() {
		t.Fatal("trie not pruned after disconnect")
	}
}

func TestTopicString(t *testing.T) {
	if got := T("env", "sample", 3).String(); got != "env/sample/3" {
		t.Fatalf("got %q", got)
	}
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

func expectOneOf(t *testing.T, sub *Subscription, want string) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		s, ok := got.Payload.(string)
		if !ok || s != want {
			t.Fatalf("unexpected payload: %v (want %q)", got.Payload, want)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message: %#v", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func drainPayloads(t *testing.T, sub *Subscription, n int) []string {
	t.Helper()
	var out []string
	deadline := time.Now().Add(300 * time.Millisecond)
	for len(out) < n && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if s, ok := m.Payload.(string); ok {
				out = append(out, s)
			} else {
				t.Fatalf("non-string payload in drain: %#v", m.Payload)
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(out) != n {
		t.Fatalf("drainPayloads: expected %d messages, got %d (%v)", n, len(out), out)
	}
	return out
}

func assertUnorderedEqual(t *testing.T, got, want []string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %q, want %q (got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}

func TestTopic_InvalidTokenPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for non-comparable token, got none")
		}
	}()

	// []byte is not comparable, so T should panic
	_ = T([]byte{1, 2, 3})
}
