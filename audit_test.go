package coverauth

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestChannelSinkDeliversEvents(t *testing.T) {
	sink := NewChannelSink(4)
	sink.Emit(context.Background(), AuditEvent{EventType: EventLoginSuccess, Username: "ada"})

	select {
	case event := <-sink.Events():
		if event.EventType != EventLoginSuccess || event.Username != "ada" {
			t.Errorf("event = %+v", event)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), AuditEvent{EventType: "fill"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sink.Emit(ctx, AuditEvent{EventType: "blocked"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked past context cancellation")
	}
}

// syncWriter guards a bytes.Buffer so the test can read concurrently with
// the dispatcher goroutine.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestJSONWriterSinkWritesNDJSON(t *testing.T) {
	var w syncWriter
	sink := NewJSONWriterSink(&w)

	sink.Emit(context.Background(), AuditEvent{EventType: EventLoginFailure, Username: "mallory", Error: "invalid credentials"})
	sink.Emit(context.Background(), AuditEvent{EventType: EventLoginSuccess, Username: "ada", Success: true})

	scanner := bufio.NewScanner(strings.NewReader(w.String()))
	var lines int
	for scanner.Scan() {
		lines++
		var event AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines, err)
		}
	}
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: EventTokenIssued})
	}
	d.Close()

	// Close drains: all five must have reached the sink.
	for i := 0; i < 5; i++ {
		select {
		case <-sink.Events():
		default:
			t.Fatalf("event %d missing after Close", i)
		}
	}

	// Emitting after Close is a silent no-op.
	d.Emit(context.Background(), AuditEvent{EventType: EventTokenIssued})
	if d.Dropped() != 0 {
		t.Errorf("post-close emit counted as drop")
	}
}

func TestDispatcherDropsUnderBackpressure(t *testing.T) {
	// The sink blocks until released, so with buffer 1 the burst saturates
	// the channel and DropIfFull starts counting.
	release := make(chan struct{})
	sink := blockingSink{release: release}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(release)
		d.Close()
	}()

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: EventAccessDenied})
	}

	if d.Dropped() == 0 {
		t.Error("no drops counted under saturation")
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled config produced a dispatcher")
	}

	// Nil receivers are safe on every method.
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Error("nil Dropped != 0")
	}
}

func TestEngineEmitsAuditTrail(t *testing.T) {
	sink := NewChannelSink(32)
	engine := newTestEngine(t, func(b *Builder, _ *Config) {
		b.WithAuditSink(sink)
	})
	ctx := WithClientIP(context.Background(), "203.0.113.7")

	if _, err := engine.Login(ctx, "edna", "wrong-password"); err == nil {
		t.Fatal("expected login failure")
	}
	result, err := engine.Login(ctx, "edna", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := engine.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	engine.Close()

	seen := map[string]AuditEvent{}
	for {
		select {
		case event := <-sink.Events():
			seen[event.EventType] = event
			continue
		default:
		}
		break
	}

	for _, want := range []string{
		EventLoginFailure,
		EventLoginSuccess,
		EventTokenIssued,
		EventSessionCreated,
		EventSessionDestroyed,
	} {
		if _, ok := seen[want]; !ok {
			t.Errorf("missing %s event", want)
		}
	}

	if event := seen[EventLoginFailure]; event.Success || event.Username != "edna" || event.IP != "203.0.113.7" {
		t.Errorf("login.failure = %+v", event)
	}
	if event := seen[EventLoginSuccess]; !event.Success || event.SessionID == "" {
		t.Errorf("login.success = %+v", event)
	}
	if event := seen[EventSessionDestroyed]; event.SessionID == "" {
		t.Errorf("session.destroyed = %+v", event)
	}
	for name, event := range seen {
		if event.Timestamp.IsZero() {
			t.Errorf("%s has zero timestamp", name)
		}
	}
}
