package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	m := NewManager(nil)
	release := make(chan struct{})

	if err := m.StartAsync("sweep", func(ctx context.Context) error {
		<-release
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.StartAsync("sweep", func(ctx context.Context) error { return nil }); err == nil {
		t.Error("expected duplicate name to be rejected")
	}

	close(release)
	waitFor(t, func() bool { return len(m.List()) == 0 })

	if err := m.StartAsync("sweep", func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("expected name reusable after completion, got %v", err)
	}
}

func TestStopCancelsRunner(t *testing.T) {
	m := NewManager(nil)
	done := make(chan struct{})

	if err := m.StartAsync("watch", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, func() bool { return len(m.List()) == 1 })

	if err := m.Stop("watch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner not cancelled")
	}
	if err := m.Stop("watch"); err == nil {
		t.Error("expected error stopping a job twice")
	}
}

func TestStopFreesNameImmediately(t *testing.T) {
	m := NewManager(nil)
	block := make(chan struct{})

	if err := m.StartAsync("idle:g1", func(ctx context.Context) error {
		<-ctx.Done()
		<-block
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Stop("idle:g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The old runner is still winding down but the name is free again.
	restarted := make(chan struct{})
	if err := m.StartAsync("idle:g1", func(ctx context.Context) error {
		<-restarted
		return nil
	}); err != nil {
		t.Fatalf("expected restart after stop, got %v", err)
	}
	close(block)
	time.Sleep(10 * time.Millisecond)
	if got := m.List(); len(got) != 1 || got[0] != "idle:g1" {
		t.Errorf("expected restarted job still registered, got %v", got)
	}
	close(restarted)
}

func TestReporterSeesLifecycle(t *testing.T) {
	var mu sync.Mutex
	var msgs []string
	m := NewManager(func(msg string) {
		mu.Lock()
		msgs = append(msgs, msg)
		mu.Unlock()
	})

	if err := m.StartAsync("ok", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.StartAsync("bad", func(ctx context.Context) error {
		return errors.New("broken pipe")
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, func() bool { return len(m.List()) == 0 })

	mu.Lock()
	defer mu.Unlock()
	seen := make(map[string]bool, len(msgs))
	for _, s := range msgs {
		seen[s] = true
	}
	for _, want := range []string{"running:ok", "done:ok", "running:bad", "error:bad:broken pipe"} {
		if !seen[want] {
			t.Errorf("missing reporter message %q in %v", want, msgs)
		}
	}
}
