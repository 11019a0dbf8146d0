package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/go-tern/tern/pkg/vdom"
)

func TestMemoryRecordsFrames(t *testing.T) {
	m := NewMemory(80, 24)
	frame := vdom.Element("box", nil, vdom.Text("a"))
	if err := m.Draw(&frame); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	frame2 := vdom.Text("b")
	if err := m.Draw(&frame2); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	frames := m.Frames()
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	last, ok := m.LastFrame()
	if !ok || last.Text != "b" {
		t.Errorf("expected last frame b, got %+v", last)
	}
}

func TestMemoryLastFrameEmpty(t *testing.T) {
	m := NewMemory(80, 24)
	if _, ok := m.LastFrame(); ok {
		t.Error("expected no frame before first draw")
	}
}

func TestMemoryEventDelivery(t *testing.T) {
	m := NewMemory(80, 24)
	m.Send(KeyEvent{Action: KeyPress, Rune: 'a'})

	ev, err := m.PollEvent()
	if err != nil {
		t.Fatalf("PollEvent failed: %v", err)
	}
	k, ok := ev.(KeyEvent)
	if !ok || k.Rune != 'a' {
		t.Errorf("expected key a, got %+v", ev)
	}
}

func TestMemoryResizeUpdatesSize(t *testing.T) {
	m := NewMemory(80, 24)
	m.Send(ResizeEvent{Width: 100, Height: 30})
	if w, h := m.Size(); w != 100 || h != 30 {
		t.Errorf("expected 100x30, got %dx%d", w, h)
	}
}

func TestMemoryCloseUnblocksPoll(t *testing.T) {
	m := NewMemory(80, 24)
	got := make(chan error, 1)
	go func() {
		_, err := m.PollEvent()
		got <- err
	}()

	time.Sleep(10 * time.Millisecond)
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case err := <-got:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PollEvent did not unblock on Close")
	}
}

func TestMemoryDrainsQueuedEventsAfterClose(t *testing.T) {
	m := NewMemory(80, 24)
	m.Send(KeyEvent{Action: KeyPress, Rune: 'x'})
	m.Close()

	ev, err := m.PollEvent()
	if err != nil {
		t.Fatalf("expected queued event after close, got %v", err)
	}
	if k := ev.(KeyEvent); k.Rune != 'x' {
		t.Errorf("expected x, got %+v", k)
	}
	if _, err := m.PollEvent(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed once drained, got %v", err)
	}
}

func TestMemoryCloseIsIdempotent(t *testing.T) {
	m := NewMemory(80, 24)
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("expected second Close to no-op, got %v", err)
	}
	frame := vdom.Text("late")
	if err := m.Draw(&frame); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Draw after Close, got %v", err)
	}
	if !m.Closed() {
		t.Error("expected Closed to report true")
	}
}
