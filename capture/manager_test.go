package capture

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestManagerOpenAndGet(t *testing.T) {
	t.Parallel()
	m := NewManager(discardLogger())

	d := m.Open(newFakeBackend())
	if d == nil {
		t.Fatal("Open returned nil")
	}

	got, ok := m.Get(d.ID())
	if !ok || got != d {
		t.Error("Get should return the opened device")
	}
	if len(m.List()) != 1 {
		t.Errorf("List length %d, want 1", len(m.List()))
	}
}

func TestManagerGetUnknown(t *testing.T) {
	t.Parallel()
	m := NewManager(discardLogger())

	if _, ok := m.Get(uuid.New()); ok {
		t.Error("Get of unknown id should return false")
	}
}

func TestManagerRemove(t *testing.T) {
	t.Parallel()
	m := NewManager(discardLogger())

	d := m.Open(newFakeBackend())
	m.Remove(d.ID())
	if len(m.List()) != 0 {
		t.Errorf("List length %d after remove, want 0", len(m.List()))
	}

	// Removing twice is harmless.
	m.Remove(d.ID())
}

func TestManagerDisposeAll(t *testing.T) {
	t.Parallel()
	m := NewManager(discardLogger())

	d1 := m.Open(newFakeBackend())
	d2 := m.Open(newFakeBackend())

	if err := m.DisposeAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d1.State() != StateDisposed || d2.State() != StateDisposed {
		t.Error("devices not disposed")
	}
	if len(m.List()) != 0 {
		t.Errorf("List length %d after DisposeAll, want 0", len(m.List()))
	}
}
