package worldclock

import (
	"errors"
	"testing"
)

func TestMemory_Advance(t *testing.T) {
	clock := NewMemory(100)

	if err := clock.Advance(50.5); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got := clock.Value(); got != 150.5 {
		t.Errorf("Value() = %g, want 150.5", got)
	}

	if err := clock.Advance(-200); err != nil {
		t.Fatalf("Advance(negative) error = %v", err)
	}
	if got := clock.Value(); got != -49.5 {
		t.Errorf("Value() = %g, want -49.5", got)
	}
}

func TestMemory_Subscribe(t *testing.T) {
	clock := NewMemory(0)

	var got []float64
	cancel := clock.Subscribe(func(v float64) { got = append(got, v) })

	clock.Advance(10)
	clock.Advance(5)

	if len(got) != 2 || got[0] != 10 || got[1] != 15 {
		t.Errorf("subscriber saw %v, want [10 15]", got)
	}

	cancel()
	clock.Advance(1)
	if len(got) != 2 {
		t.Errorf("subscriber notified after cancel: %v", got)
	}
}

func TestMemory_PersistFailureRollsBack(t *testing.T) {
	wantErr := errors.New("disk full")
	clock := NewMemory(7, WithPersist(func(v float64) error {
		return wantErr
	}))

	notified := false
	clock.Subscribe(func(float64) { notified = true })

	err := clock.Advance(3)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Advance() error = %v, want %v", err, wantErr)
	}
	if got := clock.Value(); got != 7 {
		t.Errorf("Value() after failed persist = %g, want 7", got)
	}
	if notified {
		t.Error("subscribers notified despite failed persist")
	}
}

func TestMemory_PersistReceivesNewValue(t *testing.T) {
	var persisted float64
	clock := NewMemory(1, WithPersist(func(v float64) error {
		persisted = v
		return nil
	}))

	clock.Advance(41)
	if persisted != 42 {
		t.Errorf("persist hook received %g, want 42", persisted)
	}
}
