package events

import (
	"testing"
	"time"

	"github.com/openfra/fra-atlas/internal/model"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(4)

	a := bus.Subscribe()
	b := bus.Subscribe()
	if bus.Subscribers() != 2 {
		t.Fatalf("subscribers = %d", bus.Subscribers())
	}

	bus.Publish(LocationSelected("Odisha", "Koraput"))

	for name, ch := range map[string]chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Type != TypeLocationSelected {
				t.Errorf("%s: type = %q", name, ev.Type)
			}
			payload, ok := ev.Payload.(LocationPayload)
			if !ok {
				t.Fatalf("%s: payload type %T", name, ev.Payload)
			}
			if payload.State != "Odisha" || payload.District != "Koraput" {
				t.Errorf("%s: payload = %+v", name, payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s: no event delivered", name)
		}
	}
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus(1)

	slow := bus.Subscribe()

	// Fill the buffer, then publish more; the publisher must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(LocationSelected("Odisha", ""))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}

	// The one buffered event is still there.
	select {
	case <-slow:
	default:
		t.Error("buffered event lost")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(4)
	ch := bus.Subscribe()

	bus.Unsubscribe(ch)
	if bus.Subscribers() != 0 {
		t.Errorf("subscribers = %d after unsubscribe", bus.Subscribers())
	}

	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}

	// Double unsubscribe is harmless.
	bus.Unsubscribe(ch)
}

func TestBus_RunCompletedPayload(t *testing.T) {
	bus := NewBus(4)
	ch := bus.Subscribe()

	bus.Publish(RunCompleted(model.RunSnapshot{Generation: 3, Records: 42}))

	ev := <-ch
	if ev.Type != TypeRunCompleted {
		t.Fatalf("type = %q", ev.Type)
	}
	snap, ok := ev.Payload.(model.RunSnapshot)
	if !ok {
		t.Fatalf("payload type %T", ev.Payload)
	}
	if snap.Generation != 3 || snap.Records != 42 {
		t.Errorf("snapshot = %+v", snap)
	}
}
