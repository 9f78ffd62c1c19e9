package session

import (
	"testing"
	"time"

	"github.com/vela-voice/vela-core/core/events"
)

func TestInboundQueuePreservesArrivalOrder(t *testing.T) {
	var seen []string
	done := make(chan struct{})

	queue := newInboundQueue(func(event events.Event) {
		fragment := event.(events.UserTranscriptFragment)
		seen = append(seen, fragment.Text)
		if len(seen) == 3 {
			close(done)
		}
	})
	queue.start()
	defer queue.end()

	for _, text := range []string{"a", "b", "c"} {
		if !queue.enqueue(events.NewUserTranscriptFragment(text)) {
			t.Fatalf("expected enqueue of %q to succeed", text)
		}
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for queue processing")
	}
	if seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("expected arrival order preserved, got %v", seen)
	}
}

func TestInboundQueueDeliversBacklogBeforeExiting(t *testing.T) {
	var seen []string
	queue := newInboundQueue(func(event events.Event) {
		seen = append(seen, event.(events.UserTranscriptFragment).Text)
	})

	// Fill the queue to capacity before the worker even runs, then end
	// immediately: every accepted event must still reach the handler.
	for i := range inboundQueueCapacity {
		if !queue.enqueue(events.NewUserTranscriptFragment(string(rune('a' + i%26)))) {
			t.Fatalf("expected enqueue %d to succeed", i)
		}
	}

	queue.start()
	queue.end()
	queue.awaitCompletion()

	if len(seen) != inboundQueueCapacity {
		t.Fatalf("expected all %d accepted events delivered, got %d", inboundQueueCapacity, len(seen))
	}
	if seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("expected delivery in arrival order, got %v", seen[:2])
	}
}

func TestInboundQueueRefusesAfterEnd(t *testing.T) {
	queue := newInboundQueue(func(events.Event) {})
	queue.start()

	queue.end()
	queue.awaitCompletion()

	if queue.enqueue(events.NewTurnCompleted()) {
		t.Fatal("expected enqueue to fail after end")
	}
}

func TestInboundQueueStartIsSingleUse(t *testing.T) {
	queue := newInboundQueue(func(events.Event) {})

	if !queue.start() {
		t.Fatal("expected first start to report started")
	}
	if queue.start() {
		t.Fatal("expected repeated start to be a no-op")
	}

	queue.end()
	queue.awaitCompletion()
}

func TestInboundQueueEndIsIdempotent(t *testing.T) {
	queue := newInboundQueue(func(events.Event) {})
	queue.start()

	queue.end()
	queue.end()
	queue.awaitCompletion()
}
