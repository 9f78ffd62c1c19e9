package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vela-voice/vela-core/core/events"
)

const inboundQueueCapacity = 64

type inboundQueueItem struct {
	event    events.Event
	queuedAt time.Time
}

// inboundQueue serializes remote events onto a single worker goroutine so
// aggregation, playback scheduling and tool dispatch observe them in exactly
// the order the connection delivered them.
type inboundQueue struct {
	queue   chan inboundQueueItem
	closeCh chan struct{}
	done    chan struct{}

	handle func(events.Event)

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newInboundQueue(handle func(events.Event)) *inboundQueue {
	return &inboundQueue{
		queue:   make(chan inboundQueueItem, inboundQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		handle:  handle,
	}
}

func (q *inboundQueue) start() (started bool) {
	if q == nil || q.isClosed() {
		return false
	}

	q.startOnce.Do(func() {
		started = true
		q.started.Store(true)
		go func() {
			defer close(q.done)

			for {
				select {
				case <-q.closeCh:
					q.drainRemaining()
					return
				case item := <-q.queue:
					q.handle(item.event)
				}
			}
		}()
	})

	return started
}

// drainRemaining delivers every event accepted before intake closed. The
// connection already handed these over, so teardown must not lose them.
func (q *inboundQueue) drainRemaining() {
	for {
		select {
		case item := <-q.queue:
			q.handle(item.event)
		default:
			return
		}
	}
}

// end closes intake. Events accepted before the close are still delivered
// before the worker exits; awaitCompletion blocks until then.
func (q *inboundQueue) end() {
	if q == nil {
		return
	}

	q.endOnce.Do(func() {
		close(q.closeCh)
	})
}

func (q *inboundQueue) awaitCompletion() {
	if q == nil {
		return
	}

	if q.started.Load() {
		<-q.done
	}
}

func (q *inboundQueue) enqueue(event events.Event) bool {
	if q == nil || q.isClosed() {
		return false
	}

	item := inboundQueueItem{event: event, queuedAt: time.Now()}
	select {
	case <-q.closeCh:
		return false
	case q.queue <- item:
		return true
	}
}

func (q *inboundQueue) isClosed() bool {
	if q == nil {
		return false
	}

	select {
	case <-q.closeCh:
		return true
	default:
		return false
	}
}

func (q *inboundQueue) queuedEventCount() int {
	if q == nil {
		return 0
	}

	return len(q.queue)
}
