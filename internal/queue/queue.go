package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/handiism/hydr0-downloader/internal/model"
)

// ErrTooManyAcks is returned by Ack when it is called more often than items
// were enqueued.
var ErrTooManyAcks = errors.New("ack called more times than items were enqueued")

// Kind tags the variant held by an Item.
type Kind int

const (
	// KindWork carries a track to download.
	KindWork Kind = iota

	// KindShutdown tells the receiving worker to stop.
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindWork:
		return "work"
	case KindShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Item is a queue element: either Work or Shutdown.
type Item struct {
	kind  Kind
	track model.Track
}

// Work wraps a track in a work item.
func Work(track model.Track) Item {
	return Item{kind: KindWork, track: track}
}

// Shutdown returns a shutdown item.
func Shutdown() Item {
	return Item{kind: KindShutdown}
}

// Kind returns the variant held by the item.
func (i Item) Kind() Kind {
	return i.kind
}

// Track returns the track of a work item. The second value is false for
// shutdown items.
func (i Item) Track() (model.Track, bool) {
	return i.track, i.kind == KindWork
}

// Queue is an unbounded FIFO with acknowledgement tracking.
type Queue struct {
	mu         sync.Mutex
	items      []Item
	ready      chan struct{}
	unfinished int
	drained    *sync.Cond
}

// New creates an empty Queue.
func New() *Queue {
	q := &Queue{
		ready: make(chan struct{}, 1),
	}
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends an item. It never blocks on consumers.
func (q *Queue) Enqueue(item Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.unfinished++
	q.mu.Unlock()
	q.signal()
}

// Dequeue removes and returns the oldest item, blocking until one is
// available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (Item, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items[0] = Item{}
			q.items = q.items[1:]
			more := len(q.items) > 0
			q.mu.Unlock()
			if more {
				// pass the wake-up on to the next waiting consumer
				q.signal()
			}
			return item, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			// a wake-up meant for this consumer may already be spent
			q.signal()
			return Item{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
		case <-q.ready:
		}
	}
}

// Ack marks one previously dequeued item as fully processed.
func (q *Queue) Ack() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished <= 0 {
		return ErrTooManyAcks
	}
	q.unfinished--
	if q.unfinished == 0 {
		q.drained.Broadcast()
	}
	return nil
}

// Join blocks until every enqueued item has been acknowledged.
func (q *Queue) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.unfinished > 0 {
		q.drained.Wait()
	}
}

// Len returns the number of items waiting to be dequeued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Unfinished returns the number of enqueued items not yet acknowledged.
func (q *Queue) Unfinished() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unfinished
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
