package queue

const (
	// DefaultQueueCapacity represents the default maximum size of a queue
	DefaultQueueCapacity = 1024
)

type ErrQueueFull struct {
}

func (e *ErrQueueFull) Error() string {
	return "queue is full"
}

// InMemoryQueue implements an in-memory queue.
type InMemoryQueue struct {
	ch chan interface{}
}

// NewInMemoryQueue creates a new queue with the given capacity.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &InMemoryQueue{
		ch: make(chan interface{}, capacity),
	}
}

// Enqueue adds an item to the end of the queue.
// It fails rather than blocks when the queue is full.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	select {
	case q.ch <- item:
		return nil
	default:
		return &ErrQueueFull{}
	}
}

// Events returns the queue's receive channel.
func (q *InMemoryQueue) Events() <-chan interface{} {
	return q.ch
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	return len(q.ch)
}

// ClearQueue clears all messages from the queue.
func (q *InMemoryQueue) ClearQueue() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}
