package queue

// Queue represents a basic queue.
type Queue interface {
	Enqueue(item interface{}) error
	// Events exposes the queue's receive channel for select loops.
	Events() <-chan interface{}
	Size() int
	ClearQueue()
}
