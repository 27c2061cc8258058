package session

// queue is an unbounded multi-producer FIFO. Pushes hand the value to a
// pump goroutine that buffers in memory, so a push never blocks on a slow
// consumer. Close stops intake; buffered values still drain to Out, which
// is closed afterwards.
//
// Go channels are bounded, and the queues in the pack are bounded SPSC
// rings, so the unbounded multi-producer shape the session needs is built
// here from two channels and a slice buffer.
type queue[T any] struct {
	in  chan T
	out chan T
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{
		in:  make(chan T),
		out: make(chan T),
	}
	go q.pump()
	return q
}

func (q *queue[T]) pump() {
	var buf []T
	for {
		var ready chan T
		var next T
		if len(buf) > 0 {
			ready = q.out
			next = buf[0]
		}
		select {
		case v, ok := <-q.in:
			if !ok {
				for _, v := range buf {
					q.out <- v
				}
				close(q.out)
				return
			}
			buf = append(buf, v)
		case ready <- next:
			buf = buf[1:]
		}
	}
}

// Push enqueues a value. Callers must not push after Close; the bridge
// guards this with its closed flag.
func (q *queue[T]) Push(v T) {
	q.in <- v
}

// Out returns the receive side. It is closed after Close once the buffer
// has drained.
func (q *queue[T]) Out() <-chan T {
	return q.out
}

// Close stops intake.
func (q *queue[T]) Close() {
	close(q.in)
}
