package stream

import (
	"errors"
	"sync"
)

var errBufferClosed = errors.New("buffer is closed")

// buffer is an unbounded FIFO. Producers never block. A closed buffer drops its content,
// a sealed buffer hands out what it holds and then reports errBufferClosed.
type buffer[T any] struct {
	mu     sync.Mutex
	wait   *sync.Cond
	queue  []T
	closed bool
	sealed bool
}

func newBuffer[T any]() *buffer[T] {
	b := &buffer[T]{}
	b.wait = sync.NewCond(&b.mu)
	return b
}

func (b *buffer[T]) enqueue(v T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || b.sealed {
		return errBufferClosed
	}

	b.queue = append(b.queue, v)
	b.wait.Signal()
	return nil
}

// dequeue blocks until an item is available or the buffer is closed or drained.
func (b *buffer[T]) dequeue() (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.queue) == 0 && !b.closed && !b.sealed {
		b.wait.Wait()
	}

	var zero T
	if b.closed || len(b.queue) == 0 {
		return zero, errBufferClosed
	}

	v := b.queue[0]
	b.queue[0] = zero
	b.queue = b.queue[1:]
	return v, nil
}

func (b *buffer[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	b.queue = nil
	b.wait.Broadcast()
}

func (b *buffer[T]) seal() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sealed = true
	b.wait.Broadcast()
}

func (b *buffer[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
