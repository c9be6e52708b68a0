// Package stream turns push-style subscriptions into cancellable pull streams.
//
// A Stream is fed through its Sink by a producer that never blocks, buffers without bound and
// hands values to a single consumer channel in push order. Streams are never closed implicitly:
// every Stream returned by this package must be closed by its owner, otherwise the underlying
// subscription leaks.
package stream

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gridlab/gridclient/pkg/griderrors"
)

// CloseFunc releases a stream and its subscription. It is idempotent and safe for concurrent use.
type CloseFunc func()

// Unsubscribe releases the source of a stream.
type Unsubscribe func()

// Sink is the callback side of a subscription.
type Sink[T any] interface {
	// Push delivers a value. Values pushed after the stream was closed are dropped.
	Push(v T)
	// Finish ends the stream from the source side. A nil error is a normal completion and lets
	// the consumer drain what is buffered.
	Finish(err error)
}

// Stream is the pull side of a subscription.
type Stream[T any] struct {
	out  chan T
	buf  *buffer[T]
	done chan struct{}
	once sync.Once

	mu          sync.Mutex
	finished    bool
	err         error
	unsubscribe Unsubscribe
}

func newStream[T any]() *Stream[T] {
	return &Stream[T]{
		out:  make(chan T),
		buf:  newBuffer[T](),
		done: make(chan struct{}),
	}
}

// Chan returns the channel values are delivered on. It is closed when the stream ends.
func (s *Stream[T]) Chan() <-chan T {
	return s.out
}

// Next blocks until the next value. Once the stream has ended it returns io.EOF after a normal
// completion, or the error reported by Err.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-s.out:
		if !ok {
			if err := s.Err(); err != nil {
				return zero, err
			}
			return zero, io.EOF
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Err returns why the stream ended: nil when the source completed, griderrors.ErrStreamCancelled
// when the stream was closed by its consumer, or a StreamFailed error.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream[T]) push(v T) {
	if err := s.buf.enqueue(v); err != nil {
		log.Trace().Msg("stream: dropping value pushed after close")
	}
}

func (s *Stream[T]) finish(err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	switch {
	case err == nil, griderrors.IsCode(err, griderrors.StreamFailed), griderrors.IsCode(err, griderrors.StreamCancelled):
		s.err = err
	default:
		s.err = griderrors.Wrap(err, "stream source failed").WithCode(griderrors.StreamFailed)
	}
	s.mu.Unlock()

	s.buf.seal()
}

// Close unsubscribes from the source exactly once and terminates iteration. Buffered values that
// were not consumed yet are dropped.
func (s *Stream[T]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		if !s.finished {
			s.finished = true
			s.err = griderrors.ErrStreamCancelled
		}
		unsubscribe := s.unsubscribe
		s.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		s.buf.close()
		close(s.done)
	})
}

func (s *Stream[T]) setUnsubscribe(u Unsubscribe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribe = u
}

func (s *Stream[T]) pump() {
	defer close(s.out)
	for {
		v, err := s.buf.dequeue()
		if err != nil {
			return
		}
		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}

// streamSink is the producer handle of a Stream.
type streamSink[T any] struct {
	s *Stream[T]
}

func (k streamSink[T]) Push(v T) {
	k.s.push(v)
}

func (k streamSink[T]) Finish(err error) {
	k.s.finish(err)
}

var _ Sink[struct{}] = streamSink[struct{}]{}
