package stream

import "sync"

// SubscribeFunc registers sink with a push-style source and returns how to unsubscribe.
type SubscribeFunc[T any] func(sink Sink[T]) (Unsubscribe, error)

// Bridge subscribes to a push-style source and exposes it as a Stream. The returned CloseFunc
// unsubscribes exactly once, however many times it is called.
func Bridge[T any](subscribe SubscribeFunc[T]) (*Stream[T], CloseFunc, error) {
	s := newStream[T]()
	unsubscribe, err := subscribe(streamSink[T]{s: s})
	if err != nil {
		s.buf.close()
		return nil, nil, err
	}
	s.setUnsubscribe(unsubscribe)

	go s.pump()
	return s, s.Close, nil
}

// SinkFuncs adapts a pair of functions to a Sink.
type SinkFuncs[T any] struct {
	OnPush   func(v T)
	OnFinish func(err error)
}

func (f SinkFuncs[T]) Push(v T) {
	if f.OnPush != nil {
		f.OnPush(v)
	}
}

func (f SinkFuncs[T]) Finish(err error) {
	if f.OnFinish != nil {
		f.OnFinish(err)
	}
}

// Transform maps the values of a source. Values for which transform returns false are skipped.
func Transform[In any, Out any](subscribe SubscribeFunc[In], transform func(In) (Out, bool)) SubscribeFunc[Out] {
	return func(sink Sink[Out]) (Unsubscribe, error) {
		return subscribe(SinkFuncs[In]{
			OnPush: func(v In) {
				if out, ok := transform(v); ok {
					sink.Push(out)
				}
			},
			OnFinish: sink.Finish,
		})
	}
}

// Merge subscribes to every source with the same sink. Order is preserved within a source but
// not across sources. The merged source finishes on the first error, or once every source
// completed.
func Merge[T any](subscribes ...SubscribeFunc[T]) SubscribeFunc[T] {
	return func(sink Sink[T]) (Unsubscribe, error) {
		var mu sync.Mutex
		remaining := len(subscribes)
		finished := false
		finish := func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if finished {
				return
			}
			remaining--
			if err != nil || remaining == 0 {
				finished = true
				sink.Finish(err)
			}
		}

		unsubscribes := make([]Unsubscribe, 0, len(subscribes))
		unsubscribeAll := func() {
			for _, u := range unsubscribes {
				u()
			}
		}
		for _, subscribe := range subscribes {
			u, err := subscribe(SinkFuncs[T]{OnPush: sink.Push, OnFinish: finish})
			if err != nil {
				unsubscribeAll()
				return nil, err
			}
			unsubscribes = append(unsubscribes, u)
		}

		var once sync.Once
		return func() { once.Do(unsubscribeAll) }, nil
	}
}
