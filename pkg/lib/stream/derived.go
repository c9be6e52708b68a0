package stream

import "context"

// WatchDerived streams a value reconstructed from a snapshot and a delta source: the snapshot
// is delivered first, then fold(current, event) for every event.
//
// The snapshot is read before the subscription is opened, with no atomic hand-over between
// them. An event emitted in between is missed, or applied twice if the source replays it.
//
// A failed snapshot read is returned as is and no subscription is opened. ctx only bounds the
// snapshot read; the stream lives until it is closed.
func WatchDerived[S any, E any](
	ctx context.Context,
	snapshot func(context.Context) (S, error),
	subscribe SubscribeFunc[E],
	fold func(S, E) S,
) (*Stream[S], CloseFunc, error) {
	initial, err := snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	events, closeEvents, err := Bridge(subscribe)
	if err != nil {
		return nil, nil, err
	}

	out := newStream[S]()
	out.setUnsubscribe(Unsubscribe(closeEvents))
	out.push(initial)

	go func() {
		current := initial
		for e := range events.Chan() {
			current = fold(current, e)
			out.push(current)
		}
		out.finish(events.Err())
	}()

	go out.pump()
	return out, out.Close, nil
}
