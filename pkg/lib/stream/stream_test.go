//go:build unit || !integration

package stream

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gridlab/gridclient/pkg/griderrors"
)

// fakeSource is a push-style source that records subscribe/unsubscribe calls.
type fakeSource[T any] struct {
	mu           sync.Mutex
	sink         Sink[T]
	subscribed   atomic.Int32
	unsubscribed atomic.Int32
	err          error
}

func (f *fakeSource[T]) subscribe(sink Sink[T]) (Unsubscribe, error) {
	f.subscribed.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.sink = sink
	f.mu.Unlock()
	return func() { f.unsubscribed.Add(1) }, nil
}

func (f *fakeSource[T]) emit(values ...T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range values {
		f.sink.Push(v)
	}
}

func (f *fakeSource[T]) finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sink.Finish(err)
}

type StreamTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestStreamTestSuite(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}

func (s *StreamTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s.T().Cleanup(cancel)
	s.ctx = ctx
}

func (s *StreamTestSuite) next(st *Stream[int]) int {
	v, err := st.Next(s.ctx)
	s.Require().NoError(err)
	return v
}

func (s *StreamTestSuite) TestBridgePreservesOrder() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)
	defer closeFn()

	for i := 0; i < 1000; i++ {
		src.emit(i)
	}
	for i := 0; i < 1000; i++ {
		s.Equal(i, s.next(st))
	}
}

func (s *StreamTestSuite) TestBridgeSubscribeError() {
	src := &fakeSource[int]{err: errors.New("dial failed")}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().EqualError(err, "dial failed")
	s.Nil(st)
	s.Nil(closeFn)
}

func (s *StreamTestSuite) TestCloseUnsubscribesOnce() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			closeFn()
		}()
	}
	wg.Wait()
	closeFn()

	s.Equal(int32(1), src.unsubscribed.Load())
	_, err = st.Next(s.ctx)
	s.ErrorIs(err, griderrors.ErrStreamCancelled)
	s.ErrorIs(st.Err(), griderrors.ErrStreamCancelled)
}

func (s *StreamTestSuite) TestPushAfterCloseIsDropped() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)

	closeFn()
	s.NotPanics(func() { src.emit(1, 2, 3) })

	_, ok := <-st.Chan()
	s.False(ok)
	s.Zero(st.buf.len())
}

func (s *StreamTestSuite) TestCloseTerminatesBlockedIteration() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range st.Chan() {
		}
	}()

	closeFn()
	select {
	case <-done:
	case <-s.ctx.Done():
		s.Fail("iteration did not terminate after close")
	}
}

func (s *StreamTestSuite) TestSourceCompletionDrainsBuffer() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)
	defer closeFn()

	src.emit(1, 2)
	src.finish(nil)
	src.emit(3)

	s.Equal(1, s.next(st))
	s.Equal(2, s.next(st))
	_, err = st.Next(s.ctx)
	s.ErrorIs(err, io.EOF)
	s.NoError(st.Err())
}

func (s *StreamTestSuite) TestSourceFailure() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)
	defer closeFn()

	src.finish(errors.New("websocket closed"))

	_, err = st.Next(s.ctx)
	s.ErrorIs(err, griderrors.ErrStreamFailed)
	s.ErrorContains(err, "websocket closed")
	s.NotErrorIs(err, griderrors.ErrStreamCancelled)
}

func (s *StreamTestSuite) TestCloseAfterCompletionKeepsResult() {
	src := &fakeSource[int]{}
	st, closeFn, err := Bridge(src.subscribe)
	s.Require().NoError(err)

	src.finish(nil)
	closeFn()
	s.NoError(st.Err())
	s.Equal(int32(1), src.unsubscribed.Load())
}

func (s *StreamTestSuite) TestTransform() {
	src := &fakeSource[int]{}
	evens := Transform(src.subscribe, func(v int) (string, bool) {
		return string(rune('a' + v)), v%2 == 0
	})
	st, closeFn, err := Bridge(evens)
	s.Require().NoError(err)
	defer closeFn()

	src.emit(0, 1, 2, 3, 4)
	for _, want := range []string{"a", "c", "e"} {
		v, err := st.Next(s.ctx)
		s.Require().NoError(err)
		s.Equal(want, v)
	}
}

func (s *StreamTestSuite) TestMerge() {
	a, b := &fakeSource[int]{}, &fakeSource[int]{}
	st, closeFn, err := Bridge(Merge(a.subscribe, b.subscribe))
	s.Require().NoError(err)

	a.emit(1)
	b.emit(2)
	got := []int{s.next(st), s.next(st)}
	s.ElementsMatch([]int{1, 2}, got)

	closeFn()
	closeFn()
	s.Equal(int32(1), a.unsubscribed.Load())
	s.Equal(int32(1), b.unsubscribed.Load())
}

func (s *StreamTestSuite) TestMergeSubscribeErrorUnsubscribesOpenedSources() {
	a, b := &fakeSource[int]{}, &fakeSource[int]{err: errors.New("boom")}
	_, _, err := Bridge(Merge(a.subscribe, b.subscribe))
	s.Require().Error(err)
	s.Equal(int32(1), a.unsubscribed.Load())
}

func (s *StreamTestSuite) TestMergeCompletesWhenAllSourcesComplete() {
	a, b := &fakeSource[int]{}, &fakeSource[int]{}
	st, closeFn, err := Bridge(Merge(a.subscribe, b.subscribe))
	s.Require().NoError(err)
	defer closeFn()

	a.finish(nil)
	b.emit(7)
	b.finish(nil)

	s.Equal(7, s.next(st))
	_, err = st.Next(s.ctx)
	s.ErrorIs(err, io.EOF)
}

type balanceTransfer struct {
	out   bool
	value int64
}

func foldBalance(balance *big.Int, t balanceTransfer) *big.Int {
	v := big.NewInt(t.value)
	if t.out {
		return new(big.Int).Sub(balance, v)
	}
	return new(big.Int).Add(balance, v)
}

func (s *StreamTestSuite) TestWatchDerivedBalance() {
	src := &fakeSource[balanceTransfer]{}
	snapshot := func(context.Context) (*big.Int, error) { return big.NewInt(100), nil }

	st, closeFn, err := WatchDerived(s.ctx, snapshot, src.subscribe, foldBalance)
	s.Require().NoError(err)
	defer closeFn()

	src.emit(balanceTransfer{out: true, value: 30}, balanceTransfer{value: 10})

	for _, want := range []int64{100, 70, 80} {
		v, err := st.Next(s.ctx)
		s.Require().NoError(err)
		s.Equal(want, v.Int64())
	}
}

func (s *StreamTestSuite) TestWatchDerivedSnapshotError() {
	src := &fakeSource[balanceTransfer]{}
	snapshot := func(context.Context) (*big.Int, error) { return nil, errors.New("rpc unavailable") }

	st, closeFn, err := WatchDerived(s.ctx, snapshot, src.subscribe, foldBalance)
	s.Require().EqualError(err, "rpc unavailable")
	s.Nil(st)
	s.Nil(closeFn)
	s.Zero(src.subscribed.Load())
}

func (s *StreamTestSuite) TestWatchDerivedCloseTwice() {
	src := &fakeSource[balanceTransfer]{}
	snapshot := func(context.Context) (*big.Int, error) { return big.NewInt(5), nil }

	st, closeFn, err := WatchDerived(s.ctx, snapshot, src.subscribe, foldBalance)
	s.Require().NoError(err)

	first, err := st.Next(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), first.Int64())

	closeFn()
	closeFn()
	src.emit(balanceTransfer{value: 1})

	s.Equal(int32(1), src.unsubscribed.Load())
	_, err = st.Next(s.ctx)
	s.ErrorIs(err, griderrors.ErrStreamCancelled)
}

func (s *StreamTestSuite) TestWatchDerivedPropagatesSourceFailure() {
	src := &fakeSource[balanceTransfer]{}
	snapshot := func(context.Context) (*big.Int, error) { return big.NewInt(5), nil }

	st, closeFn, err := WatchDerived(s.ctx, snapshot, src.subscribe, foldBalance)
	s.Require().NoError(err)
	defer closeFn()

	src.finish(errors.New("node went away"))
	v, err := st.Next(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), v.Int64())

	_, err = st.Next(s.ctx)
	s.ErrorIs(err, griderrors.ErrStreamFailed)
}
