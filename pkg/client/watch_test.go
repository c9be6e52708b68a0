//go:build unit || !integration

package client

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/lib/stream"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/stretchr/testify/mock"
)

// subscription captures the callbacks given to Ledger.Subscribe.
type subscription struct {
	mu           sync.Mutex
	filter       ledger.EventFilter
	onEvent      func(models.Event)
	onError      func(error)
	unsubscribed atomic.Int32
	ready        chan struct{}
}

func (s *ClientSuite) expectSubscription(eventName string) *subscription {
	sub := &subscription{ready: make(chan struct{})}
	s.ledger.On("Subscribe", mock.Anything, event(eventName), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sub.mu.Lock()
			defer sub.mu.Unlock()
			sub.filter = args.Get(1).(ledger.EventFilter)
			sub.onEvent = args.Get(2).(func(models.Event))
			sub.onError = args.Get(3).(func(error))
			close(sub.ready)
		}).
		Return(func() { sub.unsubscribed.Add(1) }, nil).Once()
	return sub
}

func (sub *subscription) emit(e models.Event) {
	<-sub.ready
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.onEvent(e)
}

func (sub *subscription) fail(err error) {
	<-sub.ready
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.onError(err)
}

func transferEvent(from, to common.Address, value int64) models.Event {
	return models.Event{Name: "Transfer", Args: map[string]interface{}{
		"from": from, "to": to, "value": big.NewInt(value),
	}}
}

func approvalEvent(owner, spender common.Address, value int64) models.Event {
	return models.Event{Name: "Approval", Args: map[string]interface{}{
		"owner": owner, "spender": spender, "value": big.NewInt(value),
	}}
}

func next[T any](s *ClientSuite, st *stream.Stream[T]) T {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := st.Next(ctx)
	s.Require().NoError(err)
	return v
}

func (s *ClientSuite) TestWatchBalance() {
	self := s.signer.Address()
	other := common.HexToAddress("0x99")
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Read", mock.Anything, method("balanceOf")).Return([]interface{}{big.NewInt(100)}, nil).Once()
	sub := s.expectSubscription("Transfer")

	st, closeFn, err := s.client.WatchBalance(context.Background())
	s.Require().NoError(err)
	defer closeFn()

	s.Equal(int64(100), next(s, st).Int64())

	sub.emit(transferEvent(self, other, 30))
	s.Equal(int64(70), next(s, st).Int64())

	sub.emit(transferEvent(other, common.HexToAddress("0x98"), 1000))
	sub.emit(transferEvent(other, self, 10))
	s.Equal(int64(80), next(s, st).Int64())

	closeFn()
	closeFn()
	s.Equal(int32(1), sub.unsubscribed.Load())
	s.Equal(creditAddr, sub.filter.Contract)
}

func (s *ClientSuite) TestWatchBalanceSnapshotFailureOpensNoSubscription() {
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Read", mock.Anything, method("balanceOf")).
		Return(nil, griderrors.New("down").WithCode(griderrors.NetworkError))

	_, _, err := s.client.WatchBalance(context.Background())
	s.True(errors.Is(err, griderrors.ErrNetwork))
	s.ledger.AssertNotCalled(s.T(), "Subscribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientSuite) TestWatchBalanceSourceFailure() {
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Read", mock.Anything, method("balanceOf")).Return([]interface{}{big.NewInt(1)}, nil)
	sub := s.expectSubscription("Transfer")

	st, closeFn, err := s.client.WatchBalance(context.Background())
	s.Require().NoError(err)
	defer closeFn()
	next(s, st)

	sub.fail(errors.New("websocket closed"))
	_, err = st.Next(context.Background())
	s.True(errors.Is(err, griderrors.ErrStreamFailed))
}

func (s *ClientSuite) TestWatchAllowance() {
	self := s.signer.Address()
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Read", mock.Anything, method("allowance")).Return([]interface{}{big.NewInt(100)}, nil).Once()
	approvals := s.expectSubscription("Approval")
	transfers := s.expectSubscription("Transfer")

	st, closeFn, err := s.client.WatchAllowance(context.Background())
	s.Require().NoError(err)
	defer closeFn()

	s.Equal(int64(100), next(s, st).Int64())

	transfers.emit(transferEvent(self, metaScheduler, 40))
	s.Equal(int64(60), next(s, st).Int64())

	transfers.emit(transferEvent(self, metaScheduler, 100))
	s.Equal(int64(0), next(s, st).Int64())

	approvals.emit(approvalEvent(self, metaScheduler, 500))
	s.Equal(int64(500), next(s, st).Int64())

	s.Equal([][]interface{}{{self}, {metaScheduler}}, approvals.filter.Query)
	s.Equal([][]interface{}{{self}, {metaScheduler}}, transfers.filter.Query)

	closeFn()
	s.Equal(int32(1), approvals.unsubscribed.Load())
	s.Equal(int32(1), transfers.unsubscribed.Load())
}

func (s *ClientSuite) TestWatchJobTransition() {
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	sub := s.expectSubscription("JobTransitionEvent")

	st, closeFn, err := s.client.WatchJobTransition(context.Background())
	s.Require().NoError(err)
	defer closeFn()

	sub.emit(models.Event{Name: "JobTransitionEvent", Removed: true, Args: map[string]interface{}{
		"_jobId": [32]byte{9}, "_from": uint8(0), "_to": uint8(1),
	}})
	sub.emit(models.Event{Name: "JobTransitionEvent", Args: map[string]interface{}{"_jobId": "garbage"}})
	sub.emit(models.Event{Name: "JobTransitionEvent", Args: map[string]interface{}{
		"_jobId": [32]byte{1}, "_from": uint8(models.JobStatusScheduled), "_to": uint8(models.JobStatusRunning),
	}})

	transition := next(s, st)
	s.Equal(models.JobID{1}, transition.JobID)
	s.Equal(models.JobStatusRunning, transition.To)
}

func (s *ClientSuite) TestWatchNewJobRequest() {
	sub := s.expectSubscription("NewJobRequestEvent")

	st, closeFn, err := s.client.WatchNewJobRequest(context.Background())
	s.Require().NoError(err)
	defer closeFn()

	sub.emit(models.Event{Name: "NewJobRequestEvent", Args: map[string]interface{}{
		"_jobId": [32]byte{3}, "_customerAddr": s.signer.Address(),
	}})
	req := next(s, st)
	s.Equal(models.JobID{3}, req.JobID)
	s.Equal(metaScheduler, sub.filter.Contract)
}

func (s *ClientSuite) TestFoldBalanceSelfTransfer() {
	self := s.signer.Address()
	got := FoldBalance(self, big.NewInt(10), models.Transfer{From: self, To: self, Value: big.NewInt(4)})
	s.Equal(int64(10), got.Int64())
}
