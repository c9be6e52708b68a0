//go:build unit || !integration

package client

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/stretchr/testify/mock"
)

func (s *ClientSuite) expectContract(getter string, addr common.Address) {
	s.ledger.On("Read", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Contract == metaScheduler && call.Method == getter
	})).Return([]interface{}{addr}, nil).Once()
}

func (s *ClientSuite) jobTuple(id [32]byte, provider common.Address, status models.JobStatus) ledger.JobTuple {
	name, _ := ledger.EncodeJobName("hello")
	return ledger.JobTuple{
		JobId:        id,
		Status:       uint8(status),
		CustomerAddr: s.signer.Address(),
		ProviderAddr: provider,
		Definition:   ledger.JobDefinitionTuple{Ntasks: 1, CpusPerTask: 1},
		Cost:         ledger.JobCostTuple{MaxCost: big.NewInt(100), FinalCost: big.NewInt(0)},
		Time:         ledger.JobTimeTuple{Start: big.NewInt(60), End: big.NewInt(0)},
		JobName:      name,
	}
}

func (s *ClientSuite) providerTuple() ledger.ProviderTuple {
	return ledger.ProviderTuple{
		Addr: providerAddr,
		ProviderPrices: ledger.ProviderPricesTuple{
			GpuPricePerMin: big.NewInt(0),
			CpuPricePerMin: big.NewInt(1_000_000),
			MemPricePerMin: big.NewInt(0),
		},
		Status: uint8(models.ProviderStatusJoined),
		Valid:  true,
	}
}

func (s *ClientSuite) TestGetJobClaimed() {
	id := [32]byte{1}
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.expectContract(providerManagerContract, common.HexToAddress("0xf0"))
	s.ledger.On("Read", mock.Anything, method("get")).
		Return([]interface{}{s.jobTuple(id, providerAddr, models.JobStatusRunning)}, nil)
	s.ledger.On("Read", mock.Anything, method("getProvider")).
		Return([]interface{}{s.providerTuple()}, nil)

	summary, err := s.client.GetJob(context.Background(), models.JobID(id))
	s.Require().NoError(err)
	s.Equal("hello", summary.Name)
	s.Equal(models.JobStatusRunning, summary.Status)
	s.Require().NotNil(summary.Provider)
	s.Equal(providerAddr, summary.Provider.Addr)
}

func (s *ClientSuite) TestGetJobUnclaimedHasNoProvider() {
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.ledger.On("Read", mock.Anything, method("get")).
		Return([]interface{}{s.jobTuple([32]byte{1}, common.Address{}, models.JobStatusPending)}, nil)

	summary, err := s.client.GetJob(context.Background(), models.JobID{1})
	s.Require().NoError(err)
	s.Nil(summary.Provider)
	s.Nil(summary.Prices())
	s.ledger.AssertNotCalled(s.T(), "Read", mock.Anything, method("getProvider"))
}

func (s *ClientSuite) TestContractAddressIsCached() {
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.ledger.On("Read", mock.Anything, method("getByCustomer")).
		Return([]interface{}{[][32]byte{{1}, {2}}}, nil).Twice()

	for i := 0; i < 2; i++ {
		ids, err := s.client.ListJobs(context.Background(), s.signer.Address())
		s.Require().NoError(err)
		s.Equal([]models.JobID{{1}, {2}}, ids)
	}
	s.ledger.AssertNumberOfCalls(s.T(), "Read", 3)
}

func (s *ClientSuite) TestContractAddressFailureIsNotCached() {
	s.ledger.On("Read", mock.Anything, method(jobRepositoryContract)).
		Return(nil, griderrors.New("down").WithCode(griderrors.NetworkError)).Once()
	_, err := s.client.ListJobs(context.Background(), s.signer.Address())
	s.True(errors.Is(err, griderrors.ErrNetwork))

	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.ledger.On("Read", mock.Anything, method("getByCustomer")).Return([]interface{}{[][32]byte{}}, nil)
	ids, err := s.client.ListJobs(context.Background(), s.signer.Address())
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *ClientSuite) TestJobs() {
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.ledger.On("Read", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "getByCustomer" && call.Args[0] == s.signer.Address()
	})).Return([]interface{}{[][32]byte{{1}, {2}}}, nil)
	s.ledger.On("Read", mock.Anything, method("get")).
		Return(func(_ context.Context, call ledger.Call) []interface{} {
			return []interface{}{s.jobTuple(call.Args[0].([32]byte), common.Address{}, models.JobStatusPending)}
		}, nil)

	jobs, err := s.client.Jobs(context.Background())
	s.Require().NoError(err)
	s.Require().Len(jobs, 2)
	s.Equal(models.JobID{2}, jobs[1].ID)

	_, err = s.newClient(nil).Jobs(context.Background())
	s.True(errors.Is(err, griderrors.ErrConfiguration))
}

func (s *ClientSuite) TestJobCost() {
	s.clock.Set(time.Unix(60+30*60, 0))
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.expectContract(providerManagerContract, common.HexToAddress("0xf0"))
	s.ledger.On("Read", mock.Anything, method("get")).
		Return([]interface{}{s.jobTuple([32]byte{1}, providerAddr, models.JobStatusRunning)}, nil)
	s.ledger.On("Read", mock.Anything, method("getProvider")).
		Return([]interface{}{s.providerTuple()}, nil)

	_, estimate, err := s.client.JobCost(context.Background(), models.JobID{1})
	s.Require().NoError(err)
	s.True(estimate.Known)
	s.Equal(int64(1), estimate.CostPerMinute.Int64())
	s.Equal(int64(30), estimate.Cost.Int64())
	s.Equal(70*time.Minute, estimate.TimeLeft)
}

func (s *ClientSuite) TestJobCostUnclaimedIsUnknown() {
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.ledger.On("Read", mock.Anything, method("get")).
		Return([]interface{}{s.jobTuple([32]byte{1}, common.Address{}, models.JobStatusPending)}, nil)

	_, estimate, err := s.client.JobCost(context.Background(), models.JobID{1})
	s.Require().NoError(err)
	s.False(estimate.Known)
}

func (s *ClientSuite) TestTopUpAndCancel() {
	s.ledger.On("Write", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "topUpJob" && call.Contract == metaScheduler &&
			call.Args[0] == [32]byte{1} && call.Args[1].(*big.Int).Int64() == 50
	})).Return(common.HexToHash("0xaa"), nil).Once()
	s.ledger.On("Write", mock.Anything, method("cancelJob")).Return(common.HexToHash("0xbb"), nil).Once()

	tx, err := s.client.TopUp(context.Background(), models.JobID{1}, big.NewInt(50))
	s.Require().NoError(err)
	s.Equal(common.HexToHash("0xaa"), tx)

	tx, err = s.client.Cancel(context.Background(), models.JobID{1})
	s.Require().NoError(err)
	s.Equal(common.HexToHash("0xbb"), tx)

	readOnly := s.newClient(nil)
	_, err = readOnly.TopUp(context.Background(), models.JobID{1}, big.NewInt(50))
	s.True(errors.Is(err, griderrors.ErrConfiguration))
	_, err = readOnly.Cancel(context.Background(), models.JobID{1})
	s.True(errors.Is(err, griderrors.ErrConfiguration))
	s.ledger.AssertExpectations(s.T())
}

func (s *ClientSuite) TestJobsFailsWhenAnyJobFails() {
	s.expectContract(jobRepositoryContract, jobRepoAddr)
	s.ledger.On("Read", mock.Anything, method("getByCustomer")).
		Return([]interface{}{[][32]byte{{1}, {2}, {3}}}, nil)
	s.ledger.On("Read", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "get" && call.Args[0] == [32]byte{2}
	})).Return(nil, griderrors.New("down").WithCode(griderrors.NetworkError))
	s.ledger.On("Read", mock.Anything, method("get")).
		Return(func(_ context.Context, call ledger.Call) []interface{} {
			return []interface{}{s.jobTuple(call.Args[0].([32]byte), common.Address{}, models.JobStatusRunning)}
		}, nil)

	_, err := s.client.Jobs(context.Background())
	s.True(errors.Is(err, griderrors.ErrNetwork))
}
