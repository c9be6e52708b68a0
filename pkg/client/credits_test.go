//go:build unit || !integration

package client

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/stretchr/testify/mock"
)

func (s *ClientSuite) TestSetAllowance() {
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Write", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Contract == creditAddr && call.Method == "approve" &&
			call.Args[0] == metaScheduler && call.Args[1].(*big.Int).Int64() == 1000
	})).Return(common.HexToHash("0x01"), nil).Once()

	_, err := s.client.SetAllowance(context.Background(), big.NewInt(1000))
	s.Require().NoError(err)
	s.ledger.AssertExpectations(s.T())
}

func (s *ClientSuite) TestGetAllowance() {
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Read", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "allowance" && call.Args[0] == s.signer.Address() && call.Args[1] == metaScheduler
	})).Return([]interface{}{big.NewInt(250)}, nil)

	allowance, err := s.client.GetAllowance(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(250), allowance.Int64())
}

func (s *ClientSuite) TestBalances() {
	other := common.HexToAddress("0x99")
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Read", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "balanceOf" && call.Args[0] == s.signer.Address()
	})).Return([]interface{}{big.NewInt(100)}, nil)
	s.ledger.On("Read", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "balanceOf" && call.Args[0] == other
	})).Return([]interface{}{big.NewInt(7)}, nil)

	balance, err := s.client.GetBalance(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(100), balance.Int64())

	balance, err = s.client.GetBalanceOf(context.Background(), other)
	s.Require().NoError(err)
	s.Equal(int64(7), balance.Int64())
}

func (s *ClientSuite) TestTransferCredits() {
	to := common.HexToAddress("0x99")
	s.expectContract(creditContract, creditAddr)
	s.ledger.On("Write", mock.Anything, mock.MatchedBy(func(call ledger.Call) bool {
		return call.Method == "transfer" && call.Args[0] == to
	})).Return(common.HexToHash("0x02"), nil).Once()

	tx, err := s.client.TransferCredits(context.Background(), to, big.NewInt(5))
	s.Require().NoError(err)
	s.Equal(common.HexToHash("0x02"), tx)
}

func (s *ClientSuite) TestCreditWritesRequireSigner() {
	readOnly := s.newClient(nil)
	_, err := readOnly.SetAllowance(context.Background(), big.NewInt(1))
	s.True(errors.Is(err, griderrors.ErrConfiguration))
	_, err = readOnly.GetAllowance(context.Background())
	s.True(errors.Is(err, griderrors.ErrConfiguration))
	_, err = readOnly.GetBalance(context.Background())
	s.True(errors.Is(err, griderrors.ErrConfiguration))
	_, err = readOnly.TransferCredits(context.Background(), common.Address{}, big.NewInt(1))
	s.True(errors.Is(err, griderrors.ErrConfiguration))
	s.ledger.AssertNotCalled(s.T(), "Read", mock.Anything, mock.Anything)
	s.ledger.AssertNotCalled(s.T(), "Write", mock.Anything, mock.Anything)
}

func (s *ClientSuite) TestCreditAmountsAreValidated() {
	_, err := s.client.SetAllowance(context.Background(), big.NewInt(-1))
	s.True(errors.Is(err, griderrors.ErrValidation))
	_, err = s.client.TransferCredits(context.Background(), common.HexToAddress("0x99"), big.NewInt(0))
	s.True(errors.Is(err, griderrors.ErrValidation))
	_, err = s.client.TopUp(context.Background(), [32]byte{1}, nil)
	s.True(errors.Is(err, griderrors.ErrValidation))
	s.ledger.AssertNotCalled(s.T(), "Read", mock.Anything, mock.Anything)
	s.ledger.AssertNotCalled(s.T(), "Write", mock.Anything, mock.Anything)
}
