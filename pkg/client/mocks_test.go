//go:build unit || !integration

package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Account() (common.Address, bool) {
	args := m.Called()
	return args.Get(0).(common.Address), args.Bool(1)
}

func (m *mockLedger) Read(ctx context.Context, call ledger.Call) ([]interface{}, error) {
	args := m.Called(ctx, call)
	return returnValues(ctx, call, args), args.Error(1)
}

func (m *mockLedger) Simulate(ctx context.Context, call ledger.Call) ([]interface{}, error) {
	args := m.Called(ctx, call)
	return returnValues(ctx, call, args), args.Error(1)
}

func (m *mockLedger) Write(ctx context.Context, call ledger.Call) (common.Hash, error) {
	args := m.Called(ctx, call)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *mockLedger) Subscribe(
	ctx context.Context, filter ledger.EventFilter, onEvent func(models.Event), onError func(error),
) (func(), error) {
	args := m.Called(ctx, filter, onEvent, onError)
	unsubscribe, _ := args.Get(0).(func())
	return unsubscribe, args.Error(1)
}

// returnValues accepts either the values or a function computing them from the call.
func returnValues(ctx context.Context, call ledger.Call, args mock.Arguments) []interface{} {
	if fn, ok := args.Get(0).(func(context.Context, ledger.Call) []interface{}); ok {
		return fn(ctx, call)
	}
	out, _ := args.Get(0).([]interface{})
	return out
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Submit(ctx context.Context, job *models.BatchJob) (string, error) {
	args := m.Called(ctx, job)
	return args.String(0), args.Error(1)
}

func method(name string) interface{} {
	return mock.MatchedBy(func(call ledger.Call) bool { return call.Method == name })
}

func event(name string) interface{} {
	return mock.MatchedBy(func(filter ledger.EventFilter) bool { return filter.Event == name })
}
