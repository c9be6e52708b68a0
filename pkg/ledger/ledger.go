// Package ledger is the client's boundary to the ledger network: contract reads, simulated
// and signed contract calls, and event log subscriptions.
package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/models"
)

type Call struct {
	Contract common.Address
	ABI      *abi.ABI
	Method   string
	Args     []interface{}
}

type EventFilter struct {
	Contract common.Address
	ABI      *abi.ABI
	Event    string
	// Query restricts indexed arguments, one entry per indexed argument in declaration order.
	// A nil entry matches any value.
	Query [][]interface{}
}

type Ledger interface {
	// Account returns the address write operations are sent from, and false when the
	// ledger has no signer.
	Account() (common.Address, bool)
	Read(ctx context.Context, call Call) ([]interface{}, error)
	// Simulate runs a state-changing call against the latest block without committing it,
	// from the signer's account, and returns what the call would return.
	Simulate(ctx context.Context, call Call) ([]interface{}, error)
	// Write signs and sends a state-changing call and returns the transaction hash.
	Write(ctx context.Context, call Call) (common.Hash, error)
	// Subscribe delivers every log matching filter to onEvent, in ledger order, until the
	// returned function is called or the subscription fails, in which case onError is called
	// once.
	Subscribe(ctx context.Context, filter EventFilter, onEvent func(models.Event), onError func(error)) (func(), error)
}
