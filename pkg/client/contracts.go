package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/ledger"
)

// Getter names on the meta-scheduler returning the address of the other contracts.
const (
	creditContract          = "credit"
	providerManagerContract = "providerManager"
	jobRepositoryContract   = "jobs"
)

// contractAddress resolves a contract address from the meta-scheduler once, then serves it
// from cache. Failed resolutions are not cached.
func (c *Client) contractAddress(ctx context.Context, getter string) (common.Address, error) {
	c.addrMu.Lock()
	addr, ok := c.addresses[getter]
	c.addrMu.Unlock()
	if ok {
		return addr, nil
	}

	addr, err := readValue[common.Address](ctx, c, c.metaScheduler, ledger.MetaSchedulerABI, getter)
	if err != nil {
		return common.Address{}, err
	}

	c.addrMu.Lock()
	c.addresses[getter] = addr
	c.addrMu.Unlock()
	return addr, nil
}

func (c *Client) read(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	return c.ledger.Read(ctx, ledger.Call{Contract: contract, ABI: contractABI, Method: method, Args: args})
}

// readValue reads a method returning a single value of type T.
func readValue[T any](
	ctx context.Context, c *Client, contract common.Address, contractABI *abi.ABI, method string, args ...interface{},
) (T, error) {
	out, err := c.read(ctx, contract, contractABI, method, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := ledger.Decode[T](out)
	if err != nil {
		return v, griderrors.Wrap(err, "unexpected %s result", method).
			WithCode(griderrors.NetworkError).
			WithComponent(component)
	}
	return v, nil
}

func (c *Client) write(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...interface{}) (common.Hash, error) {
	return c.ledger.Write(ctx, ledger.Call{Contract: contract, ABI: contractABI, Method: method, Args: args})
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}
