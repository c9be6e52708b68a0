package ledger

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/signer"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const component = "Ledger"

// JSON-RPC error code returned by nodes for a reverted execution.
const revertErrorCode = 3

type EthereumParams struct {
	RPCURL string
	// WSURL is used for log subscriptions. When empty, subscriptions go through RPCURL.
	WSURL   string
	ChainID *big.Int
	Signer  signer.Signer
}

type Ethereum struct {
	caller  bind.ContractBackend
	watcher bind.ContractFilterer
	closers []func()
	chainID *big.Int
	signer  signer.Signer
}

func DialEthereum(ctx context.Context, params EthereumParams) (*Ethereum, error) {
	rpcClient, err := ethclient.DialContext(ctx, params.RPCURL)
	if err != nil {
		return nil, networkError(err, "failed to dial %s", params.RPCURL)
	}
	e := &Ethereum{
		caller:  rpcClient,
		watcher: rpcClient,
		closers: []func(){rpcClient.Close},
		chainID: params.ChainID,
		signer:  params.Signer,
	}
	if params.WSURL != "" && params.WSURL != params.RPCURL {
		wsClient, err := ethclient.DialContext(ctx, params.WSURL)
		if err != nil {
			rpcClient.Close()
			return nil, networkError(err, "failed to dial %s", params.WSURL)
		}
		e.watcher = wsClient
		e.closers = append(e.closers, wsClient.Close)
	}
	if e.chainID == nil {
		if e.chainID, err = rpcClient.ChainID(ctx); err != nil {
			e.Close()
			return nil, networkError(err, "failed to read chain id")
		}
	}
	return e, nil
}

// NewEthereum builds a ledger over already connected backends, such as a simulated chain.
func NewEthereum(caller bind.ContractBackend, watcher bind.ContractFilterer, chainID *big.Int, s signer.Signer) *Ethereum {
	return &Ethereum{caller: caller, watcher: watcher, chainID: chainID, signer: s}
}

func (e *Ethereum) Close() {
	for _, c := range e.closers {
		c()
	}
}

func (e *Ethereum) Account() (common.Address, bool) {
	if e.signer == nil {
		return common.Address{}, false
	}
	return e.signer.Address(), true
}

func (e *Ethereum) contract(address common.Address, contractABI *abi.ABI) *bind.BoundContract {
	return bind.NewBoundContract(address, *contractABI, e.caller, e.caller, e.watcher)
}

func (e *Ethereum) Read(ctx context.Context, call Call) ([]interface{}, error) {
	var out []interface{}
	err := e.contract(call.Contract, call.ABI).Call(&bind.CallOpts{Context: ctx}, &out, call.Method, call.Args...)
	if err != nil {
		return nil, mapCallError(err, call)
	}
	return out, nil
}

func (e *Ethereum) Simulate(ctx context.Context, call Call) ([]interface{}, error) {
	from, ok := e.Account()
	if !ok {
		return nil, griderrors.NewReadOnlyError(call.Method)
	}
	var out []interface{}
	err := e.contract(call.Contract, call.ABI).Call(&bind.CallOpts{Context: ctx, From: from}, &out, call.Method, call.Args...)
	if err != nil {
		return nil, mapCallError(err, call)
	}
	return out, nil
}

func (e *Ethereum) Write(ctx context.Context, call Call) (common.Hash, error) {
	from, ok := e.Account()
	if !ok {
		return common.Hash{}, griderrors.NewReadOnlyError(call.Method)
	}
	opts := &bind.TransactOpts{
		From:    from,
		Context: ctx,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != from {
				return nil, bind.ErrNotAuthorized
			}
			return e.signer.SignTx(ctx, tx, e.chainID)
		},
	}
	tx, err := e.contract(call.Contract, call.ABI).Transact(opts, call.Method, call.Args...)
	if err != nil {
		return common.Hash{}, mapCallError(err, call)
	}
	log.Ctx(ctx).Debug().
		Str("Method", call.Method).
		Str("Contract", call.Contract.Hex()).
		Str("Tx", tx.Hash().Hex()).
		Msg("transaction sent")
	return tx.Hash(), nil
}

func (e *Ethereum) Subscribe(
	ctx context.Context, filter EventFilter, onEvent func(models.Event), onError func(error),
) (func(), error) {
	contract := e.contract(filter.Contract, filter.ABI)
	logs, sub, err := contract.WatchLogs(&bind.WatchOpts{Context: ctx}, filter.Event, filter.Query...)
	if err != nil {
		return nil, networkError(err, "failed to subscribe to %s events", filter.Event)
	}

	quit := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(quit)
			sub.Unsubscribe()
		})
	}

	go func() {
		for {
			select {
			case <-quit:
				return
			case err, ok := <-sub.Err():
				if !ok || err == nil {
					return
				}
				select {
				case <-quit:
				default:
					onError(networkError(err, "%s subscription failed", filter.Event))
				}
				return
			case l := <-logs:
				ev, err := unpackEvent(contract, filter.Event, l)
				if err != nil {
					log.Ctx(ctx).Warn().Err(err).Str("Event", filter.Event).Msg("skipping undecodable log")
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return unsubscribe, nil
}

func unpackEvent(contract *bind.BoundContract, name string, l types.Log) (models.Event, error) {
	args := make(map[string]interface{})
	if err := contract.UnpackLogIntoMap(args, name, l); err != nil {
		return models.Event{}, errors.Wrapf(err, "failed to unpack %s log", name)
	}
	return models.Event{
		Name:     name,
		Args:     args,
		Block:    l.BlockNumber,
		TxIndex:  l.TxIndex,
		LogIndex: l.Index,
		TxHash:   l.TxHash,
		Removed:  l.Removed,
	}, nil
}

func networkError(err error, format string, a ...interface{}) error {
	return griderrors.Wrap(err, format, a...).
		WithCode(griderrors.NetworkError).
		WithComponent(component)
}

// mapCallError separates the ledger refusing a call from the ledger not being reachable.
func mapCallError(err error, call Call) error {
	if reason, ok := revertReason(err); ok {
		rejection := griderrors.Wrap(err, "%s rejected by the ledger", call.Method).
			WithCode(griderrors.ContractRejection).
			WithComponent(component)
		if reason != "" {
			rejection = rejection.WithHint(reason)
		}
		return rejection
	}
	if errors.Is(err, bind.ErrNoCode) {
		return griderrors.Wrap(err, "no contract deployed at %s", call.Contract.Hex()).
			WithCode(griderrors.ConfigurationError).
			WithComponent(component)
	}
	return networkError(err, "%s call failed", call.Method)
}

// revertReason reports whether err is an execution revert, and its decoded reason if the
// node returned one.
func revertReason(err error) (string, bool) {
	var rpcErr rpc.Error
	isRevert := errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode
	if !isRevert && !strings.Contains(err.Error(), "execution reverted") {
		return "", false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decodeErr := hexutil.Decode(data); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return reason, true
				}
			}
		}
	}
	return "", true
}

// compile time check whether the Ethereum implements the Ledger interface
var _ Ledger = (*Ethereum)(nil)
