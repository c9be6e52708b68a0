package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/lib/stream"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/rs/zerolog/log"
)

// subscribe opens a ledger log subscription as a stream source.
func (c *Client) subscribe(ctx context.Context, filter ledger.EventFilter) stream.SubscribeFunc[models.Event] {
	return func(sink stream.Sink[models.Event]) (stream.Unsubscribe, error) {
		unsubscribe, err := c.ledger.Subscribe(ctx, filter, sink.Push, sink.Finish)
		if err != nil {
			return nil, err
		}
		return unsubscribe, nil
	}
}

// watchEvents streams the events of a contract decoded to T. Logs reverted by a reorganisation
// and logs that fail to decode are skipped.
func watchEvents[T any](
	ctx context.Context, c *Client, contract common.Address, contractABI *abi.ABI, event string,
	decode func(models.Event) (T, error),
) (*stream.Stream[T], stream.CloseFunc, error) {
	filter := ledger.EventFilter{Contract: contract, ABI: contractABI, Event: event}
	return stream.Bridge(stream.Transform(c.subscribe(ctx, filter), func(e models.Event) (T, bool) {
		return decodeEvent(ctx, e, decode)
	}))
}

func decodeEvent[T any](ctx context.Context, e models.Event, decode func(models.Event) (T, error)) (T, bool) {
	var zero T
	if e.Removed {
		log.Ctx(ctx).Debug().Str("Event", e.Name).Uint64("Block", e.Block).Msg("skipping removed log")
		return zero, false
	}
	v, err := decode(e)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("Event", e.Name).Msg("skipping undecodable event")
		return zero, false
	}
	return v, true
}

// WatchTransfer streams every credit transfer.
func (c *Client) WatchTransfer(ctx context.Context) (*stream.Stream[models.Transfer], stream.CloseFunc, error) {
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return nil, nil, err
	}
	return watchEvents(ctx, c, credit, ledger.CreditABI, "Transfer", models.Event.ToTransfer)
}

// WatchApproval streams every allowance change.
func (c *Client) WatchApproval(ctx context.Context) (*stream.Stream[models.Approval], stream.CloseFunc, error) {
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return nil, nil, err
	}
	return watchEvents(ctx, c, credit, ledger.CreditABI, "Approval", models.Event.ToApproval)
}

// WatchJobTransition streams the status changes of every job.
func (c *Client) WatchJobTransition(ctx context.Context) (*stream.Stream[models.JobTransition], stream.CloseFunc, error) {
	repo, err := c.contractAddress(ctx, jobRepositoryContract)
	if err != nil {
		return nil, nil, err
	}
	return watchEvents(ctx, c, repo, ledger.JobRepositoryABI, "JobTransitionEvent", models.Event.ToJobTransition)
}

// WatchNewJobRequest streams every job registered on the ledger.
func (c *Client) WatchNewJobRequest(ctx context.Context) (*stream.Stream[models.NewJobRequest], stream.CloseFunc, error) {
	return watchEvents(ctx, c, c.metaScheduler, ledger.MetaSchedulerABI, "NewJobRequestEvent", models.Event.ToNewJobRequest)
}

// WatchBalance streams the credit balance of the account: the current balance first, then the
// balance after every transfer from or to the account.
func (c *Client) WatchBalance(ctx context.Context) (*stream.Stream[*big.Int], stream.CloseFunc, error) {
	account, err := c.requireSigner("WatchBalance")
	if err != nil {
		return nil, nil, err
	}
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return nil, nil, err
	}

	transfers := stream.Transform(
		c.subscribe(ctx, ledger.EventFilter{Contract: credit, ABI: ledger.CreditABI, Event: "Transfer"}),
		func(e models.Event) (models.Transfer, bool) {
			t, ok := decodeEvent(ctx, e, models.Event.ToTransfer)
			return t, ok && (t.From == account || t.To == account)
		},
	)
	return stream.WatchDerived(ctx, c.GetBalance, transfers, func(balance *big.Int, t models.Transfer) *big.Int {
		return FoldBalance(account, balance, t)
	})
}

// WatchAllowance streams the allowance of the meta-scheduler on the account: the current
// allowance first, then the allowance after every approval and every credit drawn by the
// meta-scheduler. Approvals and transfers come from two subscriptions, their relative order is
// not guaranteed.
func (c *Client) WatchAllowance(ctx context.Context) (*stream.Stream[*big.Int], stream.CloseFunc, error) {
	account, err := c.requireSigner("WatchAllowance")
	if err != nil {
		return nil, nil, err
	}
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return nil, nil, err
	}

	ownerAndSpender := [][]interface{}{{account}, {c.metaScheduler}}
	events := stream.Merge(
		c.subscribe(ctx, ledger.EventFilter{Contract: credit, ABI: ledger.CreditABI, Event: "Approval", Query: ownerAndSpender}),
		c.subscribe(ctx, ledger.EventFilter{Contract: credit, ABI: ledger.CreditABI, Event: "Transfer", Query: ownerAndSpender}),
	)
	relevant := stream.Transform(events, func(e models.Event) (models.Event, bool) {
		return e, !e.Removed
	})
	return stream.WatchDerived(ctx, c.GetAllowance, relevant, func(allowance *big.Int, e models.Event) *big.Int {
		return c.foldAllowance(ctx, account, allowance, e)
	})
}

// FoldBalance applies a transfer to the balance of account.
func FoldBalance(account common.Address, balance *big.Int, t models.Transfer) *big.Int {
	next := new(big.Int).Set(balance)
	if t.From == account {
		next.Sub(next, t.Value)
	}
	if t.To == account {
		next.Add(next, t.Value)
	}
	return next
}

func (c *Client) foldAllowance(ctx context.Context, account common.Address, allowance *big.Int, e models.Event) *big.Int {
	switch e.Name {
	case "Approval":
		a, err := e.ToApproval()
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("skipping undecodable approval")
			return allowance
		}
		return FoldApproval(account, c.metaScheduler, allowance, a)
	case "Transfer":
		t, err := e.ToTransfer()
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("skipping undecodable transfer")
			return allowance
		}
		return FoldAllowanceSpend(account, c.metaScheduler, allowance, t)
	default:
		return allowance
	}
}

// FoldApproval replaces the allowance when owner approved spender.
func FoldApproval(owner, spender common.Address, allowance *big.Int, a models.Approval) *big.Int {
	if a.Owner != owner || a.Spender != spender {
		return allowance
	}
	return new(big.Int).Set(a.Value)
}

// FoldAllowanceSpend lowers the allowance by the credits spender drew from owner, down to zero.
func FoldAllowanceSpend(owner, spender common.Address, allowance *big.Int, t models.Transfer) *big.Int {
	if t.From != owner || t.To != spender {
		return allowance
	}
	next := new(big.Int).Sub(allowance, t.Value)
	if next.Sign() < 0 {
		next.SetInt64(0)
	}
	return next
}
