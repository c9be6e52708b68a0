package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/lib/validate"
	"github.com/gridlab/gridclient/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// SetAllowance sets the amount of credits the meta-scheduler may draw from the account to pay
// for jobs.
func (c *Client) SetAllowance(ctx context.Context, amount *big.Int) (common.Hash, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.SetAllowance")
	defer span.End()

	if _, err := c.requireSigner("SetAllowance"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, err)
	}
	if err := validate.IsNonNegativeAmount(amount, "allowance must not be negative"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, validationError(err))
	}
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return common.Hash{}, telemetry.RecordError(span, err)
	}
	tx, err := c.write(ctx, credit, ledger.CreditABI, "approve", c.metaScheduler, amount)
	return tx, telemetry.RecordError(span, err)
}

// GetAllowance returns the amount of credits the meta-scheduler may still draw from the account.
func (c *Client) GetAllowance(ctx context.Context) (*big.Int, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.GetAllowance")
	defer span.End()

	account, err := c.requireSigner("GetAllowance")
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	allowance, err := readValue[*big.Int](ctx, c, credit, ledger.CreditABI, "allowance", account, c.metaScheduler)
	return allowance, telemetry.RecordError(span, err)
}

func (c *Client) GetBalance(ctx context.Context) (*big.Int, error) {
	account, err := c.requireSigner("GetBalance")
	if err != nil {
		return nil, err
	}
	return c.GetBalanceOf(ctx, account)
}

func (c *Client) GetBalanceOf(ctx context.Context, address common.Address) (*big.Int, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.GetBalanceOf", attribute.String(telemetry.AttributeAccount, address.Hex()))
	defer span.End()

	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	balance, err := readValue[*big.Int](ctx, c, credit, ledger.CreditABI, "balanceOf", address)
	return balance, telemetry.RecordError(span, err)
}

func (c *Client) TransferCredits(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.TransferCredits", attribute.String("to", to.Hex()))
	defer span.End()

	if _, err := c.requireSigner("TransferCredits"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, err)
	}
	if err := validate.IsPositiveAmount(amount, "transfer amount must be greater than zero"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, validationError(err))
	}
	credit, err := c.contractAddress(ctx, creditContract)
	if err != nil {
		return common.Hash{}, telemetry.RecordError(span, err)
	}
	tx, err := c.write(ctx, credit, ledger.CreditABI, "transfer", to, amount)
	return tx, telemetry.RecordError(span, err)
}
