package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/cost"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/lib/validate"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.ptx.dk/multierrgroup"
)

// GetJob returns the job with its provider. Provider is nil while the job is not claimed.
func (c *Client) GetJob(ctx context.Context, id models.JobID) (*models.JobSummary, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.GetJob", attribute.String(telemetry.AttributeJobID, id.Hex()))
	defer span.End()

	repo, err := c.contractAddress(ctx, jobRepositoryContract)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	raw, err := readValue[ledger.JobTuple](ctx, c, repo, ledger.JobRepositoryABI, "get", [32]byte(id))
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}

	summary := &models.JobSummary{Job: raw.ToModel()}
	if !summary.IsClaimed() {
		return summary, nil
	}

	provider, err := c.GetProvider(ctx, summary.ProviderAddr)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	summary.Provider = provider
	return summary, nil
}

func (c *Client) GetProvider(ctx context.Context, addr common.Address) (*models.Provider, error) {
	manager, err := c.contractAddress(ctx, providerManagerContract)
	if err != nil {
		return nil, err
	}
	raw, err := readValue[ledger.ProviderTuple](ctx, c, manager, ledger.ProviderManagerABI, "getProvider", addr)
	if err != nil {
		return nil, err
	}
	provider := raw.ToModel()
	return &provider, nil
}

// ListJobs returns the ids of every job submitted by address.
func (c *Client) ListJobs(ctx context.Context, address common.Address) ([]models.JobID, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.ListJobs", attribute.String(telemetry.AttributeAccount, address.Hex()))
	defer span.End()

	repo, err := c.contractAddress(ctx, jobRepositoryContract)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	raw, err := readValue[[][32]byte](ctx, c, repo, ledger.JobRepositoryABI, "getByCustomer", address)
	if err != nil {
		return nil, telemetry.RecordError(span, err)
	}
	ids := make([]models.JobID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, models.JobID(id))
	}
	return ids, nil
}

// Jobs returns every job of the client's account, in ledger order. The jobs are read
// concurrently.
func (c *Client) Jobs(ctx context.Context) ([]models.JobSummary, error) {
	account, err := c.requireSigner("Jobs")
	if err != nil {
		return nil, err
	}
	ids, err := c.ListJobs(ctx, account)
	if err != nil {
		return nil, err
	}
	jobs := make([]models.JobSummary, len(ids))
	group := multierrgroup.Group{}
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			summary, err := c.GetJob(ctx, id)
			if err != nil {
				return err
			}
			jobs[i] = *summary
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// TopUp adds amount credits to the allocation of a running job.
func (c *Client) TopUp(ctx context.Context, id models.JobID, amount *big.Int) (common.Hash, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.TopUp", attribute.String(telemetry.AttributeJobID, id.Hex()))
	defer span.End()

	if _, err := c.requireSigner("TopUp"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, err)
	}
	if err := validate.IsPositiveAmount(amount, "top up amount must be greater than zero"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, validationError(err))
	}
	tx, err := c.write(ctx, c.metaScheduler, ledger.MetaSchedulerABI, "topUpJob", [32]byte(id), amount)
	return tx, telemetry.RecordError(span, err)
}

func (c *Client) Cancel(ctx context.Context, id models.JobID) (common.Hash, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.Cancel", attribute.String(telemetry.AttributeJobID, id.Hex()))
	defer span.End()

	if _, err := c.requireSigner("Cancel"); err != nil {
		return common.Hash{}, telemetry.RecordError(span, err)
	}
	tx, err := c.write(ctx, c.metaScheduler, ledger.MetaSchedulerABI, "cancelJob", [32]byte(id))
	return tx, telemetry.RecordError(span, err)
}

// JobCost estimates the cost of a job at the client's current time. The estimate is not
// Known while no provider has claimed the job.
func (c *Client) JobCost(ctx context.Context, id models.JobID) (*models.JobSummary, cost.Estimate, error) {
	summary, err := c.GetJob(ctx, id)
	if err != nil {
		return nil, cost.Estimate{}, err
	}
	return summary, cost.EstimateJob(&summary.Job, summary.Prices(), c.clock.Now()), nil
}
