package client

import (
	"context"
	"errors"
	"math/big"

	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/lib/concurrency"
	"github.com/gridlab/gridclient/pkg/lib/validate"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// submitLockKey serializes the simulate and write steps of submissions made by one client, so
// that concurrent submissions from the same account do not race on the account nonce.
const submitLockKey = "submitJob"

// DefaultMaxAmount is the credit cap of a job when none is given.
var DefaultMaxAmount = big.NewInt(1000)

type SubmitState int

const (
	SubmitValidating SubmitState = iota
	SubmitUploading
	SubmitAwaitingLock
	SubmitSimulating
	SubmitWriting
	SubmitDone
	SubmitRejected
)

var submitStateNames = map[SubmitState]string{
	SubmitValidating:   "Validating",
	SubmitUploading:    "Uploading",
	SubmitAwaitingLock: "AwaitingLock",
	SubmitSimulating:   "Simulating",
	SubmitWriting:      "Writing",
	SubmitDone:         "Done",
	SubmitRejected:     "Rejected",
}

func (s SubmitState) String() string {
	return submitStateNames[s]
}

// SubmitJob uploads the job document then registers the job on the ledger, and returns the
// ledger-assigned job id. maxAmount caps the credits the job may draw and defaults to
// DefaultMaxAmount. name must fit in JobNameMaxLength bytes.
//
// The upload runs concurrently with other submissions. Simulating and writing the job request
// are serialized per client.
func (c *Client) SubmitJob(
	ctx context.Context, job *models.BatchJob, name string, maxAmount *big.Int, uses []models.Label,
) (models.JobID, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.SubmitJob", attribute.String("name", name))
	defer span.End()

	c.observe(ctx, SubmitValidating)
	jobName, err := c.validateSubmission(job, name, maxAmount)
	if err != nil {
		c.observe(ctx, SubmitRejected)
		c.countSubmission(ctx, err)
		return models.JobID{}, telemetry.RecordError(span, err)
	}
	if maxAmount == nil {
		maxAmount = DefaultMaxAmount
	}

	c.observe(ctx, SubmitUploading)
	hash, err := c.uploader.Submit(ctx, job)
	if err != nil {
		c.countSubmission(ctx, err)
		return models.JobID{}, telemetry.RecordError(span, err)
	}

	def := models.JobDefinition{
		Tasks:             job.Resources.Tasks,
		GPUs:              job.Resources.GPUs,
		CPUsPerTask:       job.Resources.CPUsPerTask,
		MemPerCPU:         job.Resources.MemPerCPU,
		StorageType:       uint8(job.StorageType()),
		BatchLocationHash: hash,
		Uses:              uses,
	}
	call := ledger.Call{
		Contract: c.metaScheduler,
		ABI:      ledger.MetaSchedulerABI,
		Method:   "requestNewJob",
		Args:     []interface{}{ledger.NewJobDefinitionTuple(def), maxAmount, jobName, true},
	}

	c.observe(ctx, SubmitAwaitingLock)
	stopLockTimer := telemetry.Timer(ctx, c.clock, c.metrics.lockWait)
	id, err := concurrency.WithLock(c.locks, submitLockKey, func() (models.JobID, error) {
		stopLockTimer()
		c.observe(ctx, SubmitSimulating)
		out, err := c.ledger.Simulate(ctx, call)
		if err != nil {
			return models.JobID{}, err
		}
		raw, err := ledger.Decode[[32]byte](out)
		if err != nil {
			return models.JobID{}, griderrors.Wrap(err, "unexpected requestNewJob result").
				WithCode(griderrors.NetworkError).
				WithComponent(component)
		}

		c.observe(ctx, SubmitWriting)
		tx, err := c.ledger.Write(ctx, call)
		if err != nil {
			return models.JobID{}, err
		}
		log.Ctx(ctx).Debug().
			Str("JobID", models.JobID(raw).Hex()).
			Str("Tx", tx.Hex()).
			Msg("job request sent")
		return models.JobID(raw), nil
	})
	c.countSubmission(ctx, err)
	if err != nil {
		return models.JobID{}, telemetry.RecordError(span, err)
	}

	c.observe(ctx, SubmitDone)
	span.SetAttributes(attribute.String(telemetry.AttributeJobID, id.Hex()))
	return id, nil
}

func (c *Client) validateSubmission(job *models.BatchJob, name string, maxAmount *big.Int) ([32]byte, error) {
	if _, err := c.requireSigner("SubmitJob"); err != nil {
		return [32]byte{}, err
	}
	err := errors.Join(
		validate.MaxBytes(name, models.JobNameMaxLength, "job name exceeds %d characters", models.JobNameMaxLength),
		validate.NotNil(job, "job document is required"),
	)
	if err == nil {
		err = errors.Join(
			validate.IsGreaterThanZero(job.Resources.Tasks, "job must run at least one task"),
			validate.IsGreaterThanZero(job.Resources.CPUsPerTask, "job tasks need at least one cpu"),
		)
	}
	if err == nil && maxAmount != nil {
		err = validate.IsPositiveAmount(maxAmount, "max amount must be greater than zero")
	}
	if err != nil {
		return [32]byte{}, validationError(err)
	}
	return ledger.EncodeJobName(name)
}

// countSubmission records the outcome of a submission: "done", or the code of the error.
func (c *Client) countSubmission(ctx context.Context, err error) {
	outcome := "done"
	if err != nil {
		outcome = "error"
		var gridErr *griderrors.Error
		if errors.As(err, &gridErr) && gridErr.Code() != "" {
			outcome = string(gridErr.Code())
		}
	}
	c.metrics.submitted.Inc(ctx, attribute.String("outcome", outcome))
}

func (c *Client) observe(ctx context.Context, state SubmitState) {
	log.Ctx(ctx).Trace().Stringer("State", state).Msg("submission state")
	if c.submitObserver != nil {
		c.submitObserver(state)
	}
}
