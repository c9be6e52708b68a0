package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// JobNameMaxLength is the size of the bytes32 slot the ledger stores job names in.
const JobNameMaxLength = 32

// JobID is the ledger-assigned identifier of a job.
type JobID [32]byte

func (id JobID) Hex() string {
	return hexutil.Encode(id[:])
}

func (id JobID) String() string {
	return id.Hex()
}

func (id JobID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// ParseJobID decodes a 0x-prefixed 32 bytes hex string.
func ParseJobID(s string) (JobID, error) {
	var id JobID
	b, err := hexutil.Decode(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("job id must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Label is an arbitrary key/value pair attached to a job, used for example to select providers.
type Label struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// JobDefinition is the resource shape and script reference of a job. Immutable once submitted.
type JobDefinition struct {
	Tasks             uint64  `json:"tasks"`
	GPUs              uint64  `json:"gpus"`
	CPUsPerTask       uint64  `json:"cpusPerTask"`
	MemPerCPU         uint64  `json:"memPerCpu"`
	StorageType       uint8   `json:"storageType"`
	BatchLocationHash string  `json:"batchLocationHash"`
	Uses              []Label `json:"uses,omitempty"`
}

// JobCost holds the credit amounts of a job. FinalCost is only meaningful once the job is terminated.
type JobCost struct {
	MaxCost   *big.Int `json:"maxCost"`
	FinalCost *big.Int `json:"finalCost"`
	AutoTopUp bool     `json:"autoTopUp"`
}

// JobTime holds ledger timestamps in seconds. Start is zero until the job is scheduled.
type JobTime struct {
	Start                  *big.Int `json:"start"`
	End                    *big.Int `json:"end"`
	CancelRequestTimestamp *big.Int `json:"cancelRequestTimestamp"`
}

// Job is the ledger record of a job. The client never mutates it, it only re-reads it.
type Job struct {
	ID               JobID          `json:"id"`
	Status           JobStatus      `json:"status"`
	CustomerAddr     common.Address `json:"customerAddr"`
	ProviderAddr     common.Address `json:"providerAddr"`
	Definition       JobDefinition  `json:"definition"`
	Cost             JobCost        `json:"cost"`
	Time             JobTime        `json:"time"`
	Name             string         `json:"name"`
	HasCancelRequest bool           `json:"hasCancelRequest"`
	LastError        string         `json:"lastError,omitempty"`
	ExitCode         int64          `json:"exitCode"`
}

// IsClaimed returns true once a provider has been assigned to the job.
func (j *Job) IsClaimed() bool {
	return j.ProviderAddr != (common.Address{})
}

// JobSummary is a job together with the provider that claimed it, if any.
type JobSummary struct {
	Job
	Provider *Provider `json:"provider,omitempty"`
}

// Prices returns the price list of the claiming provider, or nil if the job has not been claimed.
func (s *JobSummary) Prices() *ProviderPrices {
	if s.Provider == nil {
		return nil
	}
	return &s.Provider.Prices
}
