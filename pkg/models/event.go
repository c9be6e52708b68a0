package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Event is an immutable, ordered record emitted by the ledger.
type Event struct {
	Name     string
	Args     map[string]interface{}
	Block    uint64
	TxIndex  uint
	LogIndex uint
	TxHash   common.Hash
	// Removed is set when the log was reverted by a chain reorganisation.
	Removed bool
}

// Transfer is a credit movement between two accounts.
type Transfer struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Block uint64         `json:"block"`
}

// Approval is a change of the amount a spender may draw from an owner's credits.
type Approval struct {
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
	Value   *big.Int       `json:"value"`
	Block   uint64         `json:"block"`
}

// JobTransition is emitted every time a job changes status.
type JobTransition struct {
	JobID JobID     `json:"jobId"`
	From  JobStatus `json:"from"`
	To    JobStatus `json:"to"`
	Block uint64    `json:"block"`
}

// NewJobRequest is emitted when a job is registered on the ledger.
type NewJobRequest struct {
	JobID        JobID          `json:"jobId"`
	CustomerAddr common.Address `json:"customerAddr"`
	Block        uint64         `json:"block"`
}

func (e Event) ToTransfer() (Transfer, error) {
	var t Transfer
	var err error
	if t.From, err = argAddress(e, "from"); err != nil {
		return t, err
	}
	if t.To, err = argAddress(e, "to"); err != nil {
		return t, err
	}
	if t.Value, err = argBigInt(e, "value"); err != nil {
		return t, err
	}
	t.Block = e.Block
	return t, nil
}

func (e Event) ToApproval() (Approval, error) {
	var a Approval
	var err error
	if a.Owner, err = argAddress(e, "owner"); err != nil {
		return a, err
	}
	if a.Spender, err = argAddress(e, "spender"); err != nil {
		return a, err
	}
	if a.Value, err = argBigInt(e, "value"); err != nil {
		return a, err
	}
	a.Block = e.Block
	return a, nil
}

func (e Event) ToJobTransition() (JobTransition, error) {
	var t JobTransition
	var err error
	if t.JobID, err = argJobID(e, "_jobId"); err != nil {
		return t, err
	}
	from, err := argUint8(e, "_from")
	if err != nil {
		return t, err
	}
	to, err := argUint8(e, "_to")
	if err != nil {
		return t, err
	}
	t.From, t.To, t.Block = JobStatus(from), JobStatus(to), e.Block
	return t, nil
}

func (e Event) ToNewJobRequest() (NewJobRequest, error) {
	var r NewJobRequest
	var err error
	if r.JobID, err = argJobID(e, "_jobId"); err != nil {
		return r, err
	}
	if r.CustomerAddr, err = argAddress(e, "_customerAddr"); err != nil {
		return r, err
	}
	r.Block = e.Block
	return r, nil
}

func arg[T any](e Event, name string) (T, error) {
	var zero T
	raw, ok := e.Args[name]
	if !ok {
		return zero, fmt.Errorf("event %s: missing argument %q", e.Name, name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("event %s: argument %q has type %T, expected %T", e.Name, name, raw, zero)
	}
	return v, nil
}

func argAddress(e Event, name string) (common.Address, error) {
	return arg[common.Address](e, name)
}

func argBigInt(e Event, name string) (*big.Int, error) {
	return arg[*big.Int](e, name)
}

func argUint8(e Event, name string) (uint8, error) {
	return arg[uint8](e, name)
}

func argJobID(e Event, name string) (JobID, error) {
	id, err := arg[[32]byte](e, name)
	return JobID(id), err
}
