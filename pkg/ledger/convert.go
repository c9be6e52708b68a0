package ledger

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/gridlab/gridclient/pkg/models"
)

// Decode converts a single value unpacked by go-ethereum into T. The ABI unpacker produces
// anonymous struct types for tuples, which are matched field by field against T.
func Decode[T any](values []interface{}) (out T, err error) {
	if len(values) == 0 {
		return out, fmt.Errorf("expected 1 return value, got none")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot decode %T into %T: %v", values[0], out, r)
		}
	}()
	if v, ok := values[0].(T); ok {
		return v, nil
	}
	return *abi.ConvertType(values[0], new(T)).(*T), nil
}

// EncodeJobName right pads name into the bytes32 slot the ledger stores it in.
func EncodeJobName(name string) ([32]byte, error) {
	var out [32]byte
	if len(name) > len(out) {
		return out, fmt.Errorf("job name is %d bytes, at most %d allowed", len(name), len(out))
	}
	copy(out[:], name)
	return out, nil
}

func DecodeJobName(raw [32]byte) string {
	return string(bytes.TrimRight(raw[:], "\x00"))
}

func NewJobDefinitionTuple(def models.JobDefinition) JobDefinitionTuple {
	uses := make([]LabelTuple, 0, len(def.Uses))
	for _, l := range def.Uses {
		uses = append(uses, LabelTuple{Key: l.Key, Value: l.Value})
	}
	return JobDefinitionTuple{
		Gpus:              def.GPUs,
		MemPerCpu:         def.MemPerCPU,
		CpusPerTask:       def.CPUsPerTask,
		Ntasks:            def.Tasks,
		BatchLocationHash: def.BatchLocationHash,
		StorageType:       def.StorageType,
		Uses:              uses,
	}
}

func (t JobTuple) ToModel() models.Job {
	var uses []models.Label
	for _, l := range t.Definition.Uses {
		uses = append(uses, models.Label{Key: l.Key, Value: l.Value})
	}
	return models.Job{
		ID:           models.JobID(t.JobId),
		Status:       models.JobStatus(t.Status),
		CustomerAddr: t.CustomerAddr,
		ProviderAddr: t.ProviderAddr,
		Definition: models.JobDefinition{
			Tasks:             t.Definition.Ntasks,
			GPUs:              t.Definition.Gpus,
			CPUsPerTask:       t.Definition.CpusPerTask,
			MemPerCPU:         t.Definition.MemPerCpu,
			StorageType:       t.Definition.StorageType,
			BatchLocationHash: t.Definition.BatchLocationHash,
			Uses:              uses,
		},
		Cost: models.JobCost{
			MaxCost:   orZero(t.Cost.MaxCost),
			FinalCost: orZero(t.Cost.FinalCost),
			AutoTopUp: t.Cost.AutoTopUp,
		},
		Time: models.JobTime{
			Start:                  orZero(t.Time.Start),
			End:                    orZero(t.Time.End),
			CancelRequestTimestamp: orZero(t.Time.CancelRequestTimestamp),
		},
		Name:             DecodeJobName(t.JobName),
		HasCancelRequest: t.HasCancelRequest,
		LastError:        t.LastError,
		ExitCode:         t.ExitCode,
	}
}

func (t ProviderTuple) ToModel() models.Provider {
	return models.Provider{
		Addr: t.Addr,
		Hardware: models.ProviderHardware{
			Nodes:       t.ProviderHardware.Nodes,
			GPUsPerNode: t.ProviderHardware.GpusPerNode,
			CPUsPerNode: t.ProviderHardware.CpusPerNode,
			MemPerNode:  t.ProviderHardware.MemPerNode,
		},
		Prices: models.ProviderPrices{
			GPUPricePerMin: orZero(t.ProviderPrices.GpuPricePerMin),
			CPUPricePerMin: orZero(t.ProviderPrices.CpuPricePerMin),
			MemPricePerMin: orZero(t.ProviderPrices.MemPricePerMin),
		},
		Status:     models.ProviderStatus(t.Status),
		JobCount:   t.JobCount,
		Valid:      t.Valid,
		LinkListed: t.LinkListed,
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
