package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ProviderPrices are the per-minute prices set by a resource provider, in credit base units
// scaled by one million.
type ProviderPrices struct {
	GPUPricePerMin *big.Int `json:"gpuPricePerMin"`
	CPUPricePerMin *big.Int `json:"cpuPricePerMin"`
	MemPricePerMin *big.Int `json:"memPricePerMin"`
}

type ProviderHardware struct {
	Nodes       uint64 `json:"nodes"`
	GPUsPerNode uint64 `json:"gpusPerNode"`
	CPUsPerNode uint64 `json:"cpusPerNode"`
	MemPerNode  uint64 `json:"memPerNode"`
}

type ProviderStatus uint8

const (
	ProviderStatusWaitingForApproval ProviderStatus = iota
	ProviderStatusKicked
	ProviderStatusJoined
	ProviderStatusBanned
)

type Provider struct {
	Addr       common.Address   `json:"addr"`
	Hardware   ProviderHardware `json:"hardware"`
	Prices     ProviderPrices   `json:"prices"`
	Status     ProviderStatus   `json:"status"`
	JobCount   uint64           `json:"jobCount"`
	Valid      bool             `json:"valid"`
	LinkListed bool             `json:"linkListed"`
}
