package ledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Only the fragments the client calls are carried. Struct layouts follow the deployed contracts.

const jobDefinitionComponents = `[
	{"name":"gpus","type":"uint64"},
	{"name":"memPerCpu","type":"uint64"},
	{"name":"cpusPerTask","type":"uint64"},
	{"name":"ntasks","type":"uint64"},
	{"name":"batchLocationHash","type":"string"},
	{"name":"storageType","type":"uint8"},
	{"name":"uses","type":"tuple[]","components":[
		{"name":"key","type":"string"},
		{"name":"value","type":"string"}
	]}
]`

const jobComponents = `[
	{"name":"jobId","type":"bytes32"},
	{"name":"status","type":"uint8"},
	{"name":"customerAddr","type":"address"},
	{"name":"providerAddr","type":"address"},
	{"name":"definition","type":"tuple","components":` + jobDefinitionComponents + `},
	{"name":"cost","type":"tuple","components":[
		{"name":"maxCost","type":"uint256"},
		{"name":"finalCost","type":"uint256"},
		{"name":"autoTopUp","type":"bool"}
	]},
	{"name":"time","type":"tuple","components":[
		{"name":"start","type":"uint256"},
		{"name":"end","type":"uint256"},
		{"name":"cancelRequestTimestamp","type":"uint256"},
		{"name":"blockNumberStateChange","type":"uint256"}
	]},
	{"name":"jobName","type":"bytes32"},
	{"name":"hasCancelRequest","type":"bool"},
	{"name":"lastError","type":"string"},
	{"name":"exitCode","type":"int64"}
]`

const metaSchedulerJSON = `[
	{"type":"function","name":"credit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"providerManager","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"jobs","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"requestNewJob","stateMutability":"nonpayable","inputs":[
		{"name":"_definition","type":"tuple","components":` + jobDefinitionComponents + `},
		{"name":"_maxCost","type":"uint256"},
		{"name":"_jobName","type":"bytes32"},
		{"name":"_autoTopUp","type":"bool"}
	],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"topUpJob","stateMutability":"nonpayable","inputs":[
		{"name":"_jobId","type":"bytes32"},
		{"name":"_amount","type":"uint256"}
	],"outputs":[]},
	{"type":"function","name":"cancelJob","stateMutability":"nonpayable","inputs":[
		{"name":"_jobId","type":"bytes32"}
	],"outputs":[]},
	{"type":"event","name":"NewJobRequestEvent","anonymous":false,"inputs":[
		{"name":"_jobId","type":"bytes32","indexed":false},
		{"name":"_customerAddr","type":"address","indexed":false}
	]}
]`

const creditJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"Approval","anonymous":false,"inputs":[
		{"name":"owner","type":"address","indexed":true},
		{"name":"spender","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}
	]}
]`

const jobRepositoryJSON = `[
	{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"_jobId","type":"bytes32"}],
		"outputs":[{"name":"","type":"tuple","components":` + jobComponents + `}]},
	{"type":"function","name":"getByCustomer","stateMutability":"view","inputs":[{"name":"_customerAddr","type":"address"}],
		"outputs":[{"name":"","type":"bytes32[]"}]},
	{"type":"event","name":"JobTransitionEvent","anonymous":false,"inputs":[
		{"name":"_jobId","type":"bytes32","indexed":false},
		{"name":"_from","type":"uint8","indexed":false},
		{"name":"_to","type":"uint8","indexed":false}
	]}
]`

const providerManagerJSON = `[
	{"type":"function","name":"getProvider","stateMutability":"view","inputs":[{"name":"_providerAddr","type":"address"}],
		"outputs":[{"name":"","type":"tuple","components":[
			{"name":"addr","type":"address"},
			{"name":"providerHardware","type":"tuple","components":[
				{"name":"nodes","type":"uint64"},
				{"name":"gpusPerNode","type":"uint64"},
				{"name":"cpusPerNode","type":"uint64"},
				{"name":"memPerNode","type":"uint64"}
			]},
			{"name":"providerPrices","type":"tuple","components":[
				{"name":"gpuPricePerMin","type":"uint256"},
				{"name":"cpuPricePerMin","type":"uint256"},
				{"name":"memPricePerMin","type":"uint256"}
			]},
			{"name":"status","type":"uint8"},
			{"name":"jobCount","type":"uint64"},
			{"name":"valid","type":"bool"},
			{"name":"linkListed","type":"bool"}
		]}]}
]`

var (
	MetaSchedulerABI   = mustParseABI(metaSchedulerJSON)
	CreditABI          = mustParseABI(creditJSON)
	JobRepositoryABI   = mustParseABI(jobRepositoryJSON)
	ProviderManagerABI = mustParseABI(providerManagerJSON)
)

func mustParseABI(raw string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return &parsed
}

// The tuple types below mirror the contract structs field by field, in order. They are the
// shapes go-ethereum packs and unpacks, and are converted to models types by the client.

type LabelTuple struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type JobDefinitionTuple struct {
	Gpus              uint64       `json:"gpus"`
	MemPerCpu         uint64       `json:"memPerCpu"`
	CpusPerTask       uint64       `json:"cpusPerTask"`
	Ntasks            uint64       `json:"ntasks"`
	BatchLocationHash string       `json:"batchLocationHash"`
	StorageType       uint8        `json:"storageType"`
	Uses              []LabelTuple `json:"uses"`
}

type JobCostTuple struct {
	MaxCost   *big.Int `json:"maxCost"`
	FinalCost *big.Int `json:"finalCost"`
	AutoTopUp bool     `json:"autoTopUp"`
}

type JobTimeTuple struct {
	Start                  *big.Int `json:"start"`
	End                    *big.Int `json:"end"`
	CancelRequestTimestamp *big.Int `json:"cancelRequestTimestamp"`
	BlockNumberStateChange *big.Int `json:"blockNumberStateChange"`
}

type JobTuple struct {
	JobId            [32]byte           `json:"jobId"`
	Status           uint8              `json:"status"`
	CustomerAddr     common.Address     `json:"customerAddr"`
	ProviderAddr     common.Address     `json:"providerAddr"`
	Definition       JobDefinitionTuple `json:"definition"`
	Cost             JobCostTuple       `json:"cost"`
	Time             JobTimeTuple       `json:"time"`
	JobName          [32]byte           `json:"jobName"`
	HasCancelRequest bool               `json:"hasCancelRequest"`
	LastError        string             `json:"lastError"`
	ExitCode         int64              `json:"exitCode"`
}

type ProviderHardwareTuple struct {
	Nodes       uint64 `json:"nodes"`
	GpusPerNode uint64 `json:"gpusPerNode"`
	CpusPerNode uint64 `json:"cpusPerNode"`
	MemPerNode  uint64 `json:"memPerNode"`
}

type ProviderPricesTuple struct {
	GpuPricePerMin *big.Int `json:"gpuPricePerMin"`
	CpuPricePerMin *big.Int `json:"cpuPricePerMin"`
	MemPricePerMin *big.Int `json:"memPricePerMin"`
}

type ProviderTuple struct {
	Addr             common.Address        `json:"addr"`
	ProviderHardware ProviderHardwareTuple `json:"providerHardware"`
	ProviderPrices   ProviderPricesTuple   `json:"providerPrices"`
	Status           uint8                 `json:"status"`
	JobCount         uint64                `json:"jobCount"`
	Valid            bool                  `json:"valid"`
	LinkListed       bool                  `json:"linkListed"`
}
