package types

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ClientConfig is everything a client needs to reach the grid. Each client owns its copy.
type ClientConfig struct {
	Network    NetworkConfig `json:"Network" yaml:"Network"`
	Sbatch     SbatchConfig  `json:"Sbatch" yaml:"Sbatch"`
	Logger     LoggerConfig  `json:"Logger" yaml:"Logger"`
	Trace      TraceConfig   `json:"Trace,omitempty" yaml:"Trace,omitempty"`
	PrivateKey string        `json:"PrivateKey,omitempty" yaml:"PrivateKey,omitempty"`
}

type NetworkConfig struct {
	Name    string `json:"Name" yaml:"Name"`
	RPCURL  string `json:"RPCURL" yaml:"RPCURL"`
	WSURL   string `json:"WSURL" yaml:"WSURL"`
	ChainID int64  `json:"ChainID" yaml:"ChainID"`
	// MetaSchedulerAddress is the entry point contract; every other contract is resolved from it.
	MetaSchedulerAddress common.Address `json:"MetaSchedulerAddress" yaml:"MetaSchedulerAddress"`
}

type SbatchConfig struct {
	Endpoint string   `json:"Endpoint" yaml:"Endpoint"`
	Timeout  Duration `json:"Timeout" yaml:"Timeout"`
}

type LoggerConfig struct {
	Endpoint string `json:"Endpoint" yaml:"Endpoint"`
	TLS      bool   `json:"TLS" yaml:"TLS"`
}

type TraceConfig struct {
	Endpoint string `json:"Endpoint,omitempty" yaml:"Endpoint,omitempty"`
	Insecure bool   `json:"Insecure,omitempty" yaml:"Insecure,omitempty"`
}

// Duration is a time.Duration that reads and writes as a Go duration string.
type Duration time.Duration

func (d Duration) AsTimeDuration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}
