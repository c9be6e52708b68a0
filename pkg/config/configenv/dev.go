package configenv

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/config/types"
)

// Development targets a local chain and local services.
var Development = types.ClientConfig{
	Network: types.NetworkConfig{
		Name:                 "development",
		RPCURL:               "http://localhost:8545",
		WSURL:                "ws://localhost:8546",
		ChainID:              1337,
		MetaSchedulerAddress: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
	},
	Sbatch: types.SbatchConfig{
		Endpoint: "http://localhost:4000/graphql",
		Timeout:  types.Duration(10 * time.Second),
	},
	Logger: types.LoggerConfig{
		Endpoint: "localhost:3000",
		TLS:      false,
	},
}
