package configenv

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/config/types"
)

var Testnet = types.ClientConfig{
	Network: types.NetworkConfig{
		Name:                 "testnet",
		RPCURL:               "https://testnet.deepsquare.run/rpc",
		WSURL:                "wss://testnet.deepsquare.run/ws",
		ChainID:              179188,
		MetaSchedulerAddress: common.HexToAddress("0x196A7EB3E16a8359c30408f4F79622157Ef86d7c"),
	},
	Sbatch: types.SbatchConfig{
		Endpoint: "https://sbatch.deepsquare.run/graphql",
		Timeout:  types.Duration(60 * time.Second),
	},
	Logger: types.LoggerConfig{
		Endpoint: "grid-logger.deepsquare.run:443",
		TLS:      true,
	},
}
