package types

const (
	NetworkName                 = "Network.Name"
	NetworkRPCURL               = "Network.RPCURL"
	NetworkWSURL                = "Network.WSURL"
	NetworkChainID              = "Network.ChainID"
	NetworkMetaSchedulerAddress = "Network.MetaSchedulerAddress"
	SbatchEndpoint              = "Sbatch.Endpoint"
	SbatchTimeout               = "Sbatch.Timeout"
	LoggerEndpoint              = "Logger.Endpoint"
	LoggerTLS                   = "Logger.TLS"
	TraceEndpoint               = "Trace.Endpoint"
	TraceInsecure               = "Trace.Insecure"
	PrivateKey                  = "PrivateKey"
)
