package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/config/configenv"
	"github.com/gridlab/gridclient/pkg/config/types"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/lib/validate"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	environmentVariablePrefix = "GRID"
	automaticEnvVar           = true

	DefaultEnvironment = "testnet"
	DefaultConfigName  = "gridctl"
	configType         = "yaml"
)

var (
	environmentVariableReplace = strings.NewReplacer(".", "_")
	configDecoderHook          = viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
)

// ForEnvironment returns the defaults of a named environment.
func ForEnvironment(name string) (types.ClientConfig, error) {
	switch strings.ToLower(name) {
	case "", DefaultEnvironment:
		return configenv.Testnet, nil
	case "development", "dev":
		return configenv.Development, nil
	default:
		return types.ClientConfig{}, griderrors.New("unknown environment %q", name).
			WithCode(griderrors.ConfigurationError).
			WithHint("use one of: testnet, development")
	}
}

// Load resolves the configuration from, in increasing priority: the environment defaults,
// the config file, GRID_* environment variables and bound flags.
func Load(opts ...Option) (types.ClientConfig, error) {
	params := &Params{
		Environment: DefaultEnvironment,
		FileHandler: ReadConfigHandler,
	}
	for _, opt := range opts {
		opt(params)
	}

	defaults, err := ForEnvironment(params.Environment)
	if err != nil {
		return types.ClientConfig{}, err
	}
	if params.DefaultConfig != nil {
		defaults = *params.DefaultConfig
	}

	v := viper.New()
	v.SetConfigType(configType)
	v.SetEnvPrefix(environmentVariablePrefix)
	v.SetEnvKeyReplacer(environmentVariableReplace)
	setDefaults(v, defaults)

	if params.ConfigFile != "" {
		if err := params.FileHandler(v, params.ConfigFile); err != nil {
			return types.ClientConfig{}, griderrors.Wrap(err, "failed to read config file %s", params.ConfigFile).
				WithCode(griderrors.ConfigurationError)
		}
	}
	if automaticEnvVar {
		v.AutomaticEnv()
	}
	for key, flag := range params.Flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return types.ClientConfig{}, err
		}
	}

	var out types.ClientConfig
	if err := v.Unmarshal(&out, configDecoderHook); err != nil {
		return types.ClientConfig{}, griderrors.Wrap(err, "invalid configuration").
			WithCode(griderrors.ConfigurationError)
	}
	return out, Validate(out)
}

func setDefaults(v *viper.Viper, cfg types.ClientConfig) {
	v.SetDefault(types.NetworkName, cfg.Network.Name)
	v.SetDefault(types.NetworkRPCURL, cfg.Network.RPCURL)
	v.SetDefault(types.NetworkWSURL, cfg.Network.WSURL)
	v.SetDefault(types.NetworkChainID, cfg.Network.ChainID)
	v.SetDefault(types.NetworkMetaSchedulerAddress, cfg.Network.MetaSchedulerAddress.Hex())
	v.SetDefault(types.SbatchEndpoint, cfg.Sbatch.Endpoint)
	v.SetDefault(types.SbatchTimeout, cfg.Sbatch.Timeout.AsTimeDuration().String())
	v.SetDefault(types.LoggerEndpoint, cfg.Logger.Endpoint)
	v.SetDefault(types.LoggerTLS, cfg.Logger.TLS)
	v.SetDefault(types.TraceEndpoint, cfg.Trace.Endpoint)
	v.SetDefault(types.TraceInsecure, cfg.Trace.Insecure)
	v.SetDefault(types.PrivateKey, cfg.PrivateKey)
}

// Validate checks the configuration can reach every collaborator.
func Validate(cfg types.ClientConfig) error {
	var missing []string
	if validate.NotBlank(cfg.Network.RPCURL, types.NetworkRPCURL) != nil {
		missing = append(missing, types.NetworkRPCURL)
	}
	if cfg.Network.MetaSchedulerAddress == (common.Address{}) {
		missing = append(missing, types.NetworkMetaSchedulerAddress)
	}
	if validate.NotBlank(cfg.Sbatch.Endpoint, types.SbatchEndpoint) != nil {
		missing = append(missing, types.SbatchEndpoint)
	}
	if validate.NotBlank(cfg.Logger.Endpoint, types.LoggerEndpoint) != nil {
		missing = append(missing, types.LoggerEndpoint)
	}
	if len(missing) > 0 {
		return griderrors.New("missing configuration: %s", strings.Join(missing, ", ")).
			WithCode(griderrors.ConfigurationError).
			WithHint(fmt.Sprintf("set them in the config file or with %s", KeyAsEnvVar(missing[0])))
	}
	return nil
}

// Getenv wraps os.Getenv and retrieves the value of the environment variable named by the config key.
func Getenv(key string) string {
	return os.Getenv(KeyAsEnvVar(key))
}

// KeyAsEnvVar returns the environment variable corresponding to a config key
func KeyAsEnvVar(key string) string {
	return strings.ToUpper(
		fmt.Sprintf("%s_%s", environmentVariablePrefix, environmentVariableReplace.Replace(key)),
	)
}
