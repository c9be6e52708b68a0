package config

import (
	"os"

	"github.com/gridlab/gridclient/pkg/config/types"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

type Params struct {
	Environment   string
	ConfigFile    string
	FileHandler   func(v *viper.Viper, fileName string) error
	DefaultConfig *types.ClientConfig
	// Flags maps config keys to the flags overriding them.
	Flags map[string]*pflag.Flag
}

type Option func(params *Params)

func WithEnvironment(name string) Option {
	return func(params *Params) {
		params.Environment = name
	}
}

func WithConfigFile(path string) Option {
	return func(params *Params) {
		params.ConfigFile = path
	}
}

func WithDefaultConfig(cfg types.ClientConfig) Option {
	return func(params *Params) {
		params.DefaultConfig = &cfg
	}
}

func WithFileHandler(handler func(v *viper.Viper, fileName string) error) Option {
	return func(params *Params) {
		params.FileHandler = handler
	}
}

// WithFlag overrides key with flag when the flag was set on the command line.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(params *Params) {
		if flag == nil {
			return
		}
		if params.Flags == nil {
			params.Flags = make(map[string]*pflag.Flag)
		}
		params.Flags[key] = flag
	}
}

func NoopConfigHandler(*viper.Viper, string) error {
	return nil
}

func ReadConfigHandler(v *viper.Viper, fileName string) error {
	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		// a missing file leaves the environment defaults in place
		return nil
	} else if err != nil {
		return err
	}
	v.SetConfigFile(fileName)
	return v.ReadInConfig()
}

// WriteConfig writes cfg as YAML to fileName, in the layout Load reads.
func WriteConfig(fileName string, cfg types.ClientConfig) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, out, 0o600) //nolint:gomnd
}
