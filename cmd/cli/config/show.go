package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/gridlab/gridclient/cmd/util"
)

const redacted = "<redacted>"

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configuration resolved from defaults, file, environment and flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ok := util.GetConfig(cmd.Context())
			if !ok {
				return fmt.Errorf("configuration was not loaded")
			}
			if cfg.PrivateKey != "" {
				cfg.PrivateKey = redacted
			}
			cfgbytes, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			cmd.Print(string(cfgbytes))
			return nil
		},
	}
}
