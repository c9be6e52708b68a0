package config

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/gridlab/gridclient/pkg/config"
)

func newDefaultCmd() *cobra.Command {
	var write string

	defaultCmd := &cobra.Command{
		Use:   "default",
		Short: "Show the default configuration of the selected environment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmd.Flags().GetString("env")
			if err != nil {
				return err
			}
			defaults, err := config.ForEnvironment(env)
			if err != nil {
				return err
			}
			if write != "" {
				return config.WriteConfig(write, defaults)
			}
			cfgbytes, err := yaml.Marshal(defaults)
			if err != nil {
				return err
			}
			cmd.Print(string(cfgbytes))
			return nil
		},
	}
	defaultCmd.Flags().StringVar(&write, "write", write, "Write the defaults to this file instead of printing them.")
	return defaultCmd
}
