package config

import "github.com/spf13/cobra"

func NewCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and generate gridctl configuration files.",
	}
	configCmd.AddCommand(newShowCmd())
	configCmd.AddCommand(newDefaultCmd())
	return configCmd
}
