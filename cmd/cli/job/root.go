package job

import "github.com/spf13/cobra"

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Commands to submit, query and update jobs.",
	}

	cmd.AddCommand(NewSubmitCmd())
	cmd.AddCommand(NewGetCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewLogsCmd())
	cmd.AddCommand(NewCancelCmd())
	cmd.AddCommand(NewTopUpCmd())
	cmd.AddCommand(NewWatchCmd())
	return cmd
}
