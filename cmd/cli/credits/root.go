package credits

import "github.com/spf13/cobra"

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Commands to inspect and move credits.",
	}

	cmd.AddCommand(newBalanceCmd())
	cmd.AddCommand(newAllowanceCmd())
	cmd.AddCommand(newApproveCmd())
	cmd.AddCommand(newTransferCmd())
	cmd.AddCommand(newWatchCmd())
	return cmd
}
