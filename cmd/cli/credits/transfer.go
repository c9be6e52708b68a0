package credits

import (
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
)

func newTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer TO AMOUNT",
		Short: "Send credits to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := flags.ParseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := flags.ParseAmount(args[1])
			if err != nil {
				return err
			}
			c, err := util.GetClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			tx, err := c.TransferCredits(cmd.Context(), to, amount)
			if err != nil {
				return err
			}
			cmd.Println(tx.Hex())
			return nil
		},
	}
}
