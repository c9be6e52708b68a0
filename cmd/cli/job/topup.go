package job

import (
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
)

func NewTopUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topup ID AMOUNT",
		Short: "Allocate more credits to a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseJobIDArg(args[0])
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

			tx, err := c.TopUp(cmd.Context(), id, amount)
			if err != nil {
				return err
			}
			cmd.Println(tx.Hex())
			return nil
		},
	}
}
