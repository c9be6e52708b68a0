package job

import (
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
)

func NewCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Request the cancellation of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseJobIDArg(args[0])
			if err != nil {
				return err
			}
			c, err := util.GetClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			tx, err := c.Cancel(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmd.Println(tx.Hex())
			return nil
		},
	}
}
