package job

import (
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
)

func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch ID",
		Short: "Print the status transitions of a job until it terminates",
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
			return follow(cmd, c, id)
		},
	}
}
