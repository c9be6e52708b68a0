package credits

import (
	"context"
	"errors"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/lib/stream"
)

func newWatchCmd() *cobra.Command {
	var allowance bool

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the balance of the account every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := util.GetClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			var (
				values *stream.Stream[*big.Int]
				stop   stream.CloseFunc
			)
			if allowance {
				values, stop, err = c.WatchAllowance(cmd.Context())
			} else {
				values, stop, err = c.WatchBalance(cmd.Context())
			}
			if err != nil {
				return err
			}
			defer stop()

			// the stream does not observe the context, ctrl+c stops it here
			go func() {
				<-cmd.Context().Done()
				stop()
			}()

			for v := range values.Chan() {
				cmd.Println(v.String())
			}
			err = values.Err()
			if err == nil || errors.Is(err, griderrors.ErrStreamCancelled) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	watchCmd.Flags().BoolVar(&allowance, "allowance", allowance,
		"Watch the allowance of the meta-scheduler instead of the balance.")
	return watchCmd
}
