package job

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/kubectl/pkg/util/i18n"
	"k8s.io/kubectl/pkg/util/templates"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/pkg/griderrors"
)

var logsExample = templates.Examples(i18n.T(`
		# Stream the output of a job until it ends or ctrl+c is pressed
		gridctl job logs 0x5b1e...

		# Prefix every line with the time the provider recorded it
		gridctl job logs 0x5b1e... --timestamps
`))

type LogsOptions struct {
	Timestamps bool
}

func NewLogsCmd() *cobra.Command {
	o := &LogsOptions{}

	logsCmd := &cobra.Command{
		Use:     "logs ID",
		Short:   "Stream the output of a job",
		Example: logsExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return logs(cmd, args[0], o)
		},
	}
	logsCmd.Flags().BoolVarP(&o.Timestamps, "timestamps", "t", o.Timestamps,
		"Prefix every line with its timestamp.")
	return logsCmd
}

func logs(cmd *cobra.Command, arg string, o *LogsOptions) error {
	id, err := util.ParseJobIDArg(arg)
	if err != nil {
		return err
	}
	c, err := util.GetClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	chunks, stop, err := c.FetchLogs(cmd.Context(), id)
	if err != nil {
		return err
	}
	defer stop()

	for chunk := range chunks.Chan() {
		if o.Timestamps {
			ts := time.UnixMilli(int64(chunk.Timestamp)).UTC().Format(time.RFC3339Nano)
			cmd.Printf("%s %s\n", ts, chunk.Data)
			continue
		}
		cmd.Printf("%s\n", chunk.Data)
	}
	if err := chunks.Err(); err != nil && !errors.Is(err, griderrors.ErrStreamCancelled) {
		return err
	}
	return nil
}
