package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/output"
	"github.com/gridlab/gridclient/pkg/client"
	"github.com/gridlab/gridclient/pkg/models"
)

// follow prints the status of a job, then every transition until the job terminates.
func follow(cmd *cobra.Command, c *client.Client, id models.JobID) error {
	ctx := cmd.Context()

	transitions, stop, err := c.WatchJobTransition(ctx)
	if err != nil {
		return err
	}
	defer stop()

	summary, err := c.GetJob(ctx, id)
	if err != nil {
		return err
	}
	status := output.BoldStr("Status: ") + summary.Status.String()

	spinner, err := util.NewStatusSpinner(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer spinner.Abort()

	if summary.Status.IsTerminated() {
		spinner.Done(status, summary.Status == models.JobStatusFinished)
		return nil
	}
	spinner.Update(status)

	for {
		transition, err := transitions.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if transition.JobID != id {
			continue
		}
		status = fmt.Sprintf("%s %s -> %s", output.BoldStr("Status:"), transition.From, transition.To)
		if transition.To.IsTerminated() {
			spinner.Done(status, transition.To == models.JobStatusFinished)
			return nil
		}
		spinner.Update(status)
	}
}
