package job

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
	"github.com/gridlab/gridclient/cmd/util/output"
	"github.com/gridlab/gridclient/pkg/models"
)

type ListOptions struct {
	Address    common.Address
	OutputOpts output.OutputOptions
}

func NewListCmd() *cobra.Command {
	o := &ListOptions{OutputOpts: output.OutputOptions{Format: output.TableFormat}}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the jobs of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, o)
		},
	}
	listCmd.Flags().Var(flags.AddressFlag(&o.Address), "address",
		"Account whose jobs are listed. Defaults to the configured account.")
	listCmd.Flags().AddFlagSet(flags.OutputFormatFlags(&o.OutputOpts))
	return listCmd
}

func list(cmd *cobra.Command, o *ListOptions) error {
	ctx := cmd.Context()
	c, err := util.GetClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	var jobs []models.JobSummary
	if o.Address == (common.Address{}) {
		jobs, err = c.Jobs(ctx)
		if err != nil {
			return err
		}
	} else {
		ids, err := c.ListJobs(ctx, o.Address)
		if err != nil {
			return err
		}
		for _, id := range ids {
			summary, err := c.GetJob(ctx, id)
			if err != nil {
				return err
			}
			jobs = append(jobs, *summary)
		}
	}
	return output.Output(cmd, jobColumns, o.OutputOpts, jobs)
}
