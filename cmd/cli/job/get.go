package job

import (
	"math/big"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
	"github.com/gridlab/gridclient/cmd/util/output"
	"github.com/gridlab/gridclient/pkg/cost"
	"github.com/gridlab/gridclient/pkg/models"
)

// JobDescription is what `job get` prints in json and yaml.
type JobDescription struct {
	Job  *models.JobSummary `json:"job"`
	Cost cost.Estimate      `json:"cost"`
}

type GetOptions struct {
	OutputOpts output.NonTabularOutputOptions
}

func NewGetCmd() *cobra.Command {
	o := &GetOptions{}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a job, the provider running it and its current cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get(cmd, args[0], o)
		},
	}
	getCmd.Flags().AddFlagSet(flags.OutputNonTabularFormatFlags(&o.OutputOpts))
	return getCmd
}

func get(cmd *cobra.Command, arg string, o *GetOptions) error {
	id, err := util.ParseJobIDArg(arg)
	if err != nil {
		return err
	}
	c, err := util.GetClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	summary, estimate, err := c.JobCost(cmd.Context(), id)
	if err != nil {
		return err
	}
	if o.OutputOpts.Format != "" {
		return output.OutputNonTabular(cmd, o.OutputOpts, JobDescription{Job: summary, Cost: estimate})
	}

	provider := ""
	if summary.Provider != nil {
		provider = summary.Provider.Addr.Hex()
	}
	output.KeyValue(cmd, []lo.Entry[string, any]{
		{Key: "ID", Value: summary.ID.Hex()},
		{Key: "Name", Value: summary.Name},
		{Key: "Status", Value: summary.Status.String()},
		{Key: "Customer", Value: summary.CustomerAddr.Hex()},
		{Key: "Provider", Value: provider},
		{Key: "Tasks", Value: summary.Definition.Tasks},
		{Key: "CPUs per task", Value: summary.Definition.CPUsPerTask},
		{Key: "Memory per CPU", Value: memoryString(summary.Definition.MemPerCPU)},
		{Key: "GPUs", Value: summary.Definition.GPUs},
		{Key: "Max cost", Value: bigString(summary.Cost.MaxCost)},
		{Key: "Cost", Value: costString(summary, estimate)},
		{Key: "Cost per minute", Value: lo.Ternary(estimate.Known, bigString(estimate.CostPerMinute), "")},
		{Key: "Time left", Value: lo.Ternary(estimate.Known && !summary.Status.IsTerminated(),
			estimate.TimeLeft.Truncate(time.Second).String(), "")},
		{Key: "Last error", Value: summary.LastError},
	})
	return nil
}

func costString(summary *models.JobSummary, estimate cost.Estimate) string {
	if summary.Status.IsTerminated() {
		return bigString(summary.Cost.FinalCost)
	}
	if !estimate.Known {
		return "unknown until a provider claims the job"
	}
	return bigString(estimate.Cost)
}

// memoryString renders a memory amount given in megabytes.
func memoryString(mb uint64) string {
	return (datasize.ByteSize(mb) * datasize.MB).HumanReadable()
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
