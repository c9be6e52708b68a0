package credits

import (
	"github.com/spf13/cobra"
	"k8s.io/kubectl/pkg/util/i18n"
	"k8s.io/kubectl/pkg/util/templates"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
)

func newAllowanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance",
		Short: "Print how many credits the meta-scheduler may still draw from the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := util.GetClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			allowance, err := c.GetAllowance(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(allowance.String())
			return nil
		},
	}
}

var (
	approveLong = templates.LongDesc(i18n.T(`
		Allow the meta-scheduler to draw up to AMOUNT credits for job requests.

		The allowance replaces the previous one. Submitting a job draws its max cost from the
		allowance, so approve at least the max cost of the jobs you plan to submit.
`))

	approveExample = templates.Examples(i18n.T(`
		# Let the meta-scheduler draw up to 10000 credits
		gridctl credits approve 10000

		# Revoke the allowance
		gridctl credits approve 0
`))
)

func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "approve AMOUNT",
		Short:   "Allow the meta-scheduler to draw up to AMOUNT credits for job requests",
		Long:    approveLong,
		Example: approveExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := flags.ParseAmount(args[0])
			if err != nil {
				return err
			}
			c, err := util.GetClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			tx, err := c.SetAllowance(cmd.Context(), amount)
			if err != nil {
				return err
			}
			cmd.Println(tx.Hex())
			return nil
		},
	}
}
