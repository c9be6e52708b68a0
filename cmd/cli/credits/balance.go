package credits

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
)

func newBalanceCmd() *cobra.Command {
	var address common.Address

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the credit balance of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := util.GetClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			var balance *big.Int
			if address == (common.Address{}) {
				balance, err = c.GetBalance(cmd.Context())
			} else {
				balance, err = c.GetBalanceOf(cmd.Context(), address)
			}
			if err != nil {
				return err
			}
			cmd.Println(balance.String())
			return nil
		},
	}
	balanceCmd.Flags().Var(flags.AddressFlag(&address), "address",
		"Account to inspect. Defaults to the configured account.")
	return balanceCmd
}
