package commands

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/ion-dao/ion-go/ctrlers/gov"
	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
)

var (
	daoName       string
	daoDesc       string
	govDenom      string
	depositAmt    string
	minDepositAmt string
	votingBlocks  int64
	depositBlocks int64
)

// NewInitCmd writes the genesis DaoState into a fresh DB directory.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the organization state",
		RunE:  initState,
	}
	cmd.Flags().StringVar(&daoName, "name", "ion", "organization name")
	cmd.Flags().StringVar(&daoDesc, "desc", "ion governance", "organization description")
	cmd.Flags().StringVar(&govDenom, "denom", "uion", "governance token denom")
	cmd.Flags().StringVar(&depositAmt, "deposit", "1000000", "deposit required to activate voting")
	cmd.Flags().StringVar(&minDepositAmt, "min-deposit", "100000", "least deposit accepted on submission")
	cmd.Flags().Int64Var(&votingBlocks, "voting-blocks", 100800, "voting period in blocks")
	cmd.Flags().Int64Var(&depositBlocks, "deposit-blocks", 100800, "deposit period in blocks")
	return cmd
}

func initState(cmd *cobra.Command, args []string) error {
	deposit, err := uint256.FromDecimal(depositAmt)
	if err != nil {
		return err
	}
	minDeposit, err := uint256.FromDecimal(minDepositAmt)
	if err != nil {
		return err
	}

	daoCtrler, stakeCtrler, xerr := openCtrlers()
	if xerr != nil {
		return xerr
	}
	defer func() {
		_ = daoCtrler.Close()
		_ = stakeCtrler.Close()
	}()

	gen := &gov.GenesisDaoState{
		Config: ctrlertypes.DaoConfig{
			Name:               daoName,
			Description:        daoDesc,
			Threshold:          ctrlertypes.DefaultThreshold(),
			VotingPeriod:       ctrlertypes.DurationInBlocks(votingBlocks),
			DepositPeriod:      ctrlertypes.DurationInBlocks(depositBlocks),
			ProposalDeposit:    deposit,
			ProposalMinDeposit: minDeposit,
		},
		GovDenom: govDenom,
	}
	if xerr := daoCtrler.InitLedger(gen); xerr != nil {
		return xerr
	}
	if _, _, xerr := daoCtrler.Commit(); xerr != nil {
		return xerr
	}

	fmt.Printf("initialized %s at %s\n", daoName, homeDir)
	return nil
}
