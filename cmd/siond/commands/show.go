package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ion-dao/ion-go/ctrlers/gov"
	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
)

var (
	showHeight int64
	showLimit  int
	showAfter  uint64
	showDesc   bool
)

// NewShowCmd reads a committed DB and prints state as JSON.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Inspect committed state",
	}
	cmd.PersistentFlags().Int64Var(&showHeight, "height", 0, "clock height for derived statuses")

	proposalsCmd := &cobra.Command{
		Use:   "proposals",
		Short: "List proposals",
		RunE:  showProposals,
	}
	proposalsCmd.Flags().IntVar(&showLimit, "limit", gov.DEFAULT_LIMIT, "page size")
	proposalsCmd.Flags().Uint64Var(&showAfter, "after", 0, "exclusive id cursor")
	proposalsCmd.Flags().BoolVar(&showDesc, "desc", false, "descending order")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "config",
			Short: "Show the organization config",
			RunE:  showConfig,
		},
		proposalsCmd,
	)
	return cmd
}

func printJSON(v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	daoCtrler, stakeCtrler, xerr := openCtrlers()
	if xerr != nil {
		return xerr
	}
	defer func() {
		_ = daoCtrler.Close()
		_ = stakeCtrler.Close()
	}()

	cfg, xerr := daoCtrler.GetConfig()
	if xerr != nil {
		return xerr
	}
	return printJSON(cfg)
}

func showProposals(cmd *cobra.Command, args []string) error {
	daoCtrler, stakeCtrler, xerr := openCtrlers()
	if xerr != nil {
		return xerr
	}
	defer func() {
		_ = daoCtrler.Close()
		_ = stakeCtrler.Close()
	}()

	bctx := ctrlertypes.NewBlockContext(showHeight, 0)
	props, xerr := daoCtrler.ReadProposals(bctx, gov.ProposalFilter{}, showAfter, showLimit, showDesc)
	if xerr != nil {
		return xerr
	}
	return printJSON(props)
}
