package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/ion-dao/ion-go/ctrlers/gov"
	"github.com/ion-dao/ion-go/ctrlers/stake"
	ctrlertypes "github.com/ion-dao/ion-go/ctrlers/types"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

var (
	homeDir string
	daoAddr string
)

var RootCmd = &cobra.Command{
	Use:   "siond",
	Short: "ion-go governance engine",
}

func init() {
	defaultHome := os.Getenv("SIONHOME")
	if defaultHome == "" {
		home, _ := os.UserHomeDir()
		defaultHome = filepath.Join(home, ".siond")
	}
	RootCmd.PersistentFlags().StringVar(&homeDir, "home", defaultHome, "directory holding the DB")
	RootCmd.PersistentFlags().StringVar(&daoAddr, "dao", "", "hex address of the organization account")

	RootCmd.AddCommand(
		NewInitCmd(),
		NewShowCmd(),
	)
}

func newLogger() tmlog.Logger {
	return tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout))
}

func openCtrlers() (*gov.DaoCtrler, *stake.StakeCtrler, xerrors.XError) {
	logger := newLogger()

	addr := types.ZeroAddress()
	if daoAddr != "" {
		a, xerr := types.HexToAddress(daoAddr)
		if xerr != nil {
			return nil, nil, xerr
		}
		addr = a
	}

	stakeCtrler, xerr := stake.NewStakeCtrler(homeDir, ctrlertypes.Duration{}, logger)
	if xerr != nil {
		return nil, nil, xerr
	}
	daoCtrler, xerr := gov.NewDaoCtrler(homeDir, addr, stakeCtrler, logger)
	if xerr != nil {
		_ = stakeCtrler.Close()
		return nil, nil, xerr
	}
	return daoCtrler, stakeCtrler, nil
}
