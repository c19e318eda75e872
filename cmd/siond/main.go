package main

import (
	"os"

	"github.com/ion-dao/ion-go/cmd/siond/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
