package main

import (
	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/internal/logsetup"
	"github.com/spf13/cobra"
)

var (
	version = "0.0.0-dev"
	commit  = "none"
	date    = "unknown"
)

type rootFlags struct {
	logOptions *logsetup.Options
}

var rootArgs = rootFlags{
	logOptions: logsetup.DefaultOptions(),
}

var logger logr.Logger

var rootCmd = &cobra.Command{
	Use:               "pairbench",
	Short:             "Two host remote test orchestrator",
	PersistentPreRunE: runRoot,
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		panic(err)
	}
}

func init() {
	rootArgs.logOptions.BindFlags(rootCmd.PersistentFlags())
}

func runRoot(cmd *cobra.Command, args []string) error {
	var err error
	logger, _, err = rootArgs.logOptions.Build()

	return err
}
