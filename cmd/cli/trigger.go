package main

import (
	"fmt"
	"os"

	"github.com/pairbench/pairbench/internal/storage"
	"github.com/pairbench/pairbench/internal/trigger"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/spf13/cobra"
	kruntime "k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Evaluate whether a revision ref qualifies for a run",
	Long: `Evaluates the branch pattern trigger against the given ref and exits 0
if a run should be created. A ref which does not qualify exits with code 2,
which lets a ci workflow use the command as its entry gate.`,
	RunE: runTrigger,
}

type triggerFlags struct {
	ref string `env:"REF"`
}

var triggerArgs = triggerFlags{}

// exit code for a ref which does not qualify, distinct from hard errors
const exitCodeNoMatch = 2

func init() {
	triggerCmd.Flags().StringVarP(&triggerArgs.ref, "ref", "", electDefaultRef(), "Revision ref to evaluate.")
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	if triggerArgs.ref == "" {
		return fmt.Errorf("no revision ref given, set --ref")
	}

	patterns := v1beta1.DefaultTriggerBranches

	// patterns come from the campaign manifest if one is given
	if len(args) > 0 {
		scheme := kruntime.NewScheme()
		if err := v1beta1.AddToScheme(scheme); err != nil {
			return err
		}

		decoder := serializer.NewCodecFactory(scheme).UniversalDeserializer()
		store := storage.New(decoder, storage.WithFile())

		campaign, err := store.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		campaign.SetDefaults()
		patterns = campaign.Trigger.Branches
	}

	if !trigger.Qualifies(triggerArgs.ref, patterns) {
		logger.Info("ref does not qualify for a run", "ref", triggerArgs.ref, "patterns", patterns)
		os.Exit(exitCodeNoMatch)
	}

	logger.Info("ref qualifies for a run", "ref", triggerArgs.ref)

	return nil
}
