package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/spf13/cobra"
	kruntime "k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint campaign manifests",
	Example: `  # Validate the campaign before it is rolled out to the test bed
  pairbench lint deploy/campaign.yaml`,
	RunE: lintRun,
}

type lintFlags struct {
	outputFormat OutputFormat
}

var lintArgs = newLintFlags()

func newLintFlags() lintFlags {
	return lintFlags{
		outputFormat: OutputHuman,
	}
}

func init() {
	lintCmd.Flags().VarP(&lintArgs.outputFormat, "output", "o", "Output format. Choice of: \"human\" or \"json\"")
	rootCmd.AddCommand(lintCmd)
}

type OutputFormat string

const (
	OutputHuman OutputFormat = "human"
	OutputJSON  OutputFormat = "json"
)

// String is used both by fmt.Print and by Cobra in help text
func (e *OutputFormat) String() string {
	return string(*e)
}

// Set must have pointer receiver so it doesn't change the value of a copy
func (e *OutputFormat) Set(v string) error {
	switch v {
	case "human", "json":
		*e = OutputFormat(v)
		return nil
	default:
		return fmt.Errorf(`must be one of "human", or "json"`)
	}
}

// Type is only used in help text
func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

func lintRun(cmd *cobra.Command, args []string) error {
	scheme := kruntime.NewScheme()
	if err := v1beta1.AddToScheme(scheme); err != nil {
		return err
	}

	decoder := serializer.NewCodecFactory(scheme).UniversalDeserializer()

	hasError := false
	results := map[string]string{}

	for _, path := range args {
		err := validateManifest(decoder, path)
		if err != nil {
			hasError = true
		}

		if lintArgs.outputFormat == OutputHuman {
			fmt.Fprintf(cmd.OutOrStdout(), "\n\033[1m%v\033[0m...", path)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "\033[31mERROR\033[0m")
				fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "\033[32mOK\033[0m")
			}

			continue
		}

		if err != nil {
			results[path] = err.Error()
		} else {
			results[path] = "ok"
		}
	}

	if lintArgs.outputFormat == OutputJSON {
		data, err := json.MarshalIndent(results, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to render results into JSON: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if hasError {
		return fmt.Errorf("one or more manifests are invalid")
	}

	return nil
}

func validateManifest(decoder kruntime.Decoder, path string) error {
	manifest, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	campaign := v1beta1.Campaign{}
	if _, _, err := decoder.Decode(manifest, nil, &campaign); err != nil {
		return err
	}

	campaign.SetDefaults()

	return campaign.Validate()
}
