package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/gofrs/flock"
	"github.com/pairbench/pairbench/internal/artifact"
	"github.com/pairbench/pairbench/internal/credential"
	"github.com/pairbench/pairbench/internal/driver"
	"github.com/pairbench/pairbench/internal/mask"
	"github.com/pairbench/pairbench/internal/otelsetup"
	"github.com/pairbench/pairbench/internal/pipeline"
	"github.com/pairbench/pairbench/internal/processor"
	"github.com/pairbench/pairbench/internal/report"
	"github.com/pairbench/pairbench/internal/secrets"
	"github.com/pairbench/pairbench/internal/storage"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"
	kruntime "k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
)

var runCmd = &cobra.Command{
	Use:  "run",
	RunE: runRun,
}

type runFlags struct {
	ref                 string        `env:"REF"`
	secretsFile         string        `env:"SECRETS_FILE"`
	credentialDir       string        `env:"CREDENTIAL_DIR"`
	report              string        `env:"REPORT"`
	reportOutput        string        `env:"REPORT_OUTPUT"`
	gracefulTermination time.Duration `env:"GRACEFUL_TERMINATION"`
	lockTimeout         time.Duration `env:"LOCK_TIMEOUT"`
	preflightBackoff    time.Duration `env:"PREFLIGHT_BACKOFF"`
	preflightRetries    uint64        `env:"PREFLIGHT_RETRIES"`
	otelOptions         otelsetup.Options
}

var runArgs = newRunFlags()

func newRunFlags() runFlags {
	return runFlags{
		otelOptions: otelsetup.DefaultOptions(otelName),
	}
}

const otelName = "github.com/pairbench/pairbench"

func init() {
	runCmd.Flags().StringVarP(&runArgs.ref, "ref", "", electDefaultRef(), "Revision ref the run is triggered for.")
	runCmd.Flags().StringVarP(&runArgs.secretsFile, "secrets-file", "", "", "Path to a dotenv file with the host pair secrets. The process environment is consulted first.")
	runCmd.Flags().StringVarP(&runArgs.credentialDir, "credential-dir", "", "", "Directory the run scoped ssh credential is provisioned in. A temporary directory is used otherwise.")
	runCmd.Flags().StringVarP(&runArgs.report, "report", "r", electDefaultReport(), "Report summary of the stages at the end of the run. One of [none, table, json, markdown].")
	runCmd.Flags().StringVarP(&runArgs.reportOutput, "report-output", "", electDefaultReportOutput(), "Destination for the report output.")
	runCmd.Flags().DurationVarP(&runArgs.gracefulTermination, "graceful-termination", "", time.Second*5, "Allow teardown handlers to finish gracefully.")
	runCmd.Flags().DurationVarP(&runArgs.lockTimeout, "lock-timeout", "", time.Hour, "How long to wait for an exclusive lease on the host pair.")
	runCmd.Flags().DurationVarP(&runArgs.preflightBackoff, "preflight-backoff", "", time.Second*2, "Delay between host reachability probes.")
	runCmd.Flags().Uint64VarP(&runArgs.preflightRetries, "preflight-retries", "", 10, "How often an unreachable host is probed again before the run is given up.")
	runArgs.otelOptions.BindFlags(runCmd.Flags())

	rootCmd.AddCommand(runCmd)
}

type reportType string

var (
	reportTypeNone     reportType = "none"
	reportTypeTable    reportType = "table"
	reportTypeJSON     reportType = "json"
	reportTypeMarkdown reportType = "markdown"
)

func (d reportType) String() string {
	return string(d)
}

// electDefaultRef picks up the revision from the ci environment if there
// is one.
func electDefaultRef() string {
	if ref := os.Getenv("GITHUB_REF_NAME"); ref != "" {
		return ref
	}

	return os.Getenv("GITHUB_REF")
}

func electDefaultReport() string {
	if os.Getenv("GITHUB_STEP_SUMMARY") != "" {
		return reportTypeMarkdown.String()
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return reportTypeTable.String()
	}

	return reportTypeNone.String()
}

func electDefaultReportOutput() string {
	if os.Getenv("GITHUB_STEP_SUMMARY") != "" {
		return os.Getenv("GITHUB_STEP_SUMMARY")
	}

	return os.Stdout.Name()
}

func stageBuilder(
	logger logr.Logger,
	tracer trace.Tracer,
	meter metric.Meter,
	provider secrets.Interface,
	provisioner *credential.Provisioner,
	collector *artifact.Collector,
	invoker *driver.Invoker,
	maskStore *mask.Store,
	campaign v1beta1.CampaignSpec,
	teardown chan processor.Teardown,
) pipeline.StageBuilder {
	return func(spec *processor.StageSpec) []processor.Bootstraper {
		return processor.Builder(spec,
			processor.WithRecover(),
			processor.WithResult(),
			processor.WithLogger(logger),
			processor.WithOtelTrace(tracer),
			processor.WithOtelMetrics(meter),
			processor.WithCollect(collector),
			processor.WithTimeout(),
			processor.WithProvision(provider, provisioner, maskStore, teardown),
			processor.WithPreflight(processor.DefaultDialer(), runArgs.preflightBackoff, runArgs.preflightRetries),
			processor.WithInvoke(invoker, campaign),
		)
	}
}

func runRun(c *cobra.Command, args []string) error {
	if runArgs.ref == "" {
		return errors.New("no revision ref given, set --ref")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		logger.Info("received signal", "signal", sig)
		cancel()
	}()

	scheme := kruntime.NewScheme()
	if err := v1beta1.AddToScheme(scheme); err != nil {
		return err
	}

	factory := serializer.NewCodecFactory(scheme)
	decoder := factory.UniversalDeserializer()

	var ref string
	if len(args) > 0 {
		ref = args[0]
	}

	store := storage.New(
		decoder,
		storage.WithFile(),
	)

	campaign, err := store.Lookup(ctx, ref)
	if err != nil {
		return err
	}

	campaign.SetDefaults()
	if err := campaign.Validate(); err != nil {
		return err
	}

	// one run per host pair at a time
	lock := flock.New(lockPath(campaign.CampaignSpec))
	lockCtx, cancelLock := context.WithTimeout(ctx, runArgs.lockTimeout)
	defer cancelLock()

	locked, err := lock.TryLockContext(lockCtx, time.Second)
	if err != nil || !locked {
		return fmt.Errorf("host pair %s/%s is busy: %w", campaign.Server.Address, campaign.Client.Address, err)
	}

	defer func() {
		_ = lock.Unlock()
	}()

	credentialDir := runArgs.credentialDir
	if credentialDir == "" {
		tmpDir, err := os.MkdirTemp(os.TempDir(), "pairbench")
		if err != nil {
			return fmt.Errorf("failed to create tmp dir: %w", err)
		}

		credentialDir = tmpDir
		defer func() {
			_ = os.RemoveAll(tmpDir)
		}()
	}

	tp, err := runArgs.otelOptions.BuildTraceProvider(ctx)
	if err != nil {
		return err
	}

	defer tp.Shutdown(context.Background())

	mp, err := runArgs.otelOptions.BuildMeterProvider(ctx)
	if err != nil {
		return err
	}

	defer mp.Shutdown(context.Background())

	provider := secretsProvider()
	provisioner := credential.NewProvisioner(credentialDir, logger)
	collector := artifact.NewCollector(campaign.Driver.WorkDir, campaign.Artifacts.Dir, campaign.Artifacts.Suffixes, logger)

	invoker, err := driver.NewInvoker(campaign.Driver, logger)
	if err != nil {
		return err
	}

	maskStore := mask.NewStore(nil)

	teardown := make(chan processor.Teardown)
	collected := drainTeardown(teardown)

	builder := pipeline.NewBuilder(
		pipeline.WithLogger(logger),
		pipeline.WithStageBuilder(stageBuilder(
			logger,
			tp.Tracer(otelName),
			mp.Meter(otelName),
			provider,
			provisioner,
			collector,
			invoker,
			maskStore,
			campaign.CampaignSpec,
			teardown,
		)),
	)

	var run *pipeline.Run
	var result error

	executable, err := builder.Build(campaign)
	if err != nil {
		result = err
	} else {
		stageContext := processor.NewContext(runArgs.ref, maskStore.Writer(os.Stdout), maskStore.Writer(os.Stderr))
		run, result = executable(ctx, stageContext)
	}

	cancel()
	close(teardown)

	teardownCtx, cancelTeardown := context.WithTimeout(context.Background(), runArgs.gracefulTermination)
	defer cancelTeardown()

	var wg sync.WaitGroup
	for _, teardownFunc := range collected() {
		wg.Add(1)
		go func(teardownFunc processor.Teardown) {
			defer wg.Done()
			if err := teardownFunc(teardownCtx); err != nil {
				logger.Error(err, "failed to execute teardown")
			}
		}(teardownFunc)
	}

	wg.Wait()

	if run != nil {
		if err := printReport(run); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if result != nil {
		fmt.Fprintln(os.Stderr, result.Error())

		if run != nil {
			os.Exit(run.ExitCode())
		}

		os.Exit(1)
	}

	return nil
}

// drainTeardown collects teardown handlers until the channel is closed.
// The returned func blocks until the last handler was received, so
// closing the channel and calling it never loses a handler.
func drainTeardown(teardown <-chan processor.Teardown) func() []processor.Teardown {
	var teardownFuncs []processor.Teardown
	done := make(chan struct{})

	go func() {
		defer close(done)
		for teardownFunc := range teardown {
			teardownFuncs = append(teardownFuncs, teardownFunc)
		}
	}()

	return func() []processor.Teardown {
		<-done
		return teardownFuncs
	}
}

func secretsProvider() secrets.Interface {
	resolvers := []secrets.Resolver{
		secrets.WithEnv(os.LookupEnv),
	}

	if runArgs.secretsFile != "" {
		resolvers = append(resolvers, secrets.WithDotenv(runArgs.secretsFile))
	}

	return secrets.New(resolvers...)
}

func lockPath(campaign v1beta1.CampaignSpec) string {
	pair := fmt.Sprintf("pairbench-%s-%s.lock", campaign.Server.Address, campaign.Client.Address)
	pair = strings.Map(func(r rune) rune {
		if r == '/' || r == ':' {
			return '-'
		}

		return r
	}, pair)

	return filepath.Join(os.TempDir(), pair)
}

func printReport(run *pipeline.Run) error {
	if runArgs.report == reportTypeNone.String() {
		return nil
	}

	outputPath := runArgs.reportOutput
	var output *os.File
	if outputPath == "/dev/stdout" || outputPath == "" {
		output = os.Stdout
	} else {
		var err error
		output, err = os.OpenFile(outputPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0640)
		if err != nil {
			return err
		}
		defer output.Close()
	}

	switch runArgs.report {
	case reportTypeTable.String():
		r := report.Table(output)
		if err := r.Report(run); err != nil {
			return err
		}

		return r.Finalize()
	case reportTypeJSON.String():
		r := report.JSON(output)
		if err := r.Report(run); err != nil {
			return err
		}

		return r.Finalize()
	case reportTypeMarkdown.String():
		return report.Markdown(output, run)
	default:
		return errors.New("unknown report type given")
	}
}
