package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Marvin-Brouwer/slng-sub000/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Run the requests of request files",
	Long: `Run the requests defined in .http or .slng files.

Requests run in file order. A request referencing another with
{{@name.path}} sends it first and reuses its response.

Examples:
  slng run api.http
  slng run api.http --env staging
  slng run ./requests/ --name "create*"
  slng run api.http --output junit --output-file report.xml
  slng run api.http --metrics-file slng.prom`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

var (
	runOpts        commonOptions
	verboseFlag    int
	outputFlag     string
	outputFileFlag string
	watchFlag      bool
	metricsFile    string
	metricsAddr    string
)

func init() {
	runOpts.register(runCmd)
	runCmd.Flags().BoolVar(&runOpts.bail, "bail", getEnvBool("SLNG_BAIL", false), "Stop on first failure (env: SLNG_BAIL)")

	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output, shows the masked request and the response")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("SLNG_OUTPUT", "console"), "Output format: "+strings.Join(output.Formats, ", ")+" (env: SLNG_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("SLNG_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: SLNG_OUTPUT_FILE)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run requests")

	runCmd.Flags().StringVar(&metricsFile, "metrics-file", getEnvString("SLNG_METRICS_FILE", ""), "Write Prometheus metrics to file after the run (env: SLNG_METRICS_FILE)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", getEnvString("SLNG_METRICS_ADDR", ""), "Serve Prometheus metrics on address, e.g. :9090 (env: SLNG_METRICS_ADDR)")
}

// runSummary totals a run over all files.
type runSummary struct {
	passed   int
	failed   int
	skipped  int
	duration time.Duration
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	s, err := runOpts.open()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if metricsAddr != "" {
		srv := &nethttp.Server{Addr: metricsAddr, Handler: s.metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				s.logger.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		s.logger.Info().Str("addr", metricsAddr).Msg("serving metrics")
	}

	runAll := func(w io.Writer) (runSummary, error) {
		formatter, err := output.New(strings.ToLower(outputFlag), w, verboseFlag > 0, s.noColor)
		if err != nil {
			return runSummary{}, err
		}
		formatter.FormatHeader(version)

		summary := runFiles(ctx, s, formatter, files)
		if flushable, ok := formatter.(output.Flushable); ok {
			if err := flushable.Flush(summary.duration); err != nil {
				return summary, fmt.Errorf("error writing output: %w", err)
			}
		}
		return summary, nil
	}

	summary, err := runAll(out)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if metricsFile != "" {
		if err := s.metrics.WriteFile(metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if watchFlag {
		return watch(ctx, cmd.OutOrStdout(), files, args, func(string) {
			if _, err := runAll(out); err != nil {
				s.logger.Error().Err(err).Msg("re-run failed")
			}
		})
	}

	if ctx.Err() != nil {
		return withExitCode(ExitTestFailure, errors.New("interrupted"))
	}
	if summary.failed > 0 {
		return withExitCode(ExitTestFailure, fmt.Errorf("%d of %d requests failed", summary.failed, summary.passed+summary.failed))
	}
	return nil
}

func runFiles(ctx context.Context, s *session, formatter output.Formatter, files []string) runSummary {
	var summary runSummary
	start := time.Now()

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		result, err := s.runner.RunFile(ctx, file)
		if err != nil {
			formatter.FormatError(err)
			summary.failed++
			if s.bail {
				break
			}
			continue
		}

		formatter.FormatResult(result)
		summary.passed += result.Passed
		summary.failed += result.Failed
		summary.skipped += result.Skipped

		if s.bail && result.Failed > 0 {
			break
		}
	}

	summary.duration = time.Since(start)
	return summary
}
