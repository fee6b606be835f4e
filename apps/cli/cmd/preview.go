package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Marvin-Brouwer/slng-sub000/packages/output"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file|directory>",
	Short: "Show requests as they would be displayed, without sending them",
	Long: `Show the display view of the requests in .http or .slng files. Secret
and sensitive values are masked and values that depend on another
request's response are shown as placeholders. Nothing is sent.

Examples:
  slng preview api.http
  slng preview api.http --env staging --watch
  slng preview ./requests/ --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: previewCommand,
}

var (
	previewOpts       commonOptions
	previewOutputFlag string
	previewWatchFlag  bool
)

func init() {
	previewOpts.register(previewCmd)
	previewCmd.Flags().StringVarP(&previewOutputFlag, "output", "o", getEnvString("SLNG_OUTPUT", "console"), "Output format: "+strings.Join(output.Formats, ", ")+" (env: SLNG_OUTPUT)")
	previewCmd.Flags().BoolVarP(&previewWatchFlag, "watch", "w", false, "Watch files for changes and preview again")
}

func previewCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	s, err := previewOpts.open()
	if err != nil {
		return err
	}

	previewAll := func(w io.Writer) error {
		formatter, err := output.New(strings.ToLower(previewOutputFlag), w, true, s.noColor)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}

		start := time.Now()
		for _, file := range files {
			previews, err := s.runner.PreviewFile(ctx, file)
			if err != nil {
				formatter.FormatError(err)
				continue
			}
			formatter.FormatPreview(file, previews)
		}

		if flushable, ok := formatter.(output.Flushable); ok {
			if err := flushable.Flush(time.Since(start)); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}
		return nil
	}

	if err := previewAll(cmd.OutOrStdout()); err != nil {
		return err
	}

	if previewWatchFlag {
		return watch(ctx, cmd.OutOrStdout(), files, args, func(string) {
			if err := previewAll(cmd.OutOrStdout()); err != nil {
				s.logger.Error().Err(err).Msg("preview failed")
			}
		})
	}
	return nil
}
