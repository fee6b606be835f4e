package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
	"github.com/Marvin-Brouwer/slng-sub000/packages/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate request files for grammar errors",
	Long: `Validate request files without sending anything. Unresolved
placeholders and malformed requests are reported with their line.

Examples:
  slng validate api.http
  slng validate ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

var validateOpts commonOptions

func init() {
	validateOpts.register(validateCmd)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	s, err := validateOpts.open()
	if err != nil {
		return err
	}

	report := output.NewConsoleFormatter(
		output.WithWriter(cmd.ErrOrStderr()),
		output.WithNoColor(s.noColor),
	)

	hasErrors := false
	for _, file := range files {
		previews, err := s.runner.PreviewFile(cmd.Context(), file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}

		if invalid(previews) {
			report.FormatPreview(file, previews)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withExitCode(ExitParseError, fmt.Errorf("validation failed"))
	}
	return nil
}

func invalid(previews []*runner.Preview) bool {
	for _, p := range previews {
		if p.Err != nil {
			return true
		}
		if p.Document != nil && p.Document.Err() != nil {
			return true
		}
	}
	return false
}
