package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Entities int      `json:"entities,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// RenderText implements TextRenderer.
func (r ValidationResult) RenderText(w io.Writer) error {
	if r.Valid {
		_, err := fmt.Fprintf(w, "\u2713 Fixture document valid (%d entities)\n", r.Entities)
		return err
	}

	fmt.Fprintln(w, "\u2717 Validation failed")
	fmt.Fprintln(w)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return nil
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixture-file>",
		Short: "Validate a fixture document",
		Long: `Validate a fixture document without manifesting anything.

Checks that the document parses, that entity names are unique, that every
field has exactly one kind, that references and sequences point at declared
names, and that expressions compile.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeInvalid {
			return outputValidationErrors(formatter, loadErr.Problems)
		}
		return failLoad(formatter, err)
	}

	formatter.VerboseLog("Validated %d entities in %s", len(doc.Entities), path)
	return formatter.Success(ValidationResult{Valid: true, Entities: len(doc.Entities)})
}

// outputValidationErrors outputs validation problems.
func outputValidationErrors(formatter *OutputFormatter, problems []string) error {
	result := ValidationResult{Valid: false, Errors: problems}

	if formatter.Format == "json" {
		msg := "invalid fixture document"
		if len(problems) > 0 {
			msg = problems[0]
		}
		if err := formatter.emit(Envelope{
			Status: "error",
			Data:   result,
			Error:  &Problem{Code: ErrCodeInvalid, Message: msg},
		}); err != nil {
			return err
		}
	} else if err := result.RenderText(formatter.Writer); err != nil {
		return err
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(problems)))
}

// newFormatter builds the formatter for a command. Verbose logs go to stderr
// to avoid corrupting JSON.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
