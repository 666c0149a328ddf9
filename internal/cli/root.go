package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/maxdeviant/thaumaturgy"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// UniqueGenerator overrides the realm's unique value generator (for
	// testing). If nil, UUIDs are generated.
	UniqueGenerator func() string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the thaumaturgy CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "thaumaturgy",
		Short: "Thaumaturgy - test fixtures from entity definitions",
		Long: `Manifest and persist test fixtures described in fixture documents.

Entities declare their fields, sequences and references to other entities.
Referenced entities are created on demand and persisted before the entities
that depend on them.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewManifestCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger returns the diagnostic logger. Verbose enables debug records,
// including the realm's per-persister records.
func newLogger(opts *RootOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// realmOptions returns the realm options implied by the global flags.
func realmOptions(opts *RootOptions) []thaumaturgy.Option {
	realmOpts := []thaumaturgy.Option{thaumaturgy.WithLogger(newLogger(opts))}
	if opts.UniqueGenerator != nil {
		realmOpts = append(realmOpts, thaumaturgy.WithUniqueGenerator(opts.UniqueGenerator))
	}
	return realmOpts
}

// errExpression marks a fixture expression that failed while manifesting.
var errExpression = errors.New("fixture expression failed")

// guard runs fn, turning a panic raised by a failing fixture expression into
// an error wrapping errExpression.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errExpression, r)
		}
	}()
	return fn()
}
