package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxdeviant/thaumaturgy/internal/fixturefile"
	"github.com/maxdeviant/thaumaturgy/sqlstore"
	"github.com/maxdeviant/thaumaturgy/value"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
	Entity   string
}

// SeedResult summarizes a seed.
type SeedResult struct {
	Rows      map[string]int       `json:"rows"`
	Records   []fixturefile.Record `json:"records"`
	Persisted []value.Object       `json:"persisted"`
}

// RenderText implements TextRenderer.
func (r SeedResult) RenderText(w io.Writer) error {
	tables := make([]string, 0, len(r.Rows))
	for table := range r.Rows {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	counts := make([]string, len(tables))
	total := 0
	for i, table := range tables {
		counts[i] = fmt.Sprintf("%s=%d", table, r.Rows[table])
		total += r.Rows[table]
	}
	fmt.Fprintf(w, "Seeded %d row(s): %s\n", total, strings.Join(counts, " "))

	for _, obj := range r.Persisted {
		if err := renderObject(w, obj); err != nil {
			return err
		}
	}
	return nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <fixture-file>",
		Short: "Persist fixtures into a SQLite database",
		Long: `Persist fixtures described by a fixture document into SQLite.

The document schema is applied first. Then the leaves of the document, or the
entity named by --entity, are persisted together with everything they
reference, inside one transaction. Nothing is committed if any insert fails.

Example:
  thaumaturgy seed --db ./fixtures.db fixtures.yaml
  thaumaturgy seed --db ./fixtures.db --entity Post fixtures.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "persist this entity instead of the leaves")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions)

	doc, err := LoadDocument(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	if opts.Entity != "" {
		if _, ok := doc.Entity(opts.Entity); !ok {
			return formatter.Fail(ExitCommandError, ErrCodeUnknownEntity, fmt.Sprintf("entity %q is not declared", opts.Entity), nil)
		}
	}

	logger.Debug("opening database", "path", opts.Database)
	st, err := sqlstore.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var seeded *fixturefile.SeedResult
	err = guard(func() error {
		var err error
		seeded, err = fixturefile.Seed(ctx, st, doc, fixturefile.SeedOptions{
			Entity:       opts.Entity,
			RealmOptions: realmOptions(opts.RootOptions),
		})
		return err
	})
	if errors.Is(err, errExpression) {
		return formatter.Fail(ExitFailure, ErrCodeManifest, "seed failed", err)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodePersistFailed, "seed failed", err)
	}

	result := SeedResult{
		Rows:      make(map[string]int),
		Records:   seeded.Records,
		Persisted: seeded.Persisted,
	}
	for _, rec := range seeded.Records {
		result.Rows[rec.Table]++
	}

	logger.Info("seed complete", slog.Int("rows", len(seeded.Records)), slog.String("db", opts.Database))
	return formatter.Success(result)
}
