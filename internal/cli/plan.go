package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxdeviant/thaumaturgy"
	"github.com/maxdeviant/thaumaturgy/internal/fixturefile"
)

// PlanResult lists dependency layers of a fixture document.
type PlanResult struct {
	Batches [][]string `json:"batches"`
	Leaves  []string   `json:"leaves"`
}

// RenderText implements TextRenderer.
func (r PlanResult) RenderText(w io.Writer) error {
	for i, batch := range r.Batches {
		fmt.Fprintf(w, "batch %d: %s\n", i+1, strings.Join(batch, ", "))
	}
	_, err := fmt.Fprintf(w, "leaves: %s\n", strings.Join(r.Leaves, ", "))
	return err
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <fixture-file>",
		Short: "Show dependency layers",
		Long: `Show the dependency layers of a fixture document.

The first batch holds entities that reference nothing. Each later batch only
references entities of earlier batches. The last batch holds the leaves,
which is what seed persists by default.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runPlan(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return failLoad(formatter, err)
	}

	realm, err := fixturefile.NewRealm(doc, realmOptions(opts)...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to define entities", err)
	}

	var batches [][]thaumaturgy.Entity
	err = guard(func() error {
		var err error
		batches, err = realm.Batches()
		return err
	})
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeManifest, "failed to compute batches", err)
	}

	result := PlanResult{Batches: make([][]string, len(batches)), Leaves: []string{}}
	for i, batch := range batches {
		result.Batches[i] = make([]string, len(batch))
		for j, e := range batch {
			result.Batches[i][j] = e.Name
		}
	}
	if len(result.Batches) > 0 {
		result.Leaves = result.Batches[len(result.Batches)-1]
	}

	return formatter.Success(result)
}
