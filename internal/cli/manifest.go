package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxdeviant/thaumaturgy"
	"github.com/maxdeviant/thaumaturgy/internal/fixturefile"
	"github.com/maxdeviant/thaumaturgy/value"
)

// ManifestOptions holds flags for the manifest command.
type ManifestOptions struct {
	*RootOptions
	Set []string
}

// ManifestResult is a manifested object.
type ManifestResult struct {
	Entity string       `json:"entity"`
	Object value.Object `json:"object"`
}

// RenderText implements TextRenderer.
func (r ManifestResult) RenderText(w io.Writer) error {
	return renderObject(w, r.Object)
}

// NewManifestCommand creates the manifest command.
func NewManifestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ManifestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "manifest <fixture-file> <entity>",
		Short: "Print a manifested object",
		Long: `Manifest one entity and print it with every reference resolved.

Nothing is persisted. Fields given with --set replace manifested ones; a value
that parses as JSON is used as such, anything else is a string.

Example:
  thaumaturgy manifest fixtures.yaml Post
  thaumaturgy manifest fixtures.yaml Post --set title=Hello --set authorId=42`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "override a field (field=value), repeatable")

	return cmd
}

func runManifest(opts *ManifestOptions, path, entity string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	overrides, err := parseOverrides(opts.Set)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadOverride, "invalid --set flag", err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	if _, ok := doc.Entity(entity); !ok {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownEntity, fmt.Sprintf("entity %q is not declared", entity), nil)
	}

	realm, err := fixturefile.NewRealm(doc, realmOptions(opts.RootOptions)...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to define entities", err)
	}

	var obj value.Object
	err = guard(func() error {
		var err error
		obj, err = realm.Manifest(thaumaturgy.NewEntity(entity), overrides)
		return err
	})
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeManifest, "failed to manifest "+entity, err)
	}

	return formatter.Success(ManifestResult{Entity: entity, Object: obj})
}

// parseOverrides parses field=value pairs.
func parseOverrides(pairs []string) (value.Object, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	overrides := make(value.Object, len(pairs))
	for _, pair := range pairs {
		field, raw, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", pair)
		}

		v, err := value.Parse([]byte(raw))
		if err != nil {
			v = value.String(raw)
		}
		overrides[field] = v
	}
	return overrides, nil
}

// renderObject writes obj as indented JSON.
func renderObject(w io.Writer, obj value.Object) error {
	data, err := value.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
