package fixturefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor returns the format implied by a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported fixture file extension %q", filepath.Ext(path))
	}
}

// Load reads, parses and validates the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	return parse(data, format, path)
}

// Parse decodes and validates a document. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Document, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, filename string) (*Document, error) {
	var (
		doc Document
		err error
	)

	switch format {
	case FormatYAML:
		err = decodeYAML(data, &doc)
	case FormatCUE:
		err = decodeCUE(data, filename, &doc)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(&doc); err != nil {
		return nil, fmt.Errorf("invalid fixture document: %w", err)
	}
	return &doc, nil
}

func decodeYAML(data []byte, doc *Document) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse YAML: empty document")
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func decodeCUE(data []byte, filename string, doc *Document) error {
	ctx := cuecontext.New()

	var opts []cue.BuildOption
	if filename != "" {
		opts = append(opts, cue.Filename(filename))
	}

	v := ctx.CompileBytes(data, opts...)
	if err := v.Err(); err != nil {
		return fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("CUE value is not concrete: %w", err)
	}
	if err := v.Decode(doc); err != nil {
		return fmt.Errorf("failed to decode CUE: %w", err)
	}
	return nil
}
