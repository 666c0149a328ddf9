package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/maxdeviant/thaumaturgy/internal/fixturefile"
)

// LoadError represents an error that occurred while loading a fixture
// document.
type LoadError struct {
	Code    string
	Message string

	// Problems lists individual validation failures, if any.
	Problems []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeUnsupported   = "E002" // Unsupported file extension
	ErrCodeLoadFailed    = "E004" // Document could not be parsed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeInvalid       = "E006" // Document failed validation
	ErrCodeUnknownEntity = "E007" // Entity not declared in document
	ErrCodeBadOverride   = "E008" // Malformed --set flag
	ErrCodeDatabase      = "E009" // Database could not be opened
	ErrCodePersistFailed = "E010" // A persister failed
	ErrCodeManifest      = "E011" // Manifesting failed
)

// LoadDocument reads and validates the fixture document at path, mapping
// failures to CLI error codes.
func LoadDocument(path string) (*fixturefile.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("fixture file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing fixture file: %v", err)}
	}

	if _, err := fixturefile.FormatFor(path); err != nil {
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: err.Error()}
	}

	doc, err := fixturefile.Load(path)
	if err != nil {
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			loadErr := &LoadError{Code: ErrCodeInvalid, Message: "invalid fixture document"}
			for _, problem := range joined.Unwrap() {
				loadErr.Problems = append(loadErr.Problems, problem.Error())
			}
			return nil, loadErr
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
	}

	return doc, nil
}

// failLoad reports a LoadDocument error through formatter.
func failLoad(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}

	var details any
	if len(loadErr.Problems) > 0 {
		details = loadErr.Problems
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, details)
	return NewExitError(ExitCommandError, loadErr.Code+": "+loadErr.Message)
}
