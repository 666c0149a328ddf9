package thaumaturgy

import (
	"errors"
	"fmt"
)

// Error is returned for registration conflicts, failed lookups and an empty
// realm. These are setup mistakes; none of them is retried.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Entity is the name of the entity involved, if any.
	Entity string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes realm errors.
type ErrorCode string

const (
	// ErrCodeManifesterRequired indicates a definition without a manifester.
	ErrCodeManifesterRequired ErrorCode = "MANIFESTER_REQUIRED"

	// ErrCodeDuplicateEntity indicates an entity name was defined twice.
	ErrCodeDuplicateEntity ErrorCode = "DUPLICATE_ENTITY"

	// ErrCodeDuplicateManifester indicates a second manifester for one entity.
	ErrCodeDuplicateManifester ErrorCode = "DUPLICATE_MANIFESTER"

	// ErrCodeDuplicatePersister indicates a second persister for one entity.
	ErrCodeDuplicatePersister ErrorCode = "DUPLICATE_PERSISTER"

	// ErrCodeManifesterNotFound indicates no manifester is registered for an entity.
	ErrCodeManifesterNotFound ErrorCode = "MANIFESTER_NOT_FOUND"

	// ErrCodePersisterNotFound indicates no persister is registered for an entity.
	ErrCodePersisterNotFound ErrorCode = "PERSISTER_NOT_FOUND"

	// ErrCodeNoEntities indicates leaves were requested from an empty realm.
	ErrCodeNoEntities ErrorCode = "NO_ENTITIES"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (entity=%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newManifesterRequiredError(name string) *Error {
	return &Error{Code: ErrCodeManifesterRequired, Entity: name, Message: "manifester is required"}
}

func newDuplicateEntityError(name string) *Error {
	return &Error{Code: ErrCodeDuplicateEntity, Entity: name, Message: "entity is already registered"}
}

func newDuplicateManifesterError(name string) *Error {
	return &Error{Code: ErrCodeDuplicateManifester, Entity: name, Message: "a manifester is already registered"}
}

func newDuplicatePersisterError(name string) *Error {
	return &Error{Code: ErrCodeDuplicatePersister, Entity: name, Message: "a persister is already registered"}
}

func newManifesterNotFoundError(name string) *Error {
	return &Error{Code: ErrCodeManifesterNotFound, Entity: name, Message: "no manifester found"}
}

func newPersisterNotFoundError(name string) *Error {
	return &Error{Code: ErrCodePersisterNotFound, Entity: name, Message: "no persister found"}
}

func newNoEntitiesError() *Error {
	return &Error{Code: ErrCodeNoEntities, Message: "no leaves found to persist"}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsManifesterRequired returns true if err reports a definition without a
// manifester.
func IsManifesterRequired(err error) bool { return hasCode(err, ErrCodeManifesterRequired) }

// IsDuplicateEntity returns true if err reports an entity defined twice.
// Uses errors.As to handle wrapped errors.
func IsDuplicateEntity(err error) bool { return hasCode(err, ErrCodeDuplicateEntity) }

// IsDuplicateManifester returns true if err reports a second manifester.
func IsDuplicateManifester(err error) bool { return hasCode(err, ErrCodeDuplicateManifester) }

// IsDuplicatePersister returns true if err reports a second persister.
func IsDuplicatePersister(err error) bool { return hasCode(err, ErrCodeDuplicatePersister) }

// IsManifesterNotFound returns true if err reports a missing manifester.
func IsManifesterNotFound(err error) bool { return hasCode(err, ErrCodeManifesterNotFound) }

// IsPersisterNotFound returns true if err reports a missing persister.
func IsPersisterNotFound(err error) bool { return hasCode(err, ErrCodePersisterNotFound) }

// IsNoEntities returns true if err reports an empty realm.
func IsNoEntities(err error) bool { return hasCode(err, ErrCodeNoEntities) }
