package thaumaturgy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "DUPLICATE_ENTITY: entity is already registered (entity=Author)", newDuplicateEntityError("Author").Error())
	assert.Equal(t, "NO_ENTITIES: no leaves found to persist", newNoEntitiesError().Error())
}

func TestError_Predicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"manifester required", newManifesterRequiredError("A"), IsManifesterRequired},
		{"duplicate entity", newDuplicateEntityError("A"), IsDuplicateEntity},
		{"duplicate manifester", newDuplicateManifesterError("A"), IsDuplicateManifester},
		{"duplicate persister", newDuplicatePersisterError("A"), IsDuplicatePersister},
		{"manifester not found", newManifesterNotFoundError("A"), IsManifesterNotFound},
		{"persister not found", newPersisterNotFoundError("A"), IsPersisterNotFound},
		{"no entities", newNoEntitiesError(), IsNoEntities},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.is(errors.New(tt.err.Error())))
		})
	}

	assert.False(t, IsDuplicateEntity(newNoEntitiesError()))
	assert.False(t, IsNoEntities(nil))
}
