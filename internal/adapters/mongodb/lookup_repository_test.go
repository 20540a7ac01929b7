package mongodb

import (
	"testing"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

// Note: These tests validate collection mapping and error constants.
// Integration tests against a real MongoDB instance live elsewhere.

func TestMongoErrors(t *testing.T) {
	assert.NotNil(t, ErrNotFound)
	assert.Equal(t, "record not found", ErrNotFound.Error())
	assert.NotNil(t, ErrAlreadyExists)
	assert.Equal(t, "record already exists", ErrAlreadyExists.Error())
}

func TestLookupCollection(t *testing.T) {
	tests := []struct {
		name       string
		kind       models.LookupKind
		collection string
		wantErr    bool
	}{
		{
			name:       "category kind",
			kind:       models.LookupCategory,
			collection: "categories",
		},
		{
			name:       "responsible kind",
			kind:       models.LookupResponsible,
			collection: "responsibles",
		},
		{
			name:       "workshop kind",
			kind:       models.LookupWorkshop,
			collection: "workshops",
		},
		{
			name:    "unknown kind",
			kind:    models.LookupKind("garages"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := lookupCollection(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.collection, name)
		})
	}
}
