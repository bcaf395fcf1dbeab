package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		msg        string
		table      string
		constraint string
		field      string
	}{
		{
			name:       "modernc not null",
			msg:        "constraint failed: NOT NULL constraint failed: sources.uri (1299)",
			table:      tableSources,
			constraint: ConstraintNotNull,
			field:      "sources.uri",
		},
		{
			name:       "mattn unique",
			msg:        "UNIQUE constraint failed: tags.name",
			table:      tableTags,
			constraint: ConstraintUnique,
			field:      "tags.name",
		},
		{
			name:       "foreign key",
			msg:        "constraint failed: FOREIGN KEY constraint failed (787)",
			table:      tableLinks,
			constraint: ConstraintForeignKey,
			field:      "links.source_id",
		},
		{
			name:       "check expression",
			msg:        "CHECK constraint failed: visits >= 0",
			table:      tableLinks,
			constraint: ConstraintCheck,
			field:      "links.visits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			driverErr := errors.New(tt.msg)
			err := translate(driverErr, tt.table)

			var ie *IntegrityError
			assert.ErrorAs(t, err, &ie)
			assert.ErrorIs(t, err, ErrIntegrity)
			assert.ErrorIs(t, err, driverErr)
			assert.Equal(t, tt.constraint, ie.Constraint)
			assert.Equal(t, tt.field, ie.Field())
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()

		other := errors.New("database is locked")
		assert.Equal(t, other, translate(other, tableLinks))
		assert.NoError(t, translate(nil, tableLinks))
	})
}
