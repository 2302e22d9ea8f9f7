package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/journey/internal/config"
	inErrors "github.com/Alturino/journey/internal/errors"
)

func TestNewBadgerDB(t *testing.T) {
	c := context.Background()
	cfg := config.Storage{Driver: config.StorageBadger, Path: t.TempDir()}

	db, err := NewBadgerDB(c, cfg, false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		readOnly bool
	}{
		{name: "given a writable handle open should refuse a second writable one", readOnly: false},
		{name: "given a writable handle open should refuse a read-only one", readOnly: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			second, err := NewBadgerDB(c, cfg, test.readOnly)
			if second != nil {
				second.Close()
			}
			assert.ErrorIs(t, err, inErrors.ErrStorageLocked)
		})
	}

	require.NoError(t, db.Close())
	t.Run("given the writer closed should open read-only", func(t *testing.T) {
		reader, err := NewBadgerDB(c, cfg, true)
		require.NoError(t, err)
		assert.NoError(t, reader.Close())
	})
}
