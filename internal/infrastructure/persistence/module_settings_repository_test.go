package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxbridge/backend/internal/domain/tax"
)

func TestGormModuleSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormModuleSettingsRepository(setupTestDB(t))

	t.Run("not found before first save", func(t *testing.T) {
		_, err := repo.Load(ctx, tax.ModuleUniqueName)
		assert.ErrorIs(t, err, tax.ErrSettingsNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, tax.ModuleUniqueName, tax.ModuleSettings{
			tax.DebugModeKey: "true",
			"Legacy":         "x",
		}))

		got, err := repo.Load(ctx, tax.ModuleUniqueName)
		require.NoError(t, err)
		assert.Equal(t, tax.ModuleSettings{tax.DebugModeKey: "true", "Legacy": "x"}, got)
	})

	t.Run("save replaces previous settings", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, tax.ModuleUniqueName, tax.ModuleSettings{tax.DebugModeKey: "false"}))

		got, err := repo.Load(ctx, tax.ModuleUniqueName)
		require.NoError(t, err)
		assert.Equal(t, tax.ModuleSettings{tax.DebugModeKey: "false"}, got)
	})

	t.Run("modules are isolated", func(t *testing.T) {
		_, err := repo.Load(ctx, "another.module")
		assert.ErrorIs(t, err, tax.ErrSettingsNotFound)
	})

	t.Run("saving empty settings clears the module", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, tax.ModuleUniqueName, tax.ModuleSettings{}))

		_, err := repo.Load(ctx, tax.ModuleUniqueName)
		assert.ErrorIs(t, err, tax.ErrSettingsNotFound)
	})
}
