package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waste3d/pianoplatform-api/config"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	t.Run("storage", func(t *testing.T) {
		err := run(config.Config{StorageDriver: "sqlite"}, logger.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open sqlite storage")
	})

	t.Run("publisher after storage opened", func(t *testing.T) {
		cfg := config.Config{
			StorageDriver: "sqlite",
			SQLitePath:    filepath.Join(t.TempDir(), "progress.db"),
			KafkaEnabled:  true,
		}
		err := run(cfg, logger.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create event publisher")
	})
}
