package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		require.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.True(t, handler.ContainsAttr("code", int64(500)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug")
		logger.Warn("warn")
		logger.Warn("warn again")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 2)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "ingest")).Info("child")

		assert.Equal(t, 1, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "ingest"))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("x")
		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})
}

func TestRecordFixtures(t *testing.T) {
	records := Series("P1", 2025, 1, [2]int64{100, 10}, [2]int64{200, 20})
	require.Len(t, records, 2)
	assert.Equal(t, "2025_2", records[1].Period.Key())
	assert.Equal(t, int64(20), records[1].Metrics.Engagements)

	ds := Dataset(records...)
	assert.Equal(t, 2, ds.Len())
}
