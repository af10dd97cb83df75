package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		"":        INFO,
		"warning": WARN,
		" error ": ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, "уровень %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("world", &buf, WARN)

	l.Info("не должно попасть")
	l.Warn("чанк %d", 7)

	out := buf.String()
	assert.NotContains(t, out, "не должно попасть")
	assert.Contains(t, out, "[WARN] [world] чанк 7")
}

func TestDefaultLoggerDropsWhenUninitialized(t *testing.T) {
	SetDefaultLogger(nil)
	// Не должно паниковать
	Info("сообщение в пустоту")
	LogChunkGenerated(1, 2, 3, 0)
}

func TestDefaultLoggerRouting(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("server", &buf, TRACE))
	defer SetDefaultLogger(nil)

	LogBlockChange("place", 1, 2, 3, "stone")
	Error("ошибка %s", "x")

	assert.Contains(t, buf.String(), "Block place at (1,2,3): stone")
	assert.Contains(t, buf.String(), "[ERROR] [server] ошибка x")
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger("test", dir)
	require.NoError(t, err)

	l.SetLevels(ERROR, TRACE)
	l.Debug("в файл")
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [test] в файл")
}

func TestLoggerManager(t *testing.T) {
	dir := t.TempDir()
	lm := NewLoggerManager(dir, INFO, map[string]LogLevel{"events": TRACE})

	assert.Equal(t, INFO, lm.Level("api"))
	assert.Equal(t, TRACE, lm.Level("events"), "переопределение компонента")

	api := lm.Logger("api")
	assert.Same(t, api, lm.Logger("api"), "повторный запрос возвращает тот же логгер")
	events := lm.Logger("events")
	assert.Equal(t, []string{"api", "events"}, lm.Components())

	api.Trace("api trace")
	api.Debug("api debug")
	events.Trace("events trace")
	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.Components())

	read := func(component string) string {
		files, err := filepath.Glob(filepath.Join(dir, component+"_*.log"))
		require.NoError(t, err)
		require.Len(t, files, 1)
		data, err := os.ReadFile(files[0])
		require.NoError(t, err)
		return string(data)
	}
	assert.Contains(t, read("api"), "api debug")
	assert.NotContains(t, read("api"), "api trace", "файл компонента не ниже DEBUG")
	assert.Contains(t, read("events"), "events trace")
}
