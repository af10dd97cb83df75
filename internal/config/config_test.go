package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 16, cfg.World.ChunkSize)
	assert.Equal(t, 0.001, cfg.Physics.Epsilon)
	assert.Equal(t, 4, cfg.Terrain.DirtDepth)
	assert.Equal(t, 60, cfg.Server.TickRate)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  seed: 42
  render_distance: 6
terrain:
  amplitude: 20
player:
  spawn: [8, 30, -8]
server:
  rest_port: 9000
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, 6, cfg.World.RenderDistance)
	assert.Equal(t, 20.0, cfg.Terrain.Amplitude)
	assert.Equal(t, [3]float64{8, 30, -8}, cfg.Player.Spawn)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Незаданные поля остаются по умолчанию
	assert.Equal(t, 16, cfg.World.ChunkSize)
	assert.Equal(t, 0.1, cfg.Terrain.Frequency)
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "world:\n  seed: 7\n")
	t.Setenv("BLOCKWORLD_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.World.Seed)
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	t.Setenv("BLOCKWORLD_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "world: [not, a, map"))
	assert.Error(t, err, "битый YAML")

	_, err = Load(writeConfig(t, "world:\n  chunk_size: 0\n"))
	assert.ErrorContains(t, err, "chunk_size")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.World.ChunkSize = -1
	cfg.Physics.Epsilon = 0
	cfg.Player.EyeHeight = 5
	cfg.World.SkyColor = [3]float64{0, 2, 0}

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"chunk_size", "epsilon", "eye_height", "sky_color[1]"} {
		assert.ErrorContains(t, err, field)
	}
}

func TestPortFallbacks(t *testing.T) {
	var s ServerConfig

	t.Setenv("BLOCKWORLD_REST_PORT", "")
	t.Setenv("BLOCKWORLD_METRICS_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort())
	assert.Equal(t, 2112, s.GetMetricsPort())

	t.Setenv("BLOCKWORLD_REST_PORT", "9100")
	t.Setenv("BLOCKWORLD_METRICS_PORT", "not-a-port")
	assert.Equal(t, 9100, s.GetRESTPort())
	assert.Equal(t, 2112, s.GetMetricsPort(), "некорректное значение ENV игнорируется")

	s.RESTPort = 7000
	assert.Equal(t, 7000, s.GetRESTPort(), "порт из конфига важнее ENV")
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.World.Seed = 99
	cfg.Terrain.BaseHeight = 12
	cfg.Physics.Reach = 6

	wc := cfg.ToWorld()
	assert.Equal(t, int64(99), wc.Generator.Seed)
	assert.Equal(t, 12, wc.Generator.BaseHeight)
	assert.Equal(t, 16, wc.ChunkSize)
	assert.Equal(t, 6.0, wc.Reach)
	assert.Equal(t, cfg.World.SkyColor, wc.SkyColor)

	pc := cfg.ToPlayer()
	assert.Equal(t, 6.0, pc.Reach)
	assert.Equal(t, 27.55, pc.Gravity)
	assert.Equal(t, 2.0, pc.Spawn.Y())
}

func TestLoadEventsAndTracing(t *testing.T) {
	path := writeConfig(t, `
events:
  nats_url: nats://127.0.0.1:4222
  retention: 30m
tracing:
  enabled: true
  sample_ratio: 0.25
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, 30*time.Minute, cfg.Events.Retention)
	assert.Equal(t, 1024, cfg.Events.BufferSize, "значение по умолчанию сохраняется")
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)

	_, err = Load(writeConfig(t, "tracing:\n  sample_ratio: 2\n"))
	assert.ErrorContains(t, err, "sample_ratio")
}

func TestLogLevels(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
logging:
  level: warn
  components:
    api: debug
    events: trace
`))
	require.NoError(t, err)

	level, overrides, err := cfg.LogLevels()
	require.NoError(t, err)
	assert.Equal(t, logging.WARN, level)
	assert.Equal(t, map[string]logging.LogLevel{"api": logging.DEBUG, "events": logging.TRACE}, overrides)

	_, err = Load(writeConfig(t, "logging:\n  components:\n    api: loud\n"))
	assert.ErrorContains(t, err, "logging.components.api")
	_, err = Load(writeConfig(t, "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "logging.level")
}
