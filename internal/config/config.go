package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации.
// Все поля имеют значения по умолчанию (см. Default), файл лишь переопределяет их.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Terrain TerrainConfig `yaml:"terrain"`
	Physics PhysicsConfig `yaml:"physics"`
	Player  PlayerConfig  `yaml:"player"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Events  EventsConfig  `yaml:"events"`
	Tracing TracingConfig `yaml:"tracing"`
}

// WorldConfig параметры хранилища чанков
type WorldConfig struct {
	ChunkSize      int        `yaml:"chunk_size"`
	RenderDistance int        `yaml:"render_distance"`
	UnloadDistance int        `yaml:"unload_distance"` // 0: чанки не выгружаются
	Seed           int64      `yaml:"seed"`
	SkyColor       [3]float64 `yaml:"sky_color"` // подсказка рендереру, RGB в [0,1]
}

// TerrainConfig параметры генерации рельефа
type TerrainConfig struct {
	Amplitude       float64 `yaml:"amplitude"`
	Frequency       float64 `yaml:"frequency"`
	NoiseZ          float64 `yaml:"noise_z"`
	BaseHeight      int     `yaml:"base_height"`
	DirtDepth       int     `yaml:"dirt_depth"`
	DetailAmplitude float64 `yaml:"detail_amplitude"`
	DetailFrequency float64 `yaml:"detail_frequency"`
	DetailOctaves   int     `yaml:"detail_octaves"`
}

// PhysicsConfig параметры столкновений и взаимодействия
type PhysicsConfig struct {
	Epsilon      float64 `yaml:"epsilon"`
	Reach        float64 `yaml:"reach"`
	Gravity      float64 `yaml:"gravity"`
	JumpVelocity float64 `yaml:"jump_velocity"`
}

// PlayerConfig параметры персонажа
type PlayerConfig struct {
	MoveSpeed          float64    `yaml:"move_speed"`
	SprintSpeed        float64    `yaml:"sprint_speed"`
	JumpingSprintSpeed float64    `yaml:"jumping_sprint_speed"`
	Sensitivity        float64    `yaml:"sensitivity"`
	Width              float64    `yaml:"width"`
	Height             float64    `yaml:"height"`
	EyeHeight          float64    `yaml:"eye_height"`
	Spawn              [3]float64 `yaml:"spawn"`
}

// ServerConfig параметры процесса cmd/server
type ServerConfig struct {
	TickRate    int `yaml:"tick_rate"`
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// LoggingConfig параметры логирования
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`

	// Components уровни консоли отдельных компонентов: api, events
	Components map[string]string `yaml:"components"`
}

// EventsConfig шина событий мира
type EventsConfig struct {
	BufferSize int           `yaml:"buffer_size"` // буфер in-memory шины
	NATSURL    string        `yaml:"nats_url"`    // пусто: JetStream не используется
	Stream     string        `yaml:"stream"`
	Retention  time.Duration `yaml:"retention"`
}

// TracingConfig экспорт трасс OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // host:port OTLP HTTP
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		World: WorldConfig{
			ChunkSize:      16,
			RenderDistance: 4,
			Seed:           0,
			SkyColor:       [3]float64{0.53, 0.81, 0.92},
		},
		Terrain: TerrainConfig{
			Amplitude:       10,
			Frequency:       0.1,
			NoiseZ:          0.5,
			BaseHeight:      0,
			DirtDepth:       4,
			DetailAmplitude: 0,
			DetailFrequency: 0.05,
			DetailOctaves:   3,
		},
		Physics: PhysicsConfig{
			Epsilon:      0.001,
			Reach:        5,
			Gravity:      27.55,
			JumpVelocity: 8.0,
		},
		Player: PlayerConfig{
			MoveSpeed:          4.317,
			SprintSpeed:        5.612,
			JumpingSprintSpeed: 7.127,
			Sensitivity:        0.1,
			Width:              0.6,
			Height:             1.8,
			EyeHeight:          1.62,
			Spawn:              [3]float64{0, 2, 0},
		},
		Server: ServerConfig{
			TickRate: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
		Events: EventsConfig{
			BufferSize: 1024,
			Stream:     "BLOCKWORLD",
			Retention:  time.Hour,
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4318",
			Insecure:    true,
			SampleRatio: 1,
		},
	}
}

// Validate проверяет конфигурацию и возвращает все найденные ошибки разом
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.World.ChunkSize > 0, "world.chunk_size должен быть > 0, получено %d", c.World.ChunkSize)
	check(c.World.RenderDistance >= 0, "world.render_distance должен быть >= 0, получено %d", c.World.RenderDistance)
	check(c.World.UnloadDistance == 0 || c.World.UnloadDistance >= c.World.RenderDistance,
		"world.unload_distance (%d) не может быть меньше render_distance (%d)", c.World.UnloadDistance, c.World.RenderDistance)
	for i, v := range c.World.SkyColor {
		check(v >= 0 && v <= 1, "world.sky_color[%d] вне диапазона [0,1]: %v", i, v)
	}

	check(c.Terrain.Amplitude >= 0, "terrain.amplitude должен быть >= 0")
	check(c.Terrain.Frequency > 0, "terrain.frequency должен быть > 0")
	check(c.Terrain.DirtDepth >= 0, "terrain.dirt_depth должен быть >= 0")
	check(c.Terrain.BaseHeight >= 0, "terrain.base_height должен быть >= 0")
	check(c.Terrain.DetailAmplitude >= 0, "terrain.detail_amplitude должен быть >= 0")
	check(c.Terrain.DetailAmplitude == 0 || c.Terrain.DetailFrequency > 0, "terrain.detail_frequency должен быть > 0")

	check(c.Physics.Epsilon > 0 && c.Physics.Epsilon < 0.5, "physics.epsilon должен быть в (0, 0.5)")
	check(c.Physics.Reach > 0, "physics.reach должен быть > 0")
	check(c.Physics.Gravity >= 0, "physics.gravity должен быть >= 0")

	check(c.Player.Width > 0 && c.Player.Width < 1, "player.width должен быть в (0, 1)")
	check(c.Player.Height > 0, "player.height должен быть > 0")
	check(c.Player.EyeHeight > 0 && c.Player.EyeHeight <= c.Player.Height, "player.eye_height должен быть в (0, height]")

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	for component, level := range c.Logging.Components {
		if _, err := logging.ParseLevel(level); err != nil {
			errs = append(errs, fmt.Errorf("logging.components.%s: %w", component, err))
		}
	}

	check(c.Server.TickRate > 0, "server.tick_rate должен быть > 0")

	check(c.Events.BufferSize > 0, "events.buffer_size должен быть > 0")
	check(c.Events.Retention >= 0, "events.retention не может быть отрицательным")
	check(c.Tracing.SampleRatio >= 0 && c.Tracing.SampleRatio <= 1, "tracing.sample_ratio должен быть в [0, 1]")

	return errors.Join(errs...)
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "BLOCKWORLD_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "BLOCKWORLD_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV BLOCKWORLD_CONFIG;
// если и он не задан, возвращает Default().
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BLOCKWORLD_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан, используем дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("конфигурация %s: %w", path, err)
	}

	return cfg, nil
}
