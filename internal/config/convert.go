package config

import (
	"github.com/annel0/blockworld/internal/game"
	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

// ToWorld переводит конфигурацию в параметры мира
func (c Config) ToWorld() world.Config {
	wc := world.DefaultConfig(c.World.Seed)
	wc.ChunkSize = c.World.ChunkSize
	wc.RenderDistance = c.World.RenderDistance
	wc.UnloadDistance = c.World.UnloadDistance
	wc.SkyColor = c.World.SkyColor
	wc.Epsilon = c.Physics.Epsilon
	wc.Reach = c.Physics.Reach
	wc.Generator = c.ToGenerator()
	return wc
}

// ToGenerator переводит раздел terrain в параметры генератора
func (c Config) ToGenerator() world.GeneratorConfig {
	t := c.Terrain
	return world.GeneratorConfig{
		Seed:            c.World.Seed,
		BaseHeight:      t.BaseHeight,
		Amplitude:       t.Amplitude,
		Frequency:       t.Frequency,
		NoiseZ:          t.NoiseZ,
		DirtDepth:       t.DirtDepth,
		DetailAmplitude: t.DetailAmplitude,
		DetailFrequency: t.DetailFrequency,
		DetailOctaves:   t.DetailOctaves,
	}
}

// ToPlayer переводит конфигурацию в параметры персонажа
func (c Config) ToPlayer() game.PlayerConfig {
	p := c.Player
	return game.PlayerConfig{
		MoveSpeed:          p.MoveSpeed,
		SprintSpeed:        p.SprintSpeed,
		JumpingSprintSpeed: p.JumpingSprintSpeed,
		Sensitivity:        p.Sensitivity,
		Gravity:            c.Physics.Gravity,
		JumpVelocity:       c.Physics.JumpVelocity,
		Width:              p.Width,
		Height:             p.Height,
		EyeHeight:          p.EyeHeight,
		Reach:              c.Physics.Reach,
		Spawn:              mgl64.Vec3(p.Spawn),
	}
}

// LogLevels возвращает общий уровень логирования и уровни компонентов
func (c Config) LogLevels() (logging.LogLevel, map[string]logging.LogLevel, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return 0, nil, err
	}
	overrides := make(map[string]logging.LogLevel, len(c.Logging.Components))
	for component, name := range c.Logging.Components {
		l, err := logging.ParseLevel(name)
		if err != nil {
			return 0, nil, err
		}
		overrides[component] = l
	}
	return level, overrides, nil
}
