package world

import (
	"math"

	"github.com/annel0/blockworld/internal/util"
	"github.com/annel0/blockworld/internal/world/block"
)

// GeneratorConfig параметры генерации рельефа
type GeneratorConfig struct {
	Seed       int64
	BaseHeight int     // прибавляется к высоте шума
	Amplitude  float64 // масштаб основного шума по высоте
	Frequency  float64 // масштаб координат для основного шума
	NoiseZ     float64 // фиксированная третья координата шума
	DirtDepth  int     // толщина слоя земли под травой

	// Дополнительная фрактальная детализация (выключена при DetailAmplitude == 0)
	DetailAmplitude float64
	DetailFrequency float64
	DetailOctaves   int
}

// DefaultGeneratorConfig возвращает параметры по умолчанию
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{
		Seed:            seed,
		Amplitude:       10,
		Frequency:       0.1,
		NoiseZ:          0.5,
		DirtDepth:       4,
		DetailFrequency: 0.05,
		DetailOctaves:   3,
	}
}

// ColumnBlock один блок колонны рельефа
type ColumnBlock struct {
	Y    int
	Type block.Type
}

// TerrainGenerator генерирует ландшафт мира.
// Все выборки шума делаются в мировых координатах.
type TerrainGenerator struct {
	cfg    GeneratorConfig
	noise  *util.GradientNoise
	detail *util.FractalNoise
}

// NewTerrainGenerator создаёт новый генератор рельефа
func NewTerrainGenerator(cfg GeneratorConfig) *TerrainGenerator {
	g := &TerrainGenerator{
		cfg:   cfg,
		noise: util.NewGradientNoise(cfg.Seed),
	}
	if cfg.DetailAmplitude > 0 {
		octaves := cfg.DetailOctaves
		if octaves <= 0 {
			octaves = 1
		}
		g.detail = util.NewFractalNoise(cfg.Seed, octaves)
	}
	return g
}

// Config возвращает параметры генератора
func (g *TerrainGenerator) Config() GeneratorConfig {
	return g.cfg
}

// Seed возвращает сид генератора
func (g *TerrainGenerator) Seed() int64 {
	return g.cfg.Seed
}

// HeightAt возвращает высоту рельефа h в колонне (wx, wz): блоки занимают y в [0, h).
// Высота не бывает меньше 1, так что у каждой колонны есть верхний блок.
func (g *TerrainGenerator) HeightAt(wx, wz int) int {
	n := g.noise.Noise3(float64(wx)*g.cfg.Frequency, float64(wz)*g.cfg.Frequency, g.cfg.NoiseZ)
	h := g.cfg.BaseHeight + int(math.Floor(n*g.cfg.Amplitude))

	if g.detail != nil {
		d := g.detail.Noise2D(float64(wx)*g.cfg.DetailFrequency, float64(wz)*g.cfg.DetailFrequency)
		h += int(math.Floor(d * g.cfg.DetailAmplitude))
	}

	if h < 1 {
		h = 1
	}
	return h
}

// Column возвращает колонну рельефа сверху вниз: трава на y = h-1,
// под ней DirtDepth слоев земли (на y = 0 земли не бывает), ниже камень
func (g *TerrainGenerator) Column(wx, wz int) []ColumnBlock {
	h := g.HeightAt(wx, wz)
	column := make([]ColumnBlock, 0, h)

	dirtBottom := h - 1 - g.cfg.DirtDepth
	if dirtBottom < 1 {
		dirtBottom = 1
	}

	for y := h - 1; y >= 0; y-- {
		t := block.Stone
		switch {
		case y == h-1:
			t = block.Grass
		case y >= dirtBottom:
			t = block.Dirt
		}
		column = append(column, ColumnBlock{Y: y, Type: t})
	}

	return column
}
