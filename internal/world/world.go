package world

import (
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
)

// Config параметры мира
type Config struct {
	ChunkSize      int
	RenderDistance int        // радиус генерации в чанках
	UnloadDistance int        // 0: чанки не выгружаются
	SkyColor       [3]float64 // подсказка рендереру
	Epsilon        float64    // допуск пересечения AABB
	Reach          float64    // дальность взаимодействия с блоками
	Generator      GeneratorConfig
}

// DefaultConfig возвращает параметры мира по умолчанию
func DefaultConfig(seed int64) Config {
	return Config{
		ChunkSize:      16,
		RenderDistance: 4,
		SkyColor:       [3]float64{0.53, 0.81, 0.92},
		Epsilon:        physics.Epsilon,
		Reach:          5,
		Generator:      DefaultGeneratorConfig(seed),
	}
}

// World владеет всеми сгенерированными чанками. Чанк присутствует в карте
// тогда и только тогда, когда он сгенерирован.
// World не потокобезопасен: им владеет одна горутина симуляции.
type World struct {
	cfg       Config
	generator *TerrainGenerator
	chunks    map[vec.Vec2]*Chunk
	observer  Observer
}

// NewWorld создаёт пустой мир. Чанки генерируются через Init или EnsureAround.
func NewWorld(cfg Config) *World {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 16
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = physics.Epsilon
	}
	return &World{
		cfg:       cfg,
		generator: NewTerrainGenerator(cfg.Generator),
		chunks:    make(map[vec.Vec2]*Chunk),
		observer:  NopObserver{},
	}
}

// SetObserver устанавливает получателя событий мира (nil отключает)
func (w *World) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	w.observer = o
}

// Config возвращает параметры мира
func (w *World) Config() Config {
	return w.cfg
}

// Generator возвращает генератор рельефа
func (w *World) Generator() *TerrainGenerator {
	return w.generator
}

// SkyColor возвращает цвет неба
func (w *World) SkyColor() [3]float64 {
	return w.cfg.SkyColor
}

// ChunkCount возвращает количество сгенерированных чанков
func (w *World) ChunkCount() int {
	return len(w.chunks)
}

// ChunkAt возвращает чанк, если он сгенерирован
func (w *World) ChunkAt(coords vec.Vec2) (*Chunk, bool) {
	c, ok := w.chunks[coords]
	return c, ok
}

// ForEachChunk перечисляет сгенерированные чанки. Порядок не определён.
// Если fn возвращает false, перебор прекращается.
func (w *World) ForEachChunk(fn func(*Chunk) bool) {
	for _, c := range w.chunks {
		if !fn(c) {
			return
		}
	}
}

// resolve переводит мировую позицию в координаты чанка и локальную позицию
func (w *World) resolve(pos vec.Vec3) (vec.Vec2, vec.Vec3) {
	return pos.ToChunk(w.cfg.ChunkSize), pos.Local(w.cfg.ChunkSize)
}

// ensureChunk возвращает чанк, генерируя его при отсутствии
func (w *World) ensureChunk(coords vec.Vec2) (*Chunk, bool) {
	if c, ok := w.chunks[coords]; ok {
		return c, false
	}

	start := time.Now()
	c := NewChunk(coords, w.cfg.ChunkSize)
	c.epsilon = w.cfg.Epsilon
	n := c.Generate(w.generator)
	took := time.Since(start)

	w.chunks[coords] = c
	logging.LogChunkGenerated(coords.X, coords.Z, n, took)
	w.observer.ChunkGenerated(coords, n, took)
	return c, true
}

// GetBlockAt возвращает блок по мировой позиции.
// false означает воздух либо несгенерированный чанк.
func (w *World) GetBlockAt(pos vec.Vec3) (Block, bool) {
	coords, local := w.resolve(pos)
	c, ok := w.chunks[coords]
	if !ok {
		return Block{}, false
	}
	return c.GetBlockAt(local)
}

// SetBlockAt записывает блок по мировой позиции. Если чанк ещё не
// сгенерирован, он сначала генерируется, затем применяется запись.
func (w *World) SetBlockAt(pos vec.Vec3, t block.Type) bool {
	coords, local := w.resolve(pos)
	c, _ := w.ensureChunk(coords)
	if !c.SetBlockAt(local, t) {
		return false
	}

	logging.LogBlockChange("set", pos.X, pos.Y, pos.Z, t.String())
	w.observer.BlockChanged(BlockEvent{
		EventType: EventTypeBlockSet,
		Block:     NewBlock(t, pos),
		Chunk:     coords,
	})
	return true
}

// RemoveBlockAt удаляет блок по мировой позиции. Несгенерированный чанк
// сначала генерируется, чтобы удаление не потерялось при его появлении.
// Возвращает true, если блок существовал.
func (w *World) RemoveBlockAt(pos vec.Vec3) bool {
	coords, local := w.resolve(pos)
	c, _ := w.ensureChunk(coords)

	b, ok := c.GetBlockAt(local)
	if !ok || !c.RemoveBlockAt(local) {
		return false
	}

	logging.LogBlockChange("remove", pos.X, pos.Y, pos.Z, b.Type.String())
	w.observer.BlockChanged(BlockEvent{
		EventType: EventTypeBlockRemove,
		Block:     b,
		Chunk:     coords,
	})
	return true
}

// CheckCollision проверяет пересечение box с твердыми блоками.
// Проверяются только сгенерированные чанки, чья XZ проекция
// может пересекать box.
func (w *World) CheckCollision(box physics.AABB) bool {
	lo, hi := box.BlockRange(w.cfg.Epsilon)
	size := w.cfg.ChunkSize

	for cx := vec.FloorDiv(lo.X, size); cx <= vec.FloorDiv(hi.X, size); cx++ {
		for cz := vec.FloorDiv(lo.Z, size); cz <= vec.FloorDiv(hi.Z, size); cz++ {
			c, ok := w.chunks[vec.Vec2{X: cx, Z: cz}]
			if ok && c.CheckCollision(box) {
				return true
			}
		}
	}
	return false
}

// Init генерирует чанки в диапазоне [-R, R) по обеим осям вокруг начала
// координат. Возвращает число сгенерированных чанков.
func (w *World) Init() int {
	return w.generateAround(vec.Vec2{})
}

// EnsureAround генерирует недостающие чанки в радиусе прорисовки вокруг
// позиции и, если задан UnloadDistance, выгружает дальние.
// Возвращает число сгенерированных чанков.
func (w *World) EnsureAround(pos mgl64.Vec3) int {
	center := vec.FromFloat(pos).ToChunk(w.cfg.ChunkSize)
	generated := w.generateAround(center)

	if w.cfg.UnloadDistance > 0 {
		w.Unload(center, w.cfg.UnloadDistance)
	}
	return generated
}

func (w *World) generateAround(center vec.Vec2) int {
	r := w.cfg.RenderDistance
	generated := 0
	for x := center.X - r; x < center.X+r; x++ {
		for z := center.Z - r; z < center.Z+r; z++ {
			if _, created := w.ensureChunk(vec.Vec2{X: x, Z: z}); created {
				generated++
			}
		}
	}
	return generated
}

// Unload удаляет чанки дальше keep (по Чебышёву) от center.
// Правки выгруженных чанков теряются: при повторной генерации
// рельеф восстанавливается из сида. Возвращает число выгруженных чанков.
func (w *World) Unload(center vec.Vec2, keep int) int {
	removed := 0
	for coords := range w.chunks {
		if coords.ChebyshevDistance(center) > keep {
			delete(w.chunks, coords)
			w.observer.ChunkUnloaded(coords)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug("Выгружено %d чанков вокруг chunk(%d,%d)", removed, center.X, center.Z)
	}
	return removed
}
