package world

import (
	"testing"
	"time"

	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatWorld мир с плоским рельефом высоты 5 (трава на y = 4)
func flatWorld(renderDistance int) *World {
	cfg := DefaultConfig(42)
	cfg.RenderDistance = renderDistance
	cfg.Generator.Amplitude = 0
	cfg.Generator.BaseHeight = 5
	return NewWorld(cfg)
}

// recordingObserver запоминает события мира
type recordingObserver struct {
	generated []vec.Vec2
	unloaded  []vec.Vec2
	changes   []BlockEvent
	hits      int
	misses    int
	rejected  []error
}

func (o *recordingObserver) ChunkGenerated(c vec.Vec2, _ int, _ time.Duration) {
	o.generated = append(o.generated, c)
}
func (o *recordingObserver) ChunkUnloaded(c vec.Vec2)     { o.unloaded = append(o.unloaded, c) }
func (o *recordingObserver) BlockChanged(e BlockEvent)    { o.changes = append(o.changes, e) }
func (o *recordingObserver) PlacementRejected(err error) { o.rejected = append(o.rejected, err) }
func (o *recordingObserver) Raycast(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func TestWorldInitGeneratesRenderDistance(t *testing.T) {
	w := flatWorld(2)
	assert.Equal(t, 16, w.Init())
	assert.Equal(t, 16, w.ChunkCount())

	for x := -2; x < 2; x++ {
		for z := -2; z < 2; z++ {
			_, ok := w.ChunkAt(vec.Vec2{X: x, Z: z})
			assert.True(t, ok, "чанк (%d,%d) должен быть сгенерирован", x, z)
		}
	}
	_, ok := w.ChunkAt(vec.Vec2{X: 2, Z: 0})
	assert.False(t, ok, "диапазон [-R, R) не включает R")

	assert.Equal(t, 0, w.Init(), "повторный Init ничего не генерирует")
}

func TestWorldNegativeCoordinates(t *testing.T) {
	w := flatWorld(1)
	w.Init()

	b, ok := w.GetBlockAt(vec.Vec3{X: -1, Y: 4, Z: -1})
	require.True(t, ok)
	assert.Equal(t, block.Grass, b.Type)
	assert.Equal(t, vec.Vec3{X: -1, Y: 4, Z: -1}, b.Position)

	c, ok := w.ChunkAt(vec.Vec2{X: -1, Z: -1})
	require.True(t, ok)
	local, ok := c.GetBlockAt(vec.Vec3{X: 15, Y: 4, Z: 15})
	require.True(t, ok, "мировая X=-1 соответствует локальной 15 в чанке -1")
	assert.Equal(t, b, local)
}

func TestWorldMutationRoundTrip(t *testing.T) {
	w := flatWorld(1)
	w.Init()
	p := vec.Vec3{X: -7, Y: 10, Z: 3}

	require.True(t, w.SetBlockAt(p, block.Stone))
	b, ok := w.GetBlockAt(p)
	require.True(t, ok)
	assert.Equal(t, block.Stone, b.Type)

	require.True(t, w.RemoveBlockAt(p))
	_, ok = w.GetBlockAt(p)
	assert.False(t, ok, "после удаления позиция пуста")

	assert.False(t, w.RemoveBlockAt(p), "удаление воздуха возвращает false")
}

func TestWorldWriteGeneratesChunk(t *testing.T) {
	w := flatWorld(1)
	obs := &recordingObserver{}
	w.SetObserver(obs)

	far := vec.Vec3{X: 100, Y: 20, Z: -100}
	_, ok := w.GetBlockAt(far)
	assert.False(t, ok, "чтение не генерирует чанк")
	assert.Equal(t, 0, w.ChunkCount())

	require.True(t, w.SetBlockAt(far, block.Log))
	assert.Equal(t, 1, w.ChunkCount(), "запись генерирует чанк")
	require.Len(t, obs.generated, 1)
	assert.Equal(t, far.ToChunk(16), obs.generated[0])

	b, ok := w.GetBlockAt(far)
	require.True(t, ok)
	assert.Equal(t, block.Log, b.Type)

	// Рельеф сгенерированного чанка на месте
	ground, ok := w.GetBlockAt(vec.Vec3{X: 100, Y: 4, Z: -100})
	require.True(t, ok)
	assert.Equal(t, block.Grass, ground.Type)

	// Удаление в несгенерированном чанке тоже генерирует его
	require.True(t, w.RemoveBlockAt(vec.Vec3{X: -200, Y: 4, Z: 0}))
	assert.Equal(t, 2, w.ChunkCount())
	_, ok = w.GetBlockAt(vec.Vec3{X: -200, Y: 4, Z: 0})
	assert.False(t, ok, "удаление не теряется")

	require.Len(t, obs.changes, 2)
	assert.Equal(t, EventTypeBlockSet, obs.changes[0].EventType)
	assert.Equal(t, EventTypeBlockRemove, obs.changes[1].EventType)
	assert.Equal(t, block.Grass, obs.changes[1].Block.Type)
}

func TestWorldCheckCollision(t *testing.T) {
	w := flatWorld(1)
	w.Init()

	standing := physics.NewAABB(mgl64.Vec3{-0.3, 5, -0.3}, mgl64.Vec3{0.3, 6.8, 0.3})
	assert.True(t, w.CheckCollision(standing), "ступни на траве касаются её")

	hovering := standing.Offset(mgl64.Vec3{0, 0.5, 0})
	assert.False(t, w.CheckCollision(hovering))

	// AABB на стыке чанков проверяет оба чанка
	w.RemoveBlockAt(vec.Vec3{X: -1, Y: 4, Z: 0})
	seam := physics.NewAABB(mgl64.Vec3{-0.9, 4.2, 0.2}, mgl64.Vec3{-0.1, 4.8, 0.8})
	assert.False(t, w.CheckCollision(seam))
	seam = seam.Offset(mgl64.Vec3{0.5, 0, 0})
	assert.True(t, w.CheckCollision(seam))

	ungenerated := physics.NewAABB(mgl64.Vec3{500, 0, 500}, mgl64.Vec3{501, 2, 501})
	assert.False(t, w.CheckCollision(ungenerated), "несгенерированное пространство пусто")
}

func TestWorldEnsureAroundAndUnload(t *testing.T) {
	w := flatWorld(1)
	w.cfg.UnloadDistance = 2
	obs := &recordingObserver{}
	w.SetObserver(obs)

	assert.Equal(t, 4, w.EnsureAround(mgl64.Vec3{0.5, 10, 0.5}))
	assert.Equal(t, 0, w.EnsureAround(mgl64.Vec3{3, 10, 3}), "в пределах того же чанка ничего нового")

	// Уходим далеко: старые чанки выгружаются
	assert.Equal(t, 4, w.EnsureAround(mgl64.Vec3{160, 10, 0}))
	assert.Equal(t, 4, w.ChunkCount())
	assert.Len(t, obs.unloaded, 4)

	_, ok := w.ChunkAt(vec.Vec2{X: 10, Z: 0})
	assert.True(t, ok)
	_, ok = w.ChunkAt(vec.Vec2{X: 0, Z: 0})
	assert.False(t, ok)

	assert.Equal(t, 4, w.Unload(vec.Vec2{X: 100, Z: 100}, 0))
	assert.Equal(t, 0, w.ChunkCount())
}

func TestGeneratorDeterminism(t *testing.T) {
	cfg := DefaultGeneratorConfig(1337)
	a := NewTerrainGenerator(cfg)
	b := NewTerrainGenerator(cfg)

	for x := -40; x < 40; x += 3 {
		for z := -40; z < 40; z += 5 {
			assert.Equal(t, a.Column(x, z), b.Column(x, z), "колонна (%d,%d)", x, z)
		}
	}

	other := NewTerrainGenerator(DefaultGeneratorConfig(7))
	differs := false
	for x := 0; x < 64 && !differs; x++ {
		differs = a.HeightAt(x, 3) != other.HeightAt(x, 3)
	}
	assert.True(t, differs, "разные сиды дают разный рельеф")
}

func TestGeneratorColumnsTileAcrossChunks(t *testing.T) {
	cfg := DefaultConfig(99)
	cfg.RenderDistance = 2
	w := NewWorld(cfg)
	w.Init()

	// Колонны по обе стороны границ чанков совпадают с генератором
	gen := w.Generator()
	for _, x := range []int{-17, -16, -1, 0, 15, 16} {
		for _, z := range []int{-1, 0, 15, 16} {
			h := gen.HeightAt(x, z)
			top, ok := w.GetBlockAt(vec.Vec3{X: x, Y: h - 1, Z: z})
			require.True(t, ok, "верхний блок колонны (%d,%d)", x, z)
			assert.Equal(t, block.Grass, top.Type)
			_, ok = w.GetBlockAt(vec.Vec3{X: x, Y: h, Z: z})
			assert.False(t, ok, "над колонной (%d,%d) воздух", x, z)
		}
	}
}

func TestGeneratorColumnLayers(t *testing.T) {
	gen := NewTerrainGenerator(DefaultGeneratorConfig(5))

	for x := 0; x < 30; x++ {
		col := gen.Column(x, -x)
		h := gen.HeightAt(x, -x)
		require.Len(t, col, h)
		assert.GreaterOrEqual(t, h, 1)

		assert.Equal(t, h-1, col[0].Y)
		assert.Equal(t, block.Grass, col[0].Type)
		last := col[len(col)-1]
		assert.Equal(t, 0, last.Y)
		if h > 1 {
			assert.Equal(t, block.Stone, last.Type, "на y = 0 всегда камень")
		}

		dirt := 0
		for _, cb := range col {
			if cb.Type == block.Dirt {
				dirt++
			}
		}
		assert.LessOrEqual(t, dirt, 4)
	}
}

func TestGeneratorDetailNoise(t *testing.T) {
	cfg := DefaultGeneratorConfig(11)
	plain := NewTerrainGenerator(cfg)

	cfg.DetailAmplitude = 4
	detailed := NewTerrainGenerator(cfg)
	again := NewTerrainGenerator(cfg)

	for x := 0; x < 20; x++ {
		assert.Equal(t, detailed.HeightAt(x, x), again.HeightAt(x, x))
		diff := detailed.HeightAt(x, x) - plain.HeightAt(x, x)
		assert.GreaterOrEqual(t, diff, 0)
		assert.LessOrEqual(t, diff, 4)
	}
}

func TestMultiObserverFansOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	w := flatWorld(1)
	w.SetObserver(MultiObserver(a, nil, b))

	w.SetBlockAt(vec.Vec3{X: 0, Y: 20, Z: 0}, block.Stone)

	for _, o := range []*recordingObserver{a, b} {
		assert.Len(t, o.generated, 1, "запись генерирует чанк")
		require.Len(t, o.changes, 1)
		assert.Equal(t, EventTypeBlockSet, o.changes[0].EventType)
	}
}
