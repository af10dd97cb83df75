package world

import (
	"math"
	"math/rand"
	"testing"

	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaycastStraightDown(t *testing.T) {
	w := flatWorld(1)
	w.Init()

	hit, ok := w.Raycast(mgl64.Vec3{0.5, 10, 0.5}, mgl64.Vec3{0, -1, 0}, 20)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 0, Y: 4, Z: 0}, hit.Block)
	assert.Equal(t, vec.UnitY, hit.Normal, "луч вошел через верхнюю грань")
	assert.Equal(t, block.FaceTop, hit.Face())
	assert.Equal(t, block.Grass, hit.Type)
	assert.InDelta(t, 5.0, hit.Distance, 1e-9)
	assert.InDelta(t, 5.0, hit.Point.Y(), 1e-9)
}

func TestRaycastMissesBeyondMaxDistance(t *testing.T) {
	w := flatWorld(1)
	w.Init()

	_, ok := w.Raycast(mgl64.Vec3{0.5, 10, 0.5}, mgl64.Vec3{0, -1, 0}, 4.5)
	assert.False(t, ok, "трава на расстоянии 5 дальше maxDistance")

	_, ok = w.Raycast(mgl64.Vec3{0.5, 10, 0.5}, mgl64.Vec3{0, 1, 0}, 50)
	assert.False(t, ok, "вверх только воздух")
}

func TestRaycastNegativeAxis(t *testing.T) {
	w := flatWorld(1)
	w.Init()
	w.SetBlockAt(vec.Vec3{X: -3, Y: 5, Z: 0}, block.Cobblestone)

	hit, ok := w.Raycast(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{-1, 0, 0}, 5)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: -3, Y: 5, Z: 0}, hit.Block)
	assert.Equal(t, vec.UnitX, hit.Normal, "нормаль противоположна шагу")
	assert.InDelta(t, 2.5, hit.Distance, 1e-9)
	assert.InDelta(t, -2.0, hit.Point.X(), 1e-9)
}

func TestRaycastThinWallDiagonal(t *testing.T) {
	w := flatWorld(1)
	w.Init()
	for z := -2; z <= 8; z++ {
		w.SetBlockAt(vec.Vec3{X: 3, Y: 5, Z: z}, block.Planks)
	}

	hit, ok := w.Raycast(mgl64.Vec3{0.5, 5.5, 0.5}, mgl64.Vec3{1, 0, 1}, 10)
	require.True(t, ok, "стена толщиной в один блок не пропускается")
	assert.Equal(t, vec.Vec3{X: 3, Y: 5, Z: 2}, hit.Block)
	assert.Equal(t, vec.Vec3{X: -1}, hit.Normal)
}

func TestRaycastPassesThroughWater(t *testing.T) {
	w := flatWorld(1)
	w.Init()
	w.SetBlockAt(vec.Vec3{X: 0, Y: 6, Z: 0}, block.Water)

	hit, ok := w.Raycast(mgl64.Vec3{0.5, 10, 0.5}, mgl64.Vec3{0, -1, 0}, 20)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 0, Y: 4, Z: 0}, hit.Block, "вода не является целью")
}

func TestRaycastDegenerateInput(t *testing.T) {
	w := flatWorld(1)
	w.Init()
	origin := mgl64.Vec3{0.5, 10, 0.5}

	_, ok := w.Raycast(origin, mgl64.Vec3{}, 20)
	assert.False(t, ok, "нулевое направление")

	_, ok = w.Raycast(origin, mgl64.Vec3{math.NaN(), -1, 0}, 20)
	assert.False(t, ok, "NaN в направлении")

	_, ok = w.Raycast(origin, mgl64.Vec3{0, -1, 0}, math.Inf(1))
	assert.False(t, ok, "бесконечная дальность")

	_, ok = w.Raycast(origin, mgl64.Vec3{0, -1, 0}, 0)
	assert.False(t, ok)
}

func TestRaycastNormalsAreAxisUnits(t *testing.T) {
	w := flatWorld(2)
	w.Init()
	rng := rand.New(rand.NewSource(3))
	origin := mgl64.Vec3{0.3, 7.2, -0.6}

	hits := 0
	for i := 0; i < 200; i++ {
		dir := mgl64.Vec3{rng.Float64()*2 - 1, -rng.Float64(), rng.Float64()*2 - 1}
		hit, ok := w.Raycast(origin, dir, 12)
		if !ok {
			continue
		}
		hits++
		assert.True(t, hit.Normal.IsAxisUnit(), "нормаль %v", hit.Normal)

		// Точка попадания лежит на грани найденного блока
		box := physics.BlockAABB(hit.Block)
		assert.True(t, box.Intersects(physics.AABB{Min: hit.Point, Max: hit.Point}, 1e-6))

		// Соседняя клетка со стороны нормали свободна от твердых блоков
		b, exists := w.GetBlockAt(hit.Block.Add(hit.Normal))
		assert.False(t, exists && b.Solid())
	}
	assert.Greater(t, hits, 0)
}

func TestRaycastNotifiesObserver(t *testing.T) {
	w := flatWorld(1)
	w.Init()
	obs := &recordingObserver{}
	w.SetObserver(obs)

	w.Raycast(mgl64.Vec3{0.5, 10, 0.5}, mgl64.Vec3{0, -1, 0}, 20)
	w.Raycast(mgl64.Vec3{0.5, 10, 0.5}, mgl64.Vec3{0, 1, 0}, 20)
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.misses)
}
