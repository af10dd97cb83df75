package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestFloorDivAndMod(t *testing.T) {
	cases := []struct {
		a, b, div, mod int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{33, 16, 2, 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.div, FloorDiv(c.a, c.b), "FloorDiv(%d, %d)", c.a, c.b)
		assert.Equal(t, c.mod, FloorMod(c.a, c.b), "FloorMod(%d, %d)", c.a, c.b)
	}
}

func TestChunkRoundTrip(t *testing.T) {
	const size = 16
	for x := -40; x <= 40; x += 3 {
		for z := -40; z <= 40; z += 7 {
			p := Vec3{X: x, Y: -5 + x%4, Z: z}
			chunk := p.ToChunk(size)
			local := p.Local(size)

			assert.GreaterOrEqual(t, local.X, 0)
			assert.Less(t, local.X, size)
			assert.GreaterOrEqual(t, local.Z, 0)
			assert.Less(t, local.Z, size)
			assert.Equal(t, p, chunk.ToWorld(local, size), "обратное преобразование должно вернуть исходную позицию")
		}
	}
}

func TestNegativeWorldCoordinate(t *testing.T) {
	p := Vec3{X: -1, Y: 3, Z: 0}

	assert.Equal(t, Vec2{X: -1, Z: 0}, p.ToChunk(16))
	assert.Equal(t, Vec3{X: 15, Y: 3, Z: 0}, p.Local(16))
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, Vec3{X: -1, Y: 0, Z: 2}, FromFloat(mgl64.Vec3{-0.25, 0.99, 2.0}))
	assert.Equal(t, Vec3{X: 3, Y: -2, Z: 0}, FromFloat(mgl64.Vec3{3.5, -1.5, 0}))
}

func TestIsAxisUnit(t *testing.T) {
	assert.True(t, UnitX.IsAxisUnit())
	assert.True(t, UnitY.Neg().IsAxisUnit())
	assert.False(t, Vec3{X: 1, Y: 1}.IsAxisUnit())
	assert.False(t, Vec3{}.IsAxisUnit())
}
