package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientNoiseRange(t *testing.T) {
	n := NewGradientNoise(42)

	for i := 0; i < 2000; i++ {
		x := float64(i)*0.137 - 120
		y := float64(i%37)*0.71 - 9
		z := float64(i%11)*1.3 + 0.5

		v := n.Noise3(x, y, z)
		require.False(t, math.IsNaN(v), "шум не должен быть NaN")
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestGradientNoiseDeterministic(t *testing.T) {
	a := NewGradientNoise(1337)
	b := NewGradientNoise(1337)

	for i := 0; i < 200; i++ {
		x, z := float64(i)*0.1, float64(-i)*0.1
		assert.Equal(t, a.Noise3(x, z, 0.5), b.Noise3(x, z, 0.5), "одинаковый сид должен давать одинаковый шум")
	}
}

func TestGradientNoiseSeedMatters(t *testing.T) {
	a := NewGradientNoise(1)
	b := NewGradientNoise(2)

	differ := false
	for i := 0; i < 100 && !differ; i++ {
		x, z := float64(i)*0.37+0.1, float64(i)*0.21+0.3
		differ = a.Noise3(x, z, 0.5) != b.Noise3(x, z, 0.5)
	}
	assert.True(t, differ, "разные сиды должны давать разный шум")
}

func TestGradientNoiseLatticeIsMidpoint(t *testing.T) {
	n := NewGradientNoise(7)

	// В узлах решётки все градиенты дают 0, после переноса в [0,1] это 0.5
	assert.InDelta(t, 0.5, n.Noise3(3, -4, 5), 1e-12)
	assert.InDelta(t, 0.5, n.Noise3(0, 0, 0), 1e-12)
}

func TestGradientNoiseNegativeCoordinates(t *testing.T) {
	n := NewGradientNoise(99)

	// Соседние точки по обе стороны от нуля должны давать близкие значения (непрерывность)
	left := n.Noise3(-0.0001, 0.3, 0.5)
	right := n.Noise3(0.0001, 0.3, 0.5)
	assert.InDelta(t, left, right, 1e-3)
}

func TestFade(t *testing.T) {
	assert.Equal(t, 0.0, fade(0))
	assert.Equal(t, 1.0, fade(1))
	assert.InDelta(t, 0.5, fade(0.5), 1e-12)
}

func TestFractalNoise(t *testing.T) {
	a := NewFractalNoise(5, 3)
	b := NewFractalNoise(5, 3)

	for i := 0; i < 100; i++ {
		x, y := float64(i)*0.13, float64(i)*0.07
		va := a.Noise2D(x, y)
		assert.Equal(t, va, b.Noise2D(x, y))
		assert.GreaterOrEqual(t, va, 0.0)
		assert.LessOrEqual(t, va, 1.0)
	}
}
