package util

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// GradientNoise классический градиентный шум Перлина с сидом.
// Таблица перестановок строится один раз и больше не меняется,
// поэтому экземпляр можно безопасно читать из нескольких горутин.
type GradientNoise struct {
	perm [512]int
}

// NewGradientNoise создаёт генератор шума: перестановка 0..255, перемешанная
// ГПСЧ с указанным сидом и продублированная до 512 элементов
func NewGradientNoise(seed int64) *GradientNoise {
	p := make([]int, 256)
	for i := range p {
		p[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(p), func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})

	n := &GradientNoise{}
	for i := 0; i < 512; i++ {
		n.perm[i] = p[i&255]
	}
	return n
}

// Noise3 возвращает значение шума в точке (x, y, z) в диапазоне [0, 1]
func (n *GradientNoise) Noise3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)

	// Ячейка решётки, содержащая точку
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	// Относительные координаты внутри ячейки
	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	p := &n.perm
	A := p[X] + Y
	AA := p[A] + Z
	AB := p[A+1] + Z
	B := p[X+1] + Y
	BA := p[B] + Z
	BB := p[B+1] + Z

	res := lerp(w,
		lerp(v,
			lerp(u, grad(p[AA], x, y, z), grad(p[BA], x-1, y, z)),
			lerp(u, grad(p[AB], x, y-1, z), grad(p[BB], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(p[AA+1], x, y, z-1), grad(p[BA+1], x-1, y, z-1)),
			lerp(u, grad(p[AB+1], x, y-1, z-1), grad(p[BB+1], x-1, y-1, z-1))))

	return (res + 1.0) / 2.0
}

// fade сглаживающая кривая 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad переводит младшие 4 бита хэша в одно из 12 направлений градиента
func grad(hash int, x, y, z float64) float64 {
	h := hash & 15

	u := y
	if h < 8 {
		u = x
	}

	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}

	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// FractalNoise многооктавный шум Перлина для мелкой детализации рельефа
type FractalNoise struct {
	perlin *perlin.Perlin
}

// NewFractalNoise инициализирует генератор шума Перлина с указанным сидом
func NewFractalNoise(seed int64, octaves int) *FractalNoise {
	alpha := 2.0 // Сглаживание шума
	beta := 2.0  // Частота шума
	if octaves < 1 {
		octaves = 1
	}
	return &FractalNoise{
		perlin: perlin.NewPerlin(alpha, beta, int32(octaves), seed),
	}
}

// Noise2D возвращает значение шума для указанных координат (от 0 до 1)
func (f *FractalNoise) Noise2D(x, y float64) float64 {
	// Получаем значение шума (от -1 до 1)
	noise := f.perlin.Noise2D(x, y)

	// Преобразуем в диапазон от 0 до 1
	return clamp01((noise + 1.0) / 2.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
