package vec

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FromFloat возвращает позицию блока, содержащего точку (округление вниз по каждой оси)
func FromFloat(p mgl64.Vec3) Vec3 {
	return Vec3{
		X: int(math.Floor(p.X())),
		Y: int(math.Floor(p.Y())),
		Z: int(math.Floor(p.Z())),
	}
}

// ToFloat возвращает угол блока в мировых координатах с плавающей точкой
func (v Vec3) ToFloat() mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}
