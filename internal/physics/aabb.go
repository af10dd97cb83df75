package physics

import (
	"math"

	"github.com/annel0/blockworld/internal/vec"
	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon допуск пересечения. Поглощает накопленную погрешность при
// пошаговом движении: без него касание (ноги ровно на верхней грани блока)
// то определяется как столкновение, то нет, и персонаж дрожит.
const Epsilon = 0.001

// AABB ось-ориентированный ограничивающий параллелепипед, Min <= Max покомпонентно
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB создаёт AABB по двум углам, упорядочивая компоненты
func NewAABB(a, b mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())},
		Max: mgl64.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())},
	}
}

// BlockAABB возвращает единичный куб блока с углом в целочисленной позиции
func BlockAABB(pos vec.Vec3) AABB {
	min := pos.ToFloat()
	return AABB{Min: min, Max: min.Add(mgl64.Vec3{1, 1, 1})}
}

// Offset возвращает AABB, сдвинутый на d
func (b AABB) Offset(d mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Size возвращает размеры по осям
func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects проверяет пересечение с допуском eps: по каждой оси
// a.max > b.min - eps и a.min < b.max + eps. Соприкосновение гранями
// считается пересечением. Intersects(a, b) == Intersects(b, a) в том числе
// с учетом округления.
func (b AABB) Intersects(other AABB, eps float64) bool {
	for i := 0; i < 3; i++ {
		if !(b.Max[i]-other.Min[i] > -eps && other.Max[i]-b.Min[i] > -eps) {
			return false
		}
	}
	return true
}

// BlockRange возвращает диапазон целочисленных позиций блоков, чьи единичные
// кубы могут пересекать AABB с допуском eps (границы включительно)
func (b AABB) BlockRange(eps float64) (lo, hi vec.Vec3) {
	lo = vec.Vec3{
		X: int(math.Floor(b.Min.X() - eps)),
		Y: int(math.Floor(b.Min.Y() - eps)),
		Z: int(math.Floor(b.Min.Z() - eps)),
	}
	hi = vec.Vec3{
		X: int(math.Ceil(b.Max.X()+eps)) - 1,
		Y: int(math.Ceil(b.Max.Y()+eps)) - 1,
		Z: int(math.Ceil(b.Max.Z()+eps)) - 1,
	}
	return lo, hi
}
