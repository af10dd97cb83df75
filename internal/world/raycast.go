package world

import (
	"math"

	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
)

// Hit результат попадания луча
type Hit struct {
	Block    vec.Vec3   // позиция блока
	Type     block.Type // тип блока
	Point    mgl64.Vec3 // точка входа луча в блок
	Normal   vec.Vec3   // нормаль грани, через которую луч вошел
	Distance float64
}

// Face возвращает грань, через которую луч вошел в блок
func (h Hit) Face() block.Face {
	f, _ := block.FaceFromNormal(h.Normal)
	return f
}

func finite(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// validDirection отбрасывает нулевые и нечисловые направления
func validDirection(d mgl64.Vec3) bool {
	return finite(d) && d.Len() > 0
}

// Raycast проходит луч по сетке блоков (DDA) и возвращает первый твердый
// блок не дальше maxDistance. Блок, в котором находится origin, не проверяется.
// Для вырожденного направления попадания нет.
func (w *World) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (Hit, bool) {
	hit, ok := w.raycast(origin, direction, maxDistance)
	w.observer.Raycast(ok)
	return hit, ok
}

func (w *World) raycast(origin, direction mgl64.Vec3, maxDistance float64) (Hit, bool) {
	if !validDirection(direction) || !finite(origin) || !(maxDistance > 0) || math.IsInf(maxDistance, 1) {
		return Hit{}, false
	}
	dir := direction.Normalize()

	cell := [3]int{
		int(math.Floor(origin[0])),
		int(math.Floor(origin[1])),
		int(math.Floor(origin[2])),
	}

	var step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (float64(cell[i]) + 1 - origin[i]) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = (origin[i] - float64(cell[i])) / -dir[i]
			tDelta[i] = 1 / -dir[i]
		default:
			step[i] = 1
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}

		distance := tMax[axis]
		if distance > maxDistance {
			return Hit{}, false
		}

		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		pos := vec.Vec3{X: cell[0], Y: cell[1], Z: cell[2]}
		b, ok := w.GetBlockAt(pos)
		if !ok || !b.Visible() || !b.Solid() {
			continue
		}

		var normal [3]int
		normal[axis] = -step[axis]
		return Hit{
			Block:    pos,
			Type:     b.Type,
			Point:    origin.Add(dir.Mul(distance)),
			Normal:   vec.Vec3{X: normal[0], Y: normal[1], Z: normal[2]},
			Distance: distance,
		}, true
	}
}
