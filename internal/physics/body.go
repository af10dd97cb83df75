package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Collider проверяет, пересекает ли AABB что-либо твердое в мире
type Collider interface {
	CheckCollision(box AABB) bool
}

// ColliderFunc адаптер для использования функции в качестве Collider
type ColliderFunc func(box AABB) bool

// CheckCollision вызывает f(box)
func (f ColliderFunc) CheckCollision(box AABB) bool {
	return f(box)
}

const (
	// GroundProbe насколько ниже ступней проверяется опора
	GroundProbe = 0.05

	// contactIterations число делений пополам при поиске точки касания по вертикали
	contactIterations = 8
)

// Body физическое тело персонажа. Position указывает на центр ступней:
// AABB занимает [Position - (W/2, 0, W/2), Position + (W/2, H, W/2)].
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Width    float64
	Height   float64
	Grounded bool
}

// NewBody создаёт тело с заданными размерами
func NewBody(position mgl64.Vec3, width, height float64) *Body {
	return &Body{
		Position: position,
		Width:    width,
		Height:   height,
	}
}

// AABB возвращает текущий ограничивающий параллелепипед тела
func (b *Body) AABB() AABB {
	return b.boxAt(b.Position)
}

func (b *Body) boxAt(p mgl64.Vec3) AABB {
	half := b.Width / 2
	return AABB{
		Min: mgl64.Vec3{p.X() - half, p.Y(), p.Z() - half},
		Max: mgl64.Vec3{p.X() + half, p.Y() + b.Height, p.Z() + half},
	}
}

// MoveHorizontal применяет смещение по X и Z независимо друг от друга.
// Если смещение по оси приводит к столкновению, отбрасывается только эта ось,
// поэтому при движении по диагонали в стену тело скользит вдоль неё.
// Возвращает, какие оси были заблокированы.
func (b *Body) MoveHorizontal(dx, dz float64, c Collider) (blockedX, blockedZ bool) {
	if dx != 0 {
		next := b.Position.Add(mgl64.Vec3{dx, 0, 0})
		if c.CheckCollision(b.boxAt(next)) {
			blockedX = true
		} else {
			b.Position = next
		}
	}

	if dz != 0 {
		next := b.Position.Add(mgl64.Vec3{0, 0, dz})
		if c.CheckCollision(b.boxAt(next)) {
			blockedZ = true
		} else {
			b.Position = next
		}
	}

	return blockedX, blockedZ
}

// MoveVertical применяет вертикальное смещение. При столкновении тело
// подводится к препятствию делением смещения пополам, вертикальная скорость
// обнуляется, а при движении вниз выставляется Grounded. После движения
// опора перепроверяется тонким AABB под ступнями.
// Возвращает true, если смещение было ограничено столкновением.
func (b *Body) MoveVertical(dy float64, c Collider) bool {
	collided := false

	if dy != 0 {
		next := b.Position.Add(mgl64.Vec3{0, dy, 0})
		if c.CheckCollision(b.boxAt(next)) {
			collided = true
			b.approach(dy, c)
			b.Velocity[1] = 0
			if dy < 0 {
				b.Grounded = true
			}
		} else {
			b.Position = next
		}
	}

	if !c.CheckCollision(b.groundProbe()) {
		b.Grounded = false
	}

	return collided
}

// approach ищет наибольшую долю смещения dy, не приводящую к столкновению
func (b *Body) approach(dy float64, c Collider) {
	lo, hi := 0.0, 1.0
	for i := 0; i < contactIterations; i++ {
		mid := (lo + hi) / 2
		if c.CheckCollision(b.boxAt(b.Position.Add(mgl64.Vec3{0, dy * mid, 0}))) {
			hi = mid
		} else {
			lo = mid
		}
	}
	if lo > 0 {
		b.Position = b.Position.Add(mgl64.Vec3{0, dy * lo, 0})
	}
}

// groundProbe тонкий AABB непосредственно под ступнями
func (b *Body) groundProbe() AABB {
	box := b.AABB()
	box.Max[1] = box.Min[1]
	box.Min[1] -= GroundProbe
	return box
}
