package vec

// Vec2 представляет 2D координаты на плоскости XZ (координаты чанков и колонок)
type Vec2 struct {
	X, Z int
}

// Origin возвращает мировую позицию угла чанка (y = 0)
func (v Vec2) Origin(size int) Vec3 {
	return Vec3{X: v.X * size, Y: 0, Z: v.Z * size}
}

// ToWorld переводит локальную позицию внутри чанка обратно в мировую
func (v Vec2) ToWorld(local Vec3, size int) Vec3 {
	return Vec3{X: v.X*size + local.X, Y: local.Y, Z: v.Z*size + local.Z}
}

// ChebyshevDistance возвращает расстояние Чебышёва (квадратная зона прорисовки)
func (v Vec2) ChebyshevDistance(other Vec2) int {
	dx := abs(v.X - other.X)
	dz := abs(v.Z - other.Z)
	if dx > dz {
		return dx
	}
	return dz
}

// FloorDiv выполняет целочисленное деление с округлением к минус бесконечности
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod возвращает неотрицательный остаток, согласованный с FloorDiv
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
