package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется для позиций блоков (мировых и локальных внутри чанка).
type Vec3 struct {
	X int
	Y int
	Z int
}

// Единичные векторы осей
var (
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Neg возвращает противоположный вектор
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// IsAxisUnit сообщает, является ли вектор одним из шести единичных векторов осей
func (v Vec3) IsAxisUnit() bool {
	ax, ay, az := abs(v.X), abs(v.Y), abs(v.Z)
	return ax+ay+az == 1
}

// ToChunk возвращает координаты чанка, которому принадлежит мировая позиция.
// Деление с округлением вниз: X=-1 при size=16 попадает в чанк -1.
func (v Vec3) ToChunk(size int) Vec2 {
	return Vec2{X: FloorDiv(v.X, size), Z: FloorDiv(v.Z, size)}
}

// Local возвращает локальные координаты внутри чанка: X/Z в [0, size), Y без изменений
func (v Vec3) Local(size int) Vec3 {
	return Vec3{X: FloorMod(v.X, size), Y: v.Y, Z: FloorMod(v.Z, size)}
}

// ToVec2 отбрасывает вертикальную координату
func (v Vec3) ToVec2() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
