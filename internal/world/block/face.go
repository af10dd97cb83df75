package block

import "github.com/annel0/blockworld/internal/vec"

// Face грань куба. Порядок совпадает с порядком граней в вершинном буфере рендерера.
type Face uint8

const (
	FaceFront Face = iota // -Z
	FaceBack              // +Z
	FaceBottom            // -Y
	FaceTop               // +Y
	FaceLeft              // -X
	FaceRight             // +X

	FaceCount // всегда последний: количество граней
)

var faceNormals = [FaceCount]vec.Vec3{
	FaceFront:  {Z: -1},
	FaceBack:   {Z: 1},
	FaceBottom: {Y: -1},
	FaceTop:    {Y: 1},
	FaceLeft:   {X: -1},
	FaceRight:  {X: 1},
}

var faceNames = [FaceCount]string{"front", "back", "bottom", "top", "left", "right"}

// Normal возвращает внешнюю нормаль грани
func (f Face) Normal() vec.Vec3 {
	if f >= FaceCount {
		return vec.Vec3{}
	}
	return faceNormals[f]
}

// String возвращает имя грани
func (f Face) String() string {
	if f >= FaceCount {
		return "unknown"
	}
	return faceNames[f]
}

// FaceFromNormal возвращает грань по единичной нормали оси
func FaceFromNormal(n vec.Vec3) (Face, bool) {
	for f, normal := range faceNormals {
		if normal == n {
			return Face(f), true
		}
	}
	return 0, false
}
