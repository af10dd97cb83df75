package world

import "github.com/annel0/blockworld/internal/vec"

// Упаковка позиции в 64-битный ключ: по 21 биту на ось со смещением,
// чтобы отрицательные координаты попадали в беззнаковый диапазон.
const (
	keyBits = 21
	keyMask = 1<<keyBits - 1
	keyBias = 1 << (keyBits - 1)

	// KeyMin и KeyMax границы представимого диапазона по каждой оси
	KeyMin = -keyBias
	KeyMax = keyBias - 1
)

// blockKey упакованная позиция блока
type blockKey uint64

// packKey упаковывает позицию. Для координат в [KeyMin, KeyMax]
// разные позиции дают разные ключи.
func packKey(p vec.Vec3) blockKey {
	x := uint64(p.X+keyBias) & keyMask
	y := uint64(p.Y+keyBias) & keyMask
	z := uint64(p.Z+keyBias) & keyMask
	return blockKey(x<<(2*keyBits) | y<<keyBits | z)
}

// unpack восстанавливает позицию из ключа
func (k blockKey) unpack() vec.Vec3 {
	return vec.Vec3{
		X: int(uint64(k)>>(2*keyBits)&keyMask) - keyBias,
		Y: int(uint64(k)>>keyBits&keyMask) - keyBias,
		Z: int(uint64(k)&keyMask) - keyBias,
	}
}

// inKeyRange проверяет, что позиция представима ключом
func inKeyRange(p vec.Vec3) bool {
	return p.X >= KeyMin && p.X <= KeyMax &&
		p.Y >= KeyMin && p.Y <= KeyMax &&
		p.Z >= KeyMin && p.Z <= KeyMax
}
