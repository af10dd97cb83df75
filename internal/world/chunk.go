package world

import (
	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
)

// Chunk представляет участок мира размером size x size блоков по X/Z,
// по Y не ограничен. Пустые клетки (воздух) в карте не хранятся.
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в мире

	size    int
	epsilon float64
	blocks  map[blockKey]Block // ключ: упакованная локальная позиция
}

// NewChunk создаёт пустой чанк с указанными координатами
func NewChunk(coords vec.Vec2, size int) *Chunk {
	return &Chunk{
		Coords:  coords,
		size:    size,
		epsilon: physics.Epsilon,
		blocks:  make(map[blockKey]Block),
	}
}

// Size возвращает длину ребра чанка
func (c *Chunk) Size() int {
	return c.size
}

// Origin возвращает мировую позицию угла чанка
func (c *Chunk) Origin() vec.Vec3 {
	return c.Coords.Origin(c.size)
}

// Generate заполняет чанк колоннами рельефа. Колонны запрашиваются
// в мировых координатах, поэтому соседние чанки стыкуются без швов.
// Возвращает число созданных блоков.
func (c *Chunk) Generate(gen *TerrainGenerator) int {
	origin := c.Origin()
	created := 0

	for x := 0; x < c.size; x++ {
		for z := 0; z < c.size; z++ {
			for _, cb := range gen.Column(origin.X+x, origin.Z+z) {
				if c.SetBlockAt(vec.Vec3{X: x, Y: cb.Y, Z: z}, cb.Type) {
					created++
				}
			}
		}
	}

	return created
}

// contains проверяет, что локальная позиция лежит внутри чанка
func (c *Chunk) contains(local vec.Vec3) bool {
	return local.X >= 0 && local.X < c.size &&
		local.Z >= 0 && local.Z < c.size &&
		inKeyRange(local)
}

// GetBlockAt возвращает блок по локальной позиции.
// false означает воздух или позицию вне чанка.
func (c *Chunk) GetBlockAt(local vec.Vec3) (Block, bool) {
	if !c.contains(local) {
		return Block{}, false
	}
	b, ok := c.blocks[packKey(local)]
	return b, ok
}

// SetBlockAt записывает блок по локальной позиции: существующий блок
// получает новый тип, иначе создаётся новый. Возвращает false для позиции
// вне чанка или неизвестного типа.
func (c *Chunk) SetBlockAt(local vec.Vec3, t block.Type) bool {
	if !c.contains(local) || !t.Valid() {
		return false
	}
	c.blocks[packKey(local)] = Block{
		Type:     t,
		Position: c.Coords.ToWorld(local, c.size),
	}
	return true
}

// RemoveBlockAt удаляет блок. Возвращает true, если блок существовал.
func (c *Chunk) RemoveBlockAt(local vec.Vec3) bool {
	if !c.contains(local) {
		return false
	}
	key := packKey(local)
	if _, ok := c.blocks[key]; !ok {
		return false
	}
	delete(c.blocks, key)
	return true
}

// CheckCollision проверяет, пересекает ли box единичный куб хотя бы одного
// твердого блока чанка (с допуском epsilon)
func (c *Chunk) CheckCollision(box physics.AABB) bool {
	lo, hi := box.BlockRange(c.epsilon)

	// Обрезаем диапазон по границам чанка
	origin := c.Origin()
	lo.X = max(lo.X, origin.X)
	lo.Z = max(lo.Z, origin.Z)
	hi.X = min(hi.X, origin.X+c.size-1)
	hi.Z = min(hi.Z, origin.Z+c.size-1)
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return false
	}

	cells := int64(hi.X-lo.X+1) * int64(hi.Y-lo.Y+1) * int64(hi.Z-lo.Z+1)
	if cells > int64(len(c.blocks)) {
		// Диапазон больше самого чанка: дешевле перебрать блоки
		for _, b := range c.blocks {
			if b.Solid() && b.AABB().Intersects(box, c.epsilon) {
				return true
			}
		}
		return false
	}

	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				b, ok := c.GetBlockAt(vec.Vec3{X: x - origin.X, Y: y, Z: z - origin.Z})
				if ok && b.Solid() && b.AABB().Intersects(box, c.epsilon) {
					return true
				}
			}
		}
	}
	return false
}

// Len возвращает количество блоков в чанке
func (c *Chunk) Len() int {
	return len(c.blocks)
}

// ForEachBlock перечисляет все блоки чанка. Порядок не определён.
// Если fn возвращает false, перебор прекращается.
func (c *Chunk) ForEachBlock(fn func(Block) bool) {
	for _, b := range c.blocks {
		if !fn(b) {
			return
		}
	}
}

// ForEachOpaque перечисляет только непрозрачные блоки
func (c *Chunk) ForEachOpaque(fn func(Block) bool) {
	c.ForEachBlock(func(b Block) bool {
		if !b.Opaque() {
			return true
		}
		return fn(b)
	})
}

// ForEachTranslucent перечисляет полупрозрачные блоки (вода, листва),
// которые рендерер рисует отдельным проходом со смешиванием
func (c *Chunk) ForEachTranslucent(fn func(Block) bool) {
	c.ForEachBlock(func(b Block) bool {
		if b.Opaque() {
			return true
		}
		return fn(b)
	})
}
