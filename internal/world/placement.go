package world

import (
	"errors"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
)

// Ошибки установки блока
var (
	ErrNoTarget            = errors.New("нет блока в пределах досягаемости")
	ErrOccupied            = errors.New("позиция занята твердым блоком")
	ErrPlacementObstructed = errors.New("блок пересекает игрока")
	ErrInvalidBlockType    = errors.New("недопустимый тип блока")
)

// PlacementFor вычисляет позицию нового блока по попаданию луча:
// соседняя клетка со стороны грани, через которую вошел луч.
// Позиция отклоняется, если её куб пересекает AABB игрока.
func (w *World) PlacementFor(hit Hit, actor physics.AABB) (vec.Vec3, error) {
	pos := hit.Block.Add(hit.Normal)

	if b, ok := w.GetBlockAt(pos); ok && b.Solid() {
		return pos, ErrOccupied
	}
	if physics.BlockAABB(pos).Intersects(actor, w.cfg.Epsilon) {
		return pos, ErrPlacementObstructed
	}
	return pos, nil
}

// PlaceTarget возвращает позицию, в которую будет установлен блок
// при взгляде из origin в направлении dir
func (w *World) PlaceTarget(origin, dir mgl64.Vec3, reach float64, actor physics.AABB) (vec.Vec3, error) {
	hit, ok := w.Raycast(origin, dir, reach)
	if !ok {
		return vec.Vec3{}, ErrNoTarget
	}
	return w.PlacementFor(hit, actor)
}

// PlaceBlock устанавливает блок типа t перед гранью блока, на который смотрит игрок
func (w *World) PlaceBlock(origin, dir mgl64.Vec3, reach float64, actor physics.AABB, t block.Type) (Block, error) {
	if !t.Valid() {
		return Block{}, ErrInvalidBlockType
	}

	pos, err := w.PlaceTarget(origin, dir, reach, actor)
	if err != nil {
		w.observer.PlacementRejected(err)
		return Block{}, err
	}

	coords, local := w.resolve(pos)
	c, _ := w.ensureChunk(coords)
	if !c.SetBlockAt(local, t) {
		// Позиция вне представимого диапазона ключа
		w.observer.PlacementRejected(ErrNoTarget)
		return Block{}, ErrNoTarget
	}

	b := NewBlock(t, pos)
	logging.LogBlockChange("place", pos.X, pos.Y, pos.Z, t.String())
	w.observer.BlockChanged(BlockEvent{EventType: EventTypeBlockPlace, Block: b, Chunk: coords})
	return b, nil
}

// BreakBlock удаляет блок, на который смотрит игрок
func (w *World) BreakBlock(origin, dir mgl64.Vec3, reach float64) (Block, bool) {
	hit, ok := w.Raycast(origin, dir, reach)
	if !ok {
		return Block{}, false
	}

	coords, local := w.resolve(hit.Block)
	c, ok := w.chunks[coords]
	if !ok {
		return Block{}, false
	}
	b, ok := c.GetBlockAt(local)
	if !ok || !c.RemoveBlockAt(local) {
		return Block{}, false
	}

	logging.LogBlockChange("break", b.Position.X, b.Position.Y, b.Position.Z, b.Type.String())
	w.observer.BlockChanged(BlockEvent{EventType: EventTypeBlockBreak, Block: b, Chunk: coords})
	return b, true
}
