package world

import (
	"github.com/annel0/blockworld/internal/physics"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world/block"
)

// Block представляет собой блок в игровом мире.
// Position хранится в мировых координатах.
type Block struct {
	Type     block.Type
	Position vec.Vec3
}

// NewBlock создаёт блок указанного типа в мировой позиции
func NewBlock(t block.Type, pos vec.Vec3) Block {
	return Block{Type: t, Position: pos}
}

// Properties возвращает свойства типа блока из реестра
func (b Block) Properties() block.Properties {
	return block.Classify(b.Type)
}

// Visible сообщает, представляет ли значение существующий блок.
// Воздух в чанке не хранится, поэтому любой найденный блок видим.
func (b Block) Visible() bool {
	return b.Type.Valid()
}

// Opaque возвращает непрозрачность блока
func (b Block) Opaque() bool {
	return b.Type.Opaque()
}

// Solid возвращает твердость блока
func (b Block) Solid() bool {
	return b.Type.Solid()
}

// AABB возвращает единичный куб блока
func (b Block) AABB() physics.AABB {
	return physics.BlockAABB(b.Position)
}
