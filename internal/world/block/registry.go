package block

import (
	"fmt"
	"strings"
)

// Type представляет тип блока. Перечисление закрытое: воздуха среди типов нет,
// пустая клетка в чанке просто отсутствует в разреженной карте.
type Type uint8

// Константы типов блоков
const (
	Dirt Type = iota
	Grass
	Stone
	Water
	Planks
	Log
	Cobblestone
	Leaves
	CraftingTable
	Furnace
	IronOre

	typeCount // всегда последний: количество типов
)

// TextureID идентификатор текстуры в атласе рендерера
type TextureID string

// Rotation поворот текстуры грани в градусах (0/90/180/270)
type Rotation uint16

const (
	Rot0   Rotation = 0
	Rot90  Rotation = 90
	Rot180 Rotation = 180
	Rot270 Rotation = 270
)

// Properties неизменяемый набор свойств типа блока
type Properties struct {
	Name          string
	Opaque        bool // false только для воды и листвы: рисуются отдельно, со смешиванием
	Solid         bool // false только для воды: не мешает движению и установке блоков
	FaceTextures  [FaceCount]TextureID
	FaceRotations [FaceCount]Rotation
}

// registry таблица свойств, индексируемая типом блока.
// Заполняется один раз при инициализации пакета.
var registry [typeCount]Properties

var byName = make(map[string]Type, typeCount)

func init() {
	register(Dirt, "dirt", true, true, uniform("dirt"))
	register(Grass, "grass", true, true, sided("grass_top", "grass_side", "dirt"))
	register(Stone, "stone", true, true, uniform("stone"))
	register(Water, "water", false, false, uniform("water"))
	register(Planks, "planks", true, true, uniform("planks"))
	register(Log, "log", true, true, sided("log_top", "log_side", "log_top"))
	register(Cobblestone, "cobblestone", true, true, uniform("cobblestone"))
	register(Leaves, "leaves", false, true, uniform("leaves"))
	register(CraftingTable, "crafting_table", true, true, [FaceCount]TextureID{
		FaceFront:  "crafting_table_front",
		FaceBack:   "crafting_table_side",
		FaceBottom: "planks",
		FaceTop:    "crafting_table_top",
		FaceLeft:   "crafting_table_side",
		FaceRight:  "crafting_table_front",
	})
	register(Furnace, "furnace", true, true, [FaceCount]TextureID{
		FaceFront:  "furnace_front",
		FaceBack:   "furnace_side",
		FaceBottom: "furnace_top",
		FaceTop:    "furnace_top",
		FaceLeft:   "furnace_side",
		FaceRight:  "furnace_side",
	})
	register(IronOre, "iron_ore", true, true, uniform("iron_ore"))
}

// register добавляет тип в таблицу. Передняя и задняя грани куба
// в атласе повёрнуты на 90 градусов относительно остальных.
func register(t Type, name string, opaque, solid bool, textures [FaceCount]TextureID) {
	var rotations [FaceCount]Rotation
	rotations[FaceFront] = Rot90
	rotations[FaceBack] = Rot90

	registry[t] = Properties{
		Name:          name,
		Opaque:        opaque,
		Solid:         solid,
		FaceTextures:  textures,
		FaceRotations: rotations,
	}
	byName[name] = t
}

func uniform(tex TextureID) [FaceCount]TextureID {
	var textures [FaceCount]TextureID
	for i := range textures {
		textures[i] = tex
	}
	return textures
}

func sided(top, side, bottom TextureID) [FaceCount]TextureID {
	textures := uniform(side)
	textures[FaceTop] = top
	textures[FaceBottom] = bottom
	return textures
}

// Classify возвращает свойства типа блока.
// Для значения вне перечисления возвращается нулевой Properties.
func Classify(t Type) Properties {
	if !t.Valid() {
		return Properties{}
	}
	return registry[t]
}

// Valid проверяет, входит ли значение в перечисление
func (t Type) Valid() bool {
	return t < typeCount
}

// Opaque сокращение для Classify(t).Opaque
func (t Type) Opaque() bool {
	return Classify(t).Opaque
}

// Solid сокращение для Classify(t).Solid
func (t Type) Solid() bool {
	return Classify(t).Solid
}

// String возвращает имя типа блока
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("block(%d)", uint8(t))
	}
	return registry[t].Name
}

// All возвращает все типы блоков в порядке перечисления
func All() []Type {
	types := make([]Type, 0, typeCount)
	for t := Type(0); t < typeCount; t++ {
		types = append(types, t)
	}
	return types
}

// ParseType возвращает тип блока по имени (без учета регистра)
func ParseType(name string) (Type, error) {
	t, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("неизвестный тип блока %q", name)
	}
	return t, nil
}
