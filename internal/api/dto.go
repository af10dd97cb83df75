package api

import (
	"encoding/json"
	"time"

	"github.com/annel0/blockworld/internal/eventbus"
	"github.com/annel0/blockworld/internal/game"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
)

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Position целочисленная позиция блока
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func positionOf(v vec.Vec3) Position {
	return Position{X: v.X, Y: v.Y, Z: v.Z}
}

func (p Position) vec() vec.Vec3 {
	return vec.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// BlockTypeInfo свойства типа блока для рендерера
type BlockTypeInfo struct {
	Name          string            `json:"name"`
	Opaque        bool              `json:"opaque"`
	Solid         bool              `json:"solid"`
	FaceTextures  map[string]string `json:"face_textures"`
	FaceRotations map[string]int    `json:"face_rotations"`
}

func blockTypeInfo(t block.Type) BlockTypeInfo {
	props := block.Classify(t)
	info := BlockTypeInfo{
		Name:          props.Name,
		Opaque:        props.Opaque,
		Solid:         props.Solid,
		FaceTextures:  make(map[string]string, block.FaceCount),
		FaceRotations: make(map[string]int, block.FaceCount),
	}
	for f := block.Face(0); f < block.FaceCount; f++ {
		info.FaceTextures[f.String()] = string(props.FaceTextures[f])
		info.FaceRotations[f.String()] = int(props.FaceRotations[f])
	}
	return info
}

// BlockView блок мира
type BlockView struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Opaque   bool     `json:"opaque"`
	Solid    bool     `json:"solid"`
}

func blockView(b world.Block) BlockView {
	return BlockView{
		Type:     b.Type.String(),
		Position: positionOf(b.Position),
		Opaque:   b.Opaque(),
		Solid:    b.Solid(),
	}
}

// SetBlockRequest запрос на запись блока
type SetBlockRequest struct {
	Position
	Type string `json:"type" binding:"required"`
}

// RaycastRequest запрос луча. При FromPlayer луч идет из глаз персонажа
// по направлению взгляда, Origin и Direction игнорируются.
type RaycastRequest struct {
	Origin      [3]float64 `json:"origin"`
	Direction   [3]float64 `json:"direction"`
	MaxDistance float64    `json:"max_distance"`
	FromPlayer  bool       `json:"from_player"`
}

// RaycastResponse результат луча
type RaycastResponse struct {
	Hit      bool       `json:"hit"`
	Block    *BlockView `json:"block,omitempty"`
	Normal   *Position  `json:"normal,omitempty"`
	Face     string     `json:"face,omitempty"`
	Point    [3]float64 `json:"point"`
	Distance float64    `json:"distance"`
}

// ChunkView краткая информация о чанке
type ChunkView struct {
	X      int `json:"x"`
	Z      int `json:"z"`
	Blocks int `json:"blocks"`
}

// WorldView параметры мира и сессии
type WorldView struct {
	SessionID      string     `json:"session_id"`
	Scene          string     `json:"scene"`
	Tick           uint64     `json:"tick"`
	TickRate       int        `json:"tick_rate"`
	Seed           int64      `json:"seed"`
	ChunkSize      int        `json:"chunk_size"`
	RenderDistance int        `json:"render_distance"`
	ChunkCount     int        `json:"chunk_count"`
	SkyColor       [3]float64 `json:"sky_color"`
}

// PlayerView состояние персонажа
type PlayerView struct {
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Eye      [3]float64 `json:"eye"`
	Look     [3]float64 `json:"look"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	Grounded bool       `json:"grounded"`
	Block    Position   `json:"block"`
}

func playerView(p *game.Player) PlayerView {
	return PlayerView{
		Position: p.Body.Position,
		Velocity: p.Body.Velocity,
		Eye:      p.EyePosition(),
		Look:     p.LookDirection(),
		Yaw:      p.Yaw,
		Pitch:    p.Pitch,
		Grounded: p.Body.Grounded,
		Block:    positionOf(p.BlockPosition()),
	}
}

// InputRequest ввод персонажа. Тип устанавливаемого блока задается по имени.
type InputRequest struct {
	Forward   bool    `json:"forward"`
	Back      bool    `json:"back"`
	Left      bool    `json:"left"`
	Right     bool    `json:"right"`
	Jump      bool    `json:"jump"`
	Sprint    bool    `json:"sprint"`
	MouseDX   float64 `json:"mouse_dx"`
	MouseDY   float64 `json:"mouse_dy"`
	Break     bool    `json:"break"`
	Place     bool    `json:"place"`
	PlaceType string  `json:"place_type"`
}

func (r InputRequest) toInput() (game.Input, error) {
	in := game.Input{
		Forward: r.Forward,
		Back:    r.Back,
		Left:    r.Left,
		Right:   r.Right,
		Jump:    r.Jump,
		Sprint:  r.Sprint,
		MouseDX: r.MouseDX,
		MouseDY: r.MouseDY,
		Break:   r.Break,
		Place:   r.Place,
	}
	if r.PlaceType != "" {
		t, err := block.ParseType(r.PlaceType)
		if err != nil {
			return in, err
		}
		in.PlaceType = t
	} else if r.Place {
		in.PlaceType = block.Cobblestone
	}
	return in, nil
}

// SceneRequest событие сцены ("play" или "leave")
type SceneRequest struct {
	Event string `json:"event" binding:"required"`
}

func toVec(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

// EventView событие мира для потока /api/events/ws
type EventView struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

func eventView(ev *eventbus.Envelope) EventView {
	return EventView{
		ID:        ev.ID,
		Timestamp: ev.Timestamp,
		Source:    ev.Source,
		Type:      ev.EventType,
		Payload:   json.RawMessage(ev.Payload),
	}
}
