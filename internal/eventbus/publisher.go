package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world"
	"github.com/google/uuid"
)

// BlockChangedPayload полезная нагрузка события block_changed
type BlockChangedPayload struct {
	Action string `json:"action"` // set, remove, place, break
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Z      int    `json:"z"`
	ChunkX int    `json:"chunk_x"`
	ChunkZ int    `json:"chunk_z"`
}

// ChunkPayload полезная нагрузка событий chunk_generated и chunk_unloaded
type ChunkPayload struct {
	X      int   `json:"x"`
	Z      int   `json:"z"`
	Blocks int   `json:"blocks,omitempty"`
	TookUS int64 `json:"took_us,omitempty"`
}

// WorldPublisher транслирует события мира в одну или несколько шин.
// Реализует world.Observer; публикация никогда не блокирует симуляцию,
// при переполнении буфера события отбрасываются.
type WorldPublisher struct {
	world.NopObserver

	source string
	buses  []EventBus
}

var _ world.Observer = (*WorldPublisher)(nil)

// NewWorldPublisher создаёт публикатор для сессии source
func NewWorldPublisher(source string, buses ...EventBus) *WorldPublisher {
	return &WorldPublisher{source: source, buses: buses}
}

// BlockChanged публикует изменение блока
func (p *WorldPublisher) BlockChanged(event world.BlockEvent) {
	b := event.Block
	p.publish(TypeBlockChanged, 3, BlockChangedPayload{
		Action: event.EventType.String(),
		Type:   b.Type.String(),
		X:      b.Position.X,
		Y:      b.Position.Y,
		Z:      b.Position.Z,
		ChunkX: event.Chunk.X,
		ChunkZ: event.Chunk.Z,
	})
}

// ChunkGenerated публикует генерацию чанка
func (p *WorldPublisher) ChunkGenerated(coords vec.Vec2, blocks int, took time.Duration) {
	p.publish(TypeChunkGenerated, 1, ChunkPayload{
		X:      coords.X,
		Z:      coords.Z,
		Blocks: blocks,
		TookUS: took.Microseconds(),
	})
}

// ChunkUnloaded публикует выгрузку чанка
func (p *WorldPublisher) ChunkUnloaded(coords vec.Vec2) {
	p.publish(TypeChunkUnloaded, 1, ChunkPayload{X: coords.X, Z: coords.Z})
}

func (p *WorldPublisher) publish(eventType string, priority int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("[EventBus] сериализация %s: %v", eventType, err)
		return
	}

	ev := &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    p.source,
		EventType: eventType,
		Priority:  priority,
		Payload:   data,
	}
	for _, bus := range p.buses {
		if err := bus.Publish(context.Background(), ev); err != nil {
			logging.Warn("[EventBus] публикация %s: %v", eventType, err)
		}
	}
}
