package world

import (
	"time"

	"github.com/annel0/blockworld/internal/vec"
)

// EventType определяет тип изменения блока
type EventType uint8

const (
	EventTypeBlockSet    EventType = iota // Установка блока
	EventTypeBlockRemove                  // Удаление блока
	EventTypeBlockPlace                   // Установка блока игроком
	EventTypeBlockBreak                   // Разрушение блока игроком
)

// String возвращает имя типа события
func (t EventType) String() string {
	switch t {
	case EventTypeBlockSet:
		return "set"
	case EventTypeBlockRemove:
		return "remove"
	case EventTypeBlockPlace:
		return "place"
	case EventTypeBlockBreak:
		return "break"
	default:
		return "unknown"
	}
}

// BlockEvent описывает изменение блока
type BlockEvent struct {
	EventType EventType
	Block     Block    // Блок после установки или удалённый блок
	Chunk     vec.Vec2 // Координаты чанка
}

// Observer получает уведомления о событиях мира. Вызывается синхронно
// из того же потока, что и изменяющая операция, поэтому не должен блокироваться.
type Observer interface {
	ChunkGenerated(coords vec.Vec2, blocks int, took time.Duration)
	ChunkUnloaded(coords vec.Vec2)
	BlockChanged(event BlockEvent)
	Raycast(hit bool)
	PlacementRejected(reason error)
}

// NopObserver реализация Observer, игнорирующая все события
type NopObserver struct{}

func (NopObserver) ChunkGenerated(vec.Vec2, int, time.Duration) {}
func (NopObserver) ChunkUnloaded(vec.Vec2)                      {}
func (NopObserver) BlockChanged(BlockEvent)                     {}
func (NopObserver) Raycast(bool)                                {}
func (NopObserver) PlacementRejected(error)                     {}

// multiObserver рассылает события нескольким наблюдателям по порядку
type multiObserver []Observer

// MultiObserver объединяет наблюдателей. nil пропускаются.
func MultiObserver(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) ChunkGenerated(coords vec.Vec2, blocks int, took time.Duration) {
	for _, o := range m {
		o.ChunkGenerated(coords, blocks, took)
	}
}

func (m multiObserver) ChunkUnloaded(coords vec.Vec2) {
	for _, o := range m {
		o.ChunkUnloaded(coords)
	}
}

func (m multiObserver) BlockChanged(event BlockEvent) {
	for _, o := range m {
		o.BlockChanged(event)
	}
}

func (m multiObserver) Raycast(hit bool) {
	for _, o := range m {
		o.Raycast(hit)
	}
}

func (m multiObserver) PlacementRejected(reason error) {
	for _, o := range m {
		o.PlacementRejected(reason)
	}
}
