package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed шина закрыта
var ErrClosed = errors.New("eventbus: шина закрыта")

// Типы событий мира
const (
	TypeBlockChanged   = "block_changed"
	TypeChunkGenerated = "chunk_generated"
	TypeChunkUnloaded  = "chunk_unloaded"
)

// Envelope описывает универсальный контейнер события.
type Envelope struct {
	ID        string            `json:"id"`        // UUID события
	Timestamp time.Time         `json:"timestamp"` // Время создания события (UTC)
	Source    string            `json:"source"`    // ID сессии-источника
	EventType string            `json:"event_type"`
	Priority  int               `json:"priority"` // 0=Low … 9=Critical (для backpressure)
	Payload   []byte            `json:"payload"`  // JSON полезной нагрузки
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Если пусто, все типы.
	Sources []string // Если пусто, все источники.
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close() error
}

//================ In-Memory implementation =================//

// MemoryBus in-memory шина с ограниченным буфером. Доставка подписчику
// последовательная: один подписчик получает события в порядке публикации.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]*subscriber
	nextID      int
	stats       Stats
	buffer      chan *Envelope
	closeOnce   sync.Once
	quit        chan struct{}
	done        chan struct{}
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
	queue   chan *Envelope
}

// NewMemoryBus создаёт in-memory Bus с указанным буфером.
func NewMemoryBus(capacity int) *MemoryBus {
	if capacity <= 0 {
		capacity = 1024
	}
	mb := &MemoryBus{
		subscribers: make(map[int]*subscriber),
		buffer:      make(chan *Envelope, capacity),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

// Publish ставит событие в очередь. При заполненном буфере события
// с приоритетом < 5 отбрасываются, остальные ждут места или отмены ctx.
func (mb *MemoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case <-mb.quit:
		return ErrClosed
	default:
	}

	select {
	case mb.buffer <- ev:
		mb.addStats(1, 0, 0)
		return nil
	default:
	}

	if ev.Priority < 5 {
		mb.addStats(0, 0, 1)
		return nil
	}
	select {
	case mb.buffer <- ev:
		mb.addStats(1, 0, 0)
		return nil
	case <-mb.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (mb *MemoryBus) addStats(published, consumed, dropped uint64) {
	mb.mu.Lock()
	mb.stats.Published += published
	mb.stats.Consumed += consumed
	mb.stats.Dropped += dropped
	mb.mu.Unlock()
}

// Subscribe регистрирует обработчик. Подписка живёт до Unsubscribe
// или отмены ctx.
func (mb *MemoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	select {
	case <-mb.quit:
		return nil, ErrClosed
	default:
	}

	cctx, cancel := context.WithCancel(ctx)
	sub := &subscriber{
		filter:  f,
		handler: h,
		ctx:     cctx,
		cancel:  cancel,
		queue:   make(chan *Envelope, cap(mb.buffer)),
	}

	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	mb.subscribers[id] = sub
	mb.mu.Unlock()

	go mb.deliver(sub)
	go func() {
		<-cctx.Done()
		mb.remove(id)
	}()

	return &memSub{bus: mb, id: id}, nil
}

// Metrics возвращает текущие счётчики шины
func (mb *MemoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// Close останавливает рассылку и отписывает всех подписчиков
func (mb *MemoryBus) Close() error {
	mb.closeOnce.Do(func() {
		close(mb.quit)
		<-mb.done
	})
	return nil
}

// dispatchLoop раскладывает события по очередям подписчиков.
func (mb *MemoryBus) dispatchLoop() {
	defer close(mb.done)
	defer func() {
		mb.mu.Lock()
		for id, sub := range mb.subscribers {
			sub.cancel()
			delete(mb.subscribers, id)
		}
		mb.mu.Unlock()
	}()

	for {
		select {
		case <-mb.quit:
			return
		case ev := <-mb.buffer:
			mb.dispatch(ev)
		}
	}
}

func (mb *MemoryBus) dispatch(ev *Envelope) {
	var dropped uint64
	mb.mu.RLock()
	for _, sub := range mb.subscribers {
		if !matchFilter(ev, sub.filter) {
			continue
		}
		select {
		case sub.queue <- ev:
		default:
			dropped++ // медленный подписчик теряет событие
		}
	}
	mb.mu.RUnlock()

	if dropped > 0 {
		mb.addStats(0, 0, dropped)
	}
}

func (mb *MemoryBus) deliver(sub *subscriber) {
	for {
		select {
		case <-sub.ctx.Done():
			return
		case ev := <-sub.queue:
			sub.handler(sub.ctx, ev)
			mb.addStats(0, 1, 0)
		}
	}
}

func (mb *MemoryBus) remove(id int) {
	mb.mu.Lock()
	if sub, ok := mb.subscribers[id]; ok {
		sub.cancel()
		delete(mb.subscribers, id)
	}
	mb.mu.Unlock()
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *MemoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.remove(s.id)
}
