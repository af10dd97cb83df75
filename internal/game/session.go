package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/world"
	"github.com/google/uuid"
)

// ErrSessionClosed сессия остановлена и больше не принимает команды
var ErrSessionClosed = errors.New("сессия остановлена")

// command функция, выполняемая в горутине симуляции
type command struct {
	fn   func(*Session) error
	done chan error
}

// Session владеет миром, персонажем и текущей сценой. Все изменения
// выполняются в горутине Run; остальные горутины передают их через Do.
type Session struct {
	ID string

	world    *world.World
	player   *Player
	scene    Scene
	tickRate int

	input     Input // текущий ввод: зажатые клавиши сохраняются между тиками
	tick      uint64
	lastTick  TickResult
	startedAt time.Time

	commands chan command
	closed   chan struct{}
}

// NewSession создаёт сессию в сцене меню
func NewSession(w *world.World, playerCfg PlayerConfig, tickRate int) *Session {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Session{
		ID:        uuid.NewString(),
		world:     w,
		player:    NewPlayer(playerCfg, w),
		scene:     SceneMenu,
		tickRate:  tickRate,
		startedAt: time.Now(),
		commands:  make(chan command),
		closed:    make(chan struct{}),
	}
}

// World возвращает мир. Вызывать только из горутины симуляции (внутри Do).
func (s *Session) World() *world.World { return s.world }

// Player возвращает персонажа. Вызывать только из горутины симуляции.
func (s *Session) Player() *Player { return s.player }

// Scene возвращает текущую сцену
func (s *Session) Scene() Scene { return s.scene }

// TickCount возвращает число выполненных тиков
func (s *Session) TickCount() uint64 { return s.tick }

// LastTick возвращает результат последнего тика
func (s *Session) LastTick() TickResult { return s.lastTick }

// Input возвращает текущий ввод
func (s *Session) Input() Input { return s.input }

// TickRate возвращает частоту тиков в секунду
func (s *Session) TickRate() int { return s.tickRate }

// Uptime возвращает время с момента создания сессии
func (s *Session) Uptime() time.Duration { return time.Since(s.startedAt) }

// SetInput заменяет текущий ввод
func (s *Session) SetInput(in Input) {
	s.input = in
}

// Fire применяет событие сцены. Переход в игру генерирует чанки вокруг
// персонажа, выход в меню сбрасывает ввод.
func (s *Session) Fire(e Event) error {
	next, err := Transition(s.scene, e)
	if err != nil {
		return err
	}

	switch next {
	case ScenePlaying:
		if s.world.ChunkCount() == 0 {
			s.world.Init()
		}
		s.player.Respawn(s.world)
		n := s.world.EnsureAround(s.player.Body.Position)
		logging.Info("🎮 Сессия %s: игра началась, сгенерировано %d чанков", s.ID, n)
	case SceneMenu:
		s.input = Input{}
		logging.Info("📋 Сессия %s: возврат в меню", s.ID)
	}

	s.scene = next
	return nil
}

// Step выполняет один тик симуляции длиной dt секунд. В меню мир не меняется.
func (s *Session) Step(dt float64) {
	s.tick++
	if s.scene != ScenePlaying {
		return
	}

	s.lastTick = s.player.Tick(dt, s.input, s.world)

	// Одноразовые действия применяются только в одном тике
	s.input.MouseDX, s.input.MouseDY = 0, 0
	s.input.Break, s.input.Place = false, false

	if s.lastTick.PlaceErr != nil {
		logging.Debug("Сессия %s: установка блока отклонена: %v", s.ID, s.lastTick.PlaceErr)
	}
	if s.lastTick.Respawned {
		logging.Warn("Сессия %s: персонаж упал в пустоту и возвращен на точку появления", s.ID)
	}
}

// Run запускает цикл симуляции с частотой tickRate и выполняет команды,
// пока не отменён ctx
func (s *Session) Run(ctx context.Context) error {
	defer close(s.closed)

	interval := time.Second / time.Duration(s.tickRate)
	dt := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info("▶ Сессия %s запущена (%d тиков/с)", s.ID, s.tickRate)

	for {
		select {
		case <-ctx.Done():
			logging.Info("⏹ Сессия %s остановлена после %d тиков", s.ID, s.tick)
			return nil
		case <-ticker.C:
			s.Step(dt)
		case cmd := <-s.commands:
			cmd.done <- s.exec(cmd.fn)
		}
	}
}

// exec выполняет команду, превращая панику в ошибку
func (s *Session) exec(fn func(*Session) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника в команде сессии: %v", r)
			logging.Error("Сессия %s: %v", s.ID, err)
		}
	}()
	return fn(s)
}

// Do выполняет fn в горутине симуляции и ждет результата
func (s *Session) Do(ctx context.Context, fn func(*Session) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}

	select {
	case s.commands <- cmd:
	case <-s.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
