package game

import (
	"errors"
	"fmt"
	"strings"
)

// Scene состояние приложения
type Scene uint8

const (
	SceneMenu Scene = iota
	ScenePlaying
)

// String возвращает имя сцены
func (s Scene) String() string {
	switch s {
	case SceneMenu:
		return "menu"
	case ScenePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Event событие, переключающее сцену
type Event uint8

const (
	EventPlay  Event = iota // кнопка "Играть" в меню
	EventLeave              // выход из игры в меню
)

// String возвращает имя события
func (e Event) String() string {
	switch e {
	case EventPlay:
		return "play"
	case EventLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition событие недопустимо в текущей сцене
var ErrInvalidTransition = errors.New("недопустимый переход сцены")

// ParseEvent возвращает событие по имени
func ParseEvent(name string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "play":
		return EventPlay, nil
	case "leave":
		return EventLeave, nil
	default:
		return 0, fmt.Errorf("неизвестное событие сцены %q", name)
	}
}

// Transition возвращает сцену после события
func Transition(s Scene, e Event) (Scene, error) {
	switch {
	case s == SceneMenu && e == EventPlay:
		return ScenePlaying, nil
	case s == ScenePlaying && e == EventLeave:
		return SceneMenu, nil
	default:
		return s, fmt.Errorf("%w: %s в сцене %s", ErrInvalidTransition, e, s)
	}
}
