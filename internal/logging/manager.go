package logging

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// LoggerManager выдает логгеры компонентов сервера с общим каталогом файлов.
// Уровень консоли компонента берется из переопределений, иначе общий.
type LoggerManager struct {
	mu        sync.Mutex
	dir       string
	level     LogLevel
	overrides map[string]LogLevel
	loggers   map[string]*Logger
}

// NewLoggerManager создаёт менеджер. overrides задает уровни отдельных
// компонентов, например {"api": DEBUG}; nil допустим.
func NewLoggerManager(dir string, level LogLevel, overrides map[string]LogLevel) *LoggerManager {
	own := make(map[string]LogLevel, len(overrides))
	for component, l := range overrides {
		own[component] = l
	}
	return &LoggerManager{
		dir:       dir,
		level:     level,
		overrides: own,
		loggers:   make(map[string]*Logger),
	}
}

// Level возвращает уровень консоли для компонента
func (lm *LoggerManager) Level(component string) LogLevel {
	if l, ok := lm.overrides[component]; ok {
		return l
	}
	return lm.level
}

// Logger возвращает логгер компонента, создавая его при первом обращении.
// Если файл лога не открывается, логгер пишет только в консоль.
func (lm *LoggerManager) Logger(component string) *Logger {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, ok := lm.loggers[component]; ok {
		return logger
	}

	logger, err := NewLogger(component, lm.dir)
	if err != nil {
		Warn("логгер %s без файла: %v", component, err)
		logger, _ = NewLogger(component, "")
	}

	console := lm.Level(component)
	file := DEBUG
	if console < file {
		file = console
	}
	logger.SetLevels(console, file)

	lm.loggers[component] = logger
	return logger
}

// Components возвращает отсортированный список созданных логгеров
func (lm *LoggerManager) Components() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// CloseAll закрывает все логгеры и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", component, err))
		}
	}
	lm.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}
