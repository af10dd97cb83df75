package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/annel0/blockworld/internal/api"
	"github.com/annel0/blockworld/internal/config"
	"github.com/annel0/blockworld/internal/eventbus"
	"github.com/annel0/blockworld/internal/game"
	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/metrics"
	"github.com/annel0/blockworld/internal/observability"
	"github.com/annel0/blockworld/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $BLOCKWORLD_CONFIG)")
	seed := flag.Int64("seed", 0, "сид мира, перекрывает world.seed")
	autoplay := flag.Bool("play", false, "сразу перейти из меню в игру")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	level, overrides, err := cfg.LogLevels()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server", cfg.Logging.Dir, level); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	loggers := logging.NewLoggerManager(cfg.Logging.Dir, level, overrides)
	defer loggers.CloseAll()
	apiLog := loggers.Logger("api")

	logging.Info("🎮 Запуск Blockworld (seed=%d, чанк %d, дальность прорисовки %d)",
		cfg.World.Seed, cfg.World.ChunkSize, cfg.World.RenderDistance)

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.NewWorldCollector(reg)
	if err != nil {
		logging.Error("❌ Ошибка регистрации метрик мира: %v", err)
		os.Exit(1)
	}

	// === МИР И СЕССИЯ ===
	w := world.NewWorld(cfg.ToWorld())
	session := game.NewSession(w, cfg.ToPlayer(), cfg.Server.TickRate)

	// === ШИНА СОБЫТИЙ ===
	bus := eventbus.NewMemoryBus(cfg.Events.BufferSize)
	defer bus.Close()
	buses := []eventbus.EventBus{bus}
	if err := eventbus.RegisterMetrics(reg, "memory", bus); err != nil {
		logging.Error("❌ Ошибка регистрации метрик шины: %v", err)
		os.Exit(1)
	}
	if cfg.Events.NATSURL != "" {
		js, err := eventbus.NewJetStreamBus(cfg.Events.NATSURL, cfg.Events.Stream, cfg.Events.Retention)
		if err != nil {
			logging.Error("❌ JetStream недоступен: %v", err)
			os.Exit(1)
		}
		defer js.Close()
		buses = append(buses, js)
		if err := eventbus.RegisterMetrics(reg, "jetstream", js); err != nil {
			logging.Error("❌ Ошибка регистрации метрик шины: %v", err)
			os.Exit(1)
		}
		logging.Info("📨 События мира публикуются в JetStream %s (stream=%s)", cfg.Events.NATSURL, cfg.Events.Stream)
	}
	if loggers.Level("events") <= logging.TRACE {
		if _, err := eventbus.StartLoggingListener(context.Background(), bus, eventbus.Filter{}, loggers.Logger("events")); err != nil {
			logging.Warn("LoggingListener: %v", err)
		}
	}
	w.SetObserver(world.MultiObserver(collector, eventbus.NewWorldPublisher(session.ID, buses...)))

	// === ТРАССИРОВКА ===
	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTelemetry(context.Background(), observability.TracingOptions{
			ServiceName: "blockworld",
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
			SessionID:   session.ID,
		})
		if err != nil {
			logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	restAddr := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server, err := api.NewServer(api.Config{
		Addr:     restAddr,
		Session:  session,
		Registry: reg,
		Logger:   apiLog,
		Events:   bus,
	})
	if err != nil {
		logging.Error("❌ Ошибка создания REST сервера: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				logging.Error("❌ %s: %v", name, err)
				stop()
			}
		}()
	}

	run("сессия", session.Run)
	run("REST API", server.Start)
	run("метрики", func(ctx context.Context) error {
		return metrics.Serve(ctx, fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()), reg)
	})

	if *autoplay {
		if err := session.Do(ctx, func(s *game.Session) error { return s.Fire(game.EventPlay) }); err != nil {
			logging.Error("❌ Не удалось начать игру: %v", err)
		}
	}

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restAddr)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restAddr)
	logging.Info("   📊 Метрики: http://localhost:%d/metrics", cfg.Server.GetMetricsPort())
	logging.Info("   📡 События: ws://localhost%s/api/events/ws", restAddr)
	logging.Info("   🪵 Логгеры компонентов: %v", loggers.Components())

	<-ctx.Done()
	logging.Info("📡 Получен сигнал завершения, остановка сервисов...")
	wg.Wait()
	logging.Info("👋 Сервер успешно остановлен")
}
