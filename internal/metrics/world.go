package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blockworld"

// WorldCollector собирает Prometheus-метрики мира.
// Реализует world.Observer и подключается через World.SetObserver.
type WorldCollector struct {
	chunksGenerated prometheus.Counter
	chunksUnloaded  prometheus.Counter
	chunksLoaded    prometheus.Gauge
	generationTime  prometheus.Histogram
	blockChanges    *prometheus.CounterVec
	raycasts        *prometheus.CounterVec
	rejections      *prometheus.CounterVec
}

var _ world.Observer = (*WorldCollector)(nil)

// NewWorldCollector создаёт коллектор и регистрирует метрики в reg
func NewWorldCollector(reg prometheus.Registerer) (*WorldCollector, error) {
	wc := &WorldCollector{
		chunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Общее число сгенерированных чанков.",
		}),
		chunksUnloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_unloaded_total",
			Help:      "Общее число выгруженных чанков.",
		}),
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Текущее количество чанков в памяти.",
		}),
		generationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_generation_seconds",
			Help:      "Длительность генерации одного чанка.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		blockChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_changes_total",
			Help:      "Изменения блоков по типу действия.",
		}, []string{"action"}),
		raycasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raycasts_total",
			Help:      "Выполненные лучи по результату (hit/miss).",
		}, []string{"result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_rejected_total",
			Help:      "Отклоненные установки блоков по причине.",
		}, []string{"reason"}),
	}

	collectors := []prometheus.Collector{
		wc.chunksGenerated, wc.chunksUnloaded, wc.chunksLoaded, wc.generationTime,
		wc.blockChanges, wc.raycasts, wc.rejections,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return wc, nil
}

// ChunkGenerated учитывает сгенерированный чанк
func (wc *WorldCollector) ChunkGenerated(_ vec.Vec2, _ int, took time.Duration) {
	wc.chunksGenerated.Inc()
	wc.chunksLoaded.Inc()
	wc.generationTime.Observe(took.Seconds())
}

// ChunkUnloaded учитывает выгруженный чанк
func (wc *WorldCollector) ChunkUnloaded(vec.Vec2) {
	wc.chunksUnloaded.Inc()
	wc.chunksLoaded.Dec()
}

// BlockChanged учитывает изменение блока
func (wc *WorldCollector) BlockChanged(event world.BlockEvent) {
	wc.blockChanges.WithLabelValues(event.EventType.String()).Inc()
}

// Raycast учитывает результат луча
func (wc *WorldCollector) Raycast(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	wc.raycasts.WithLabelValues(result).Inc()
}

// PlacementRejected учитывает отклоненную установку
func (wc *WorldCollector) PlacementRejected(reason error) {
	wc.rejections.WithLabelValues(RejectionReason(reason)).Inc()
}

// RejectionReason возвращает метку причины отказа
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, world.ErrNoTarget):
		return "no_target"
	case errors.Is(err, world.ErrOccupied):
		return "occupied"
	case errors.Is(err, world.ErrPlacementObstructed):
		return "obstructed"
	case errors.Is(err, world.ErrInvalidBlockType):
		return "invalid_type"
	default:
		return "other"
	}
}

// Serve запускает отдельный HTTP-эндпоинт /metrics на addr и блокируется
// до отмены ctx
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
