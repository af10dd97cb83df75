package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/blockworld/internal/eventbus"
	"github.com/annel0/blockworld/internal/game"
	"github.com/annel0/blockworld/internal/logging"
	"github.com/annel0/blockworld/internal/middleware"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world"
	"github.com/annel0/blockworld/internal/world/block"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// eventsPath путь потока событий; WebSocket не проходит через gzip
const (
	eventsPath            = "/api/events/ws"
	defaultMaxRayDistance = 256
)

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr     string               // адрес для запуска сервера, например ":8088"
	Session  *game.Session        // инспектируемая сессия
	Registry *prometheus.Registry // реестр метрик для /metrics
	Logger   *logging.Logger      // nil: логгер по умолчанию
	Timeout  time.Duration        // ожидание горутины симуляции

	MaxRayDistance float64 // верхняя граница max_distance для /api/raycast, 0: 256

	Events         eventbus.EventBus    // шина для /api/events/ws, nil: поток отключён
	TracerProvider trace.TracerProvider // nil: глобальный провайдер OpenTelemetry
}

// Server REST инспектор запущенной сессии. Все обращения к миру
// выполняются через Session.Do в горутине симуляции.
type Server struct {
	router  *gin.Engine
	session *game.Session
	metrics *ServerMetrics
	events  eventbus.EventBus
	handler http.Handler
	addr    string
	timeout time.Duration
	maxRay  float64
}

// NewServer создает REST сервер
func NewServer(cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("api: не задана сессия")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8088"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.MaxRayDistance <= 0 {
		cfg.MaxRayDistance = defaultMaxRayDistance
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	router := gin.New()        // без стандартного logger
	router.Use(gin.Recovery()) // добавим только recovery

	var otelOpts []otelgin.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	router.Use(otelgin.Middleware("blockworld-api", otelOpts...))
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())

	promMw, err := middleware.NewPrometheusMiddleware("blockworld_api", cfg.Registry)
	if err != nil {
		return nil, err
	}
	router.Use(promMw.Handler())
	middleware.RegisterMetricsEndpoint(router, cfg.Registry)

	s := &Server{
		router:  router,
		session: cfg.Session,
		metrics: NewServerMetrics(),
		events:  cfg.Events,
		addr:    cfg.Addr,
		timeout: cfg.Timeout,
		maxRay:  cfg.MaxRayDistance,
	}
	s.setupRoutes()

	gzipped := gzhttp.GzipHandler(router)
	s.handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == eventsPath {
			router.ServeHTTP(w, r)
			return
		}
		gzipped.ServeHTTP(w, r)
	})
	return s, nil
}

// setupRoutes настраивает маршруты REST API
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/world", s.handleWorld)
		api.GET("/blocks", s.handleBlockTypes)

		api.GET("/block", s.handleGetBlock)
		api.PUT("/block", s.handleSetBlock)
		api.DELETE("/block", s.handleDeleteBlock)

		api.POST("/raycast", s.handleRaycast)
		api.GET("/chunks", s.handleChunks)

		api.GET("/player", s.handlePlayer)
		api.POST("/player/input", s.handlePlayerInput)
		api.POST("/scene", s.handleScene)
	}
	s.router.GET(eventsPath, s.handleEvents)
}

// Handler возвращает http.Handler сервера со сжатием ответов
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start запускает сервер и блокируется до отмены ctx
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("🌐 REST инспектор доступен по адресу %s", s.addr)
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

// do выполняет fn в горутине симуляции с таймаутом запроса
func (s *Server) do(c *gin.Context, fn func(*game.Session) error) error {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	return s.session.Do(ctx, fn)
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, GenericResponse{
		Success: status < 400,
		Message: message,
		Data:    data,
	})
}

// sessionError отвечает на ошибку Session.Do
func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrSessionClosed):
		respond(c, http.StatusServiceUnavailable, "Сессия остановлена", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respond(c, http.StatusGatewayTimeout, "Сессия не ответила вовремя", nil)
	default:
		respond(c, http.StatusInternalServerError, err.Error(), nil)
	}
}

// queryPosition читает x, y, z из query-параметров
func queryPosition(c *gin.Context) (vec.Vec3, bool) {
	var coords [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Query(name))
		if err != nil {
			respond(c, http.StatusBadRequest, "Параметр "+name+" должен быть целым числом", nil)
			return vec.Vec3{}, false
		}
		coords[i] = v
	}
	return vec.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}, true
}

func (s *Server) handleHealth(c *gin.Context) {
	data := s.metrics.Snapshot()
	data["session_id"] = s.session.ID
	data["time"] = time.Now().Unix()
	respond(c, http.StatusOK, "ok", data)
}

func (s *Server) handleWorld(c *gin.Context) {
	var view WorldView
	err := s.do(c, func(sess *game.Session) error {
		w := sess.World()
		cfg := w.Config()
		view = WorldView{
			SessionID:      sess.ID,
			Scene:          sess.Scene().String(),
			Tick:           sess.TickCount(),
			TickRate:       sess.TickRate(),
			Seed:           w.Generator().Seed(),
			ChunkSize:      cfg.ChunkSize,
			RenderDistance: cfg.RenderDistance,
			ChunkCount:     w.ChunkCount(),
			SkyColor:       w.SkyColor(),
		}
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	respond(c, http.StatusOK, "Мир", view)
}

func (s *Server) handleBlockTypes(c *gin.Context) {
	types := block.All()
	infos := make([]BlockTypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, blockTypeInfo(t))
	}
	respond(c, http.StatusOK, "Типы блоков", infos)
}

func (s *Server) handleGetBlock(c *gin.Context) {
	pos, ok := queryPosition(c)
	if !ok {
		return
	}

	var (
		b     world.Block
		found bool
	)
	err := s.do(c, func(sess *game.Session) error {
		b, found = sess.World().GetBlockAt(pos)
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	if !found {
		respond(c, http.StatusNotFound, "Блок не найден (воздух или несгенерированный чанк)", nil)
		return
	}
	respond(c, http.StatusOK, "Блок", blockView(b))
}

func (s *Server) handleSetBlock(c *gin.Context) {
	var req SetBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}
	t, err := block.ParseType(req.Type)
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var ok bool
	err = s.do(c, func(sess *game.Session) error {
		ok = sess.World().SetBlockAt(req.vec(), t)
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	if !ok {
		respond(c, http.StatusBadRequest, "Позиция вне допустимого диапазона", nil)
		return
	}
	respond(c, http.StatusOK, "Блок установлен", blockView(world.NewBlock(t, req.vec())))
}

func (s *Server) handleDeleteBlock(c *gin.Context) {
	pos, ok := queryPosition(c)
	if !ok {
		return
	}

	var removed bool
	err := s.do(c, func(sess *game.Session) error {
		removed = sess.World().RemoveBlockAt(pos)
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	if !removed {
		respond(c, http.StatusNotFound, "Блок не найден", nil)
		return
	}
	respond(c, http.StatusOK, "Блок удален", positionOf(pos))
}

func (s *Server) handleRaycast(c *gin.Context) {
	var req RaycastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}
	// DDA линеен по длине луча и выполняется в горутине симуляции
	if req.MaxDistance > s.maxRay {
		respond(c, http.StatusBadRequest, fmt.Sprintf("max_distance не должен превышать %g", s.maxRay), nil)
		return
	}

	var resp RaycastResponse
	err := s.do(c, func(sess *game.Session) error {
		w := sess.World()
		origin, dir := toVec(req.Origin), toVec(req.Direction)
		if req.FromPlayer {
			origin, dir = sess.Player().EyePosition(), sess.Player().LookDirection()
		}
		maxDistance := req.MaxDistance
		if maxDistance <= 0 {
			maxDistance = w.Config().Reach
		}

		hit, ok := w.Raycast(origin, dir, maxDistance)
		if !ok {
			return nil
		}
		b, _ := w.GetBlockAt(hit.Block)
		view := blockView(b)
		normal := positionOf(hit.Normal)
		resp = RaycastResponse{
			Hit:      true,
			Block:    &view,
			Normal:   &normal,
			Face:     hit.Face().String(),
			Point:    hit.Point,
			Distance: hit.Distance,
		}
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	respond(c, http.StatusOK, "Луч", resp)
}

func (s *Server) handleChunks(c *gin.Context) {
	var chunks []ChunkView
	err := s.do(c, func(sess *game.Session) error {
		chunks = make([]ChunkView, 0, sess.World().ChunkCount())
		sess.World().ForEachChunk(func(ch *world.Chunk) bool {
			chunks = append(chunks, ChunkView{X: ch.Coords.X, Z: ch.Coords.Z, Blocks: ch.Len()})
			return true
		})
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	respond(c, http.StatusOK, "Чанки", chunks)
}

func (s *Server) handlePlayer(c *gin.Context) {
	var view PlayerView
	err := s.do(c, func(sess *game.Session) error {
		view = playerView(sess.Player())
		return nil
	})
	if err != nil {
		sessionError(c, err)
		return
	}
	respond(c, http.StatusOK, "Персонаж", view)
}

func (s *Server) handlePlayerInput(c *gin.Context) {
	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	err = s.do(c, func(sess *game.Session) error {
		if sess.Scene() != game.ScenePlaying {
			return game.ErrInvalidTransition
		}
		sess.SetInput(in)
		return nil
	})
	switch {
	case errors.Is(err, game.ErrInvalidTransition):
		respond(c, http.StatusConflict, "Ввод принимается только в игре", nil)
	case err != nil:
		sessionError(c, err)
	default:
		respond(c, http.StatusOK, "Ввод принят", nil)
	}
}

func (s *Server) handleScene(c *gin.Context) {
	var req SceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Неверный формат запроса", nil)
		return
	}
	event, err := game.ParseEvent(req.Event)
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var scene game.Scene
	err = s.do(c, func(sess *game.Session) error {
		err := sess.Fire(event)
		scene = sess.Scene()
		return err
	})
	switch {
	case errors.Is(err, game.ErrInvalidTransition):
		respond(c, http.StatusConflict, err.Error(), gin.H{"scene": scene.String()})
	case err != nil:
		sessionError(c, err)
	default:
		respond(c, http.StatusOK, "Сцена изменена", gin.H{"scene": scene.String()})
	}
}
