// Package server 通过 HTTP API 和 WebSocket 观战流对外提供一局运行中的模拟
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gonewx/cryodefense/internal/appconfig"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/ecs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gonewx/cryodefense/pkg/grid"
	"github.com/gonewx/cryodefense/pkg/sim"
	"github.com/gonewx/cryodefense/pkg/types"
	"go.uber.org/zap"
)

// Server HTTP 服务
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	runner *Runner
	hub    *Hub
	logger *zap.Logger
}

// PlaceRequest POST /api/buildings 请求体
type PlaceRequest struct {
	Type types.BuildingType `json:"type" binding:"required"`
	X    int                `json:"x"`
	Y    int                `json:"y"`
}

// CollectorRequest POST /api/buildings/:id/collector 请求体
type CollectorRequest struct {
	Active bool `json:"active"`
}

// New 创建服务并注册路由
func New(settings appconfig.ServerSettings, runner *Runner, hub *Hub) *Server {
	if settings.Mode != "" {
		gin.SetMode(settings.Mode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		runner: runner,
		hub:    hub,
		logger: logs.Named("HTTP"),
	}
	engine.Use(s.accessLog())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := engine.Group("/api")
	api.GET("/snapshot", s.getSnapshot)
	api.POST("/buildings", s.postBuilding)
	api.DELETE("/buildings/:id", s.deleteBuilding)
	api.POST("/buildings/:id/collector", s.postCollector)
	engine.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c, runner.Snapshot())
	})

	s.srv = &http.Server{
		Addr:              settings.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// accessLog 每个请求一行日志
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Handler 用于 httptest
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 启动服务（阻塞），关闭后返回 http.ErrServerClosed
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.srv.Shutdown(ctx)
}

func (s *Server) getSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.Snapshot())
}

func (s *Server) postBuilding(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := s.runner.Do(c.Request.Context(), func(w *sim.World) (any, error) {
		return w.PlaceBuilding(req.Type, grid.Cell{X: req.X, Y: req.Y})
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": uint64(v.(ecs.EntityID))})
}

func (s *Server) deleteBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	_, err := s.runner.Do(c.Request.Context(), func(w *sim.World) (any, error) {
		return nil, w.Demolish(id)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) postCollector(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, err := s.runner.Do(c.Request.Context(), func(w *sim.World) (any, error) {
		return nil, w.SetCollectorActive(id, req.Active)
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": uint64(id), "active": req.Active})
}

func parseID(c *gin.Context) (ecs.EntityID, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return 0, false
	}
	return ecs.EntityID(n), true
}

// statusOf 把领域错误映射为 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnknownBuilding):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidPlacement):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrNotDemolishable):
		return http.StatusForbidden
	case errors.Is(err, game.ErrTileOccupied),
		errors.Is(err, game.ErrInsufficientResources),
		errors.Is(err, game.ErrNotHeld),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, ErrRunnerStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
