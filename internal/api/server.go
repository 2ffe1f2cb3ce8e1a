// Package api exposes the authoring service over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/aeriel/clai/internal/logger"
)

// RouterConfig wires the router's dependencies.
type RouterConfig struct {
	Handler     *Handler
	Log         *logger.Logger
	CORSOrigins []string

	// Ping reports storage health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	r := gin.New()
	r.Use(Recovery(cfg.Log))
	r.Use(RequestLogger(cfg.Log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if cfg.Ping != nil {
			if err := cfg.Ping(c.Request.Context()); err != nil {
				respondError(c, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		c.String(http.StatusOK, "ok")
	})

	h := cfg.Handler
	api := r.Group("/api")
	{
		api.POST("/create-course", h.CreateCourse)

		api.GET("/courses", h.ListCourses)
		api.POST("/courses", h.PostCourse)
		api.GET("/courses/:id", h.GetCourse)
		api.PATCH("/courses/:id", h.PatchCourse)
		api.GET("/courses/:id/lessons", h.ListLessons)
		api.POST("/courses/:id/lessons", h.PostLesson)
		api.POST("/courses/:id/lessons/generate", h.GenerateLessons)
		api.POST("/courses/:id/lessons/:index/move", h.MoveLesson)

		api.GET("/lessons/:id", h.GetLesson)
		api.PATCH("/lessons/:id", h.PatchLesson)
		api.GET("/lessons/:id/slides", h.ListSlides)
		api.POST("/lessons/:id/slides/generate", h.GenerateSlides)
		api.POST("/lessons/:id/slides/:index/move", h.MoveSlide)

		api.PUT("/slides/:id", h.PutSlide)

		api.POST("/reflections", h.Reflect)
		api.POST("/clarifications", h.Clarify)
	}
	return r
}

// Server runs the router until its context is cancelled.
type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

func NewServer(cfg RouterConfig) *Server {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	return &Server{Engine: NewRouter(cfg), log: cfg.Log}
}

// Run listens on addr and shuts down gracefully when ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
