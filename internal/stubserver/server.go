// Package stubserver is a self-contained stand-in for the task-manager
// backend: the same REST surface the production service exposes, backed
// by a local sqlite database. It exists so the client can be developed
// and integration-tested without the real service.
package stubserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Addr           string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestsPerMin int
	BurstSize      int
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		DBPath:         "stub.db",
		JWTSecret:      "stub-secret-do-not-use-in-production",
		TokenTTL:       time.Hour,
		RequestsPerMin: 600,
		BurstSize:      30,
	}
}

type Server struct {
	cfg    Config
	db     *gorm.DB
	router *gin.Engine
	log    *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &Task{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	s := &Server{cfg: cfg, db: db, log: log}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(s.recoveryMiddleware())
	if s.cfg.RequestsPerMin > 0 {
		limit := rate.Limit(float64(s.cfg.RequestsPerMin) / 60.0)
		r.Use(rateLimiterMiddleware(limit, s.cfg.BurstSize))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/login", s.handleLogin)
	r.POST("/user/register", s.handleRegister)

	tasks := r.Group("/tasks")
	tasks.Use(s.authMiddleware())
	{
		tasks.GET("", s.handleListTasks)
		tasks.GET("/filter", s.handleFilterTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.DELETE("/:id", s.handleDeleteTask)
	}

	s.router = r
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("stub server listening", "addr", s.cfg.Addr, "db", s.cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down stub server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
