package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/handler"
	"tasktracker/internal/middleware"
	"tasktracker/internal/migrations"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	log    *zap.Logger
}

// Handlers are the HTTP endpoints mounted by NewRouter.
type Handlers struct {
	Users    *handler.UserHandler
	Tasks    *handler.TaskHandler
	Comments *handler.CommentHandler
	Health   gin.HandlerFunc
}

func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB handle: %w", err)
	}
	log.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	if cfg.AutoMigrate {
		if err := migrations.Up(sqlDB, log); err != nil {
			return nil, err
		}
	}

	store := repository.NewStore(db, log)
	tasks := service.NewTaskService(store, log)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry())

	r := NewRouter(cfg.JWTSecret, log, Handlers{
		Users:    handler.NewUserHandler(repository.NewUserRepository(db), tokens),
		Tasks:    handler.NewTaskHandler(tasks),
		Comments: handler.NewCommentHandler(tasks),
		Health: func(c *gin.Context) {
			if err := sqlDB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
	})

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		log:    log,
	}, nil
}

func NewRouter(jwtSecret string, log *zap.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(log), middleware.GinZapMiddleware(log))

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.POST("/register", h.Users.Register)
	r.POST("/login", h.Users.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(jwtSecret))
	{
		// Task routes
		authorized.POST("/tasks", h.Tasks.Create)
		authorized.GET("/tasks", h.Tasks.List)
		authorized.GET("/tasks/trashed", h.Tasks.ListTrashed)
		authorized.GET("/tasks/pending-approvals", h.Tasks.ListPendingApprovals)
		authorized.GET("/tasks/:id", h.Tasks.GetByID)
		authorized.PATCH("/tasks/:id", h.Tasks.Update)
		authorized.GET("/tasks/:id/history", h.Tasks.History)

		// Lifecycle routes
		authorized.PUT("/tasks/:id/status", h.Tasks.SetStatus)
		authorized.POST("/tasks/:id/approve", h.Tasks.Approve)
		authorized.POST("/tasks/:id/reject", h.Tasks.Reject)

		// Assignment routes
		authorized.GET("/tasks/:id/assignments", h.Tasks.ListAssignments)
		authorized.PUT("/tasks/:id/assignments", h.Tasks.ReplaceAssignments)
		authorized.DELETE("/tasks/:id/assignments/:user_id", h.Tasks.RemoveAssignee)

		// Trash routes
		authorized.POST("/tasks/:id/trash", h.Tasks.Trash)
		authorized.PUT("/tasks/:id/restore", h.Tasks.Restore)
		authorized.DELETE("/tasks/:id/permanent", h.Tasks.Purge)

		// Comment routes
		authorized.GET("/tasks/:id/comments", h.Comments.List)
		authorized.POST("/tasks/:id/comments", h.Comments.Create)
		authorized.DELETE("/tasks/:id/comments/:comment_id", h.Comments.Delete)
	}
	return r
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen: %w", err)
	case <-quit:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	s.log.Info("server exited properly")
	return nil
}
