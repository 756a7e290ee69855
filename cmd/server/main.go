package main

import (
	"log"

	_ "tasktracker/docs"
	"tasktracker/internal/config"
	"tasktracker/internal/logger"
	"tasktracker/internal/server"

	"go.uber.org/zap"
)

// @title           Task Tracker API
// @version         1.0
// @description     Department task tracking with review, trash and audit trail.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if !envLoaded {
		zl.Info("no .env file found, using system environment variables")
	}

	s, err := server.Init(cfg, zl)
	if err != nil {
		zl.Fatal("server initialization failed", zap.Error(err))
	}

	if err := s.Run(); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
