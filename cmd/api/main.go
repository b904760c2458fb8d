package main

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ashishpal07/qp-assessment/internal/api"
	"github.com/ashishpal07/qp-assessment/internal/config"
	"github.com/ashishpal07/qp-assessment/internal/database"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database")

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewServer(db, cfg, logger).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
