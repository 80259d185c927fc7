package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cadastro-api/internal/config"
	"cadastro-api/internal/db"
	apihttp "cadastro-api/internal/http"
	"cadastro-api/internal/repository"
	"cadastro-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	usuarioRepo := repository.NewPgUsuarioRepository(pool)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authSvc := service.NewAuthService(logger, usuarioRepo, hasher)

	usuarioHandler := apihttp.NewUsuarioHandler(logger, authSvc)
	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	router := apihttp.NewRouter(logger, usuarioHandler, authHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
