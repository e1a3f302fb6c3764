package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopmartlabs/shopmart-backend/api/routes"
	"github.com/shopmartlabs/shopmart-backend/internal/accounts"
	cartsvc "github.com/shopmartlabs/shopmart-backend/internal/cart"
	"github.com/shopmartlabs/shopmart-backend/internal/catalog"
	"github.com/shopmartlabs/shopmart-backend/pkg/config"
	"github.com/shopmartlabs/shopmart-backend/pkg/env"
	"github.com/shopmartlabs/shopmart-backend/pkg/logger"
	"github.com/shopmartlabs/shopmart-backend/pkg/mongodb"
	"github.com/shopmartlabs/shopmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	mongoClient, err := mongodb.New(context.Background(), cfg.Mongo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mongodb", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing mongodb", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	productRepo := catalog.NewRepository(mongoClient)
	cartRepo := cartsvc.NewRepository(mongoClient)
	accountRepo := accounts.NewRepository(mongoClient)

	for name, ensure := range map[string]func(context.Context) error{
		"products": productRepo.EnsureIndexes,
		"carts":    cartRepo.EnsureIndexes,
		"accounts": accountRepo.EnsureIndexes,
	} {
		if err := ensure(context.Background()); err != nil {
			ctx := logg.WithField(context.Background(), "collection", name)
			logg.Error(ctx, "failed to ensure indexes", err)
			os.Exit(1)
		}
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: productRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{Repo: cartRepo, Products: productRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	accountsService, err := accounts.NewService(accounts.ServiceParams{Repo: accountRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	// Platform-assigned port wins over configuration.
	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, mongoClient, redisClient, accountsService, catalogService, cartService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
