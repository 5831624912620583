package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/picshare/picshare-api/config"
	"github.com/picshare/picshare-api/internal/application"
	pginfra "github.com/picshare/picshare-api/internal/infrastructure/postgres"
	"github.com/picshare/picshare-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to init token manager: %v", err)
	}

	svc := application.NewService(
		pginfra.NewUserRepository(pool),
		helpers.BcryptHasher{},
		jwtManager,
		logger,
		nil, // no welcome email for seeded users
		nil, // no search indexing
		"",
	)

	out, err := svc.CreateUser(ctx, application.UserInput{
		FullName: "Demo User",
		Username: "demo",
		Email:    "demo@picshare.local",
		Password: "password123",
	})
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s email=%s password=password123\n", out.ID, out.Username, out.Email)
}
