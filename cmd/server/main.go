package main

import (
	"log/slog"
	"os"

	"github.com/nithinkp/kurihub/internal/auth"
	"github.com/nithinkp/kurihub/internal/config"
	"github.com/nithinkp/kurihub/internal/handlers"
	"github.com/nithinkp/kurihub/internal/identity"
	"github.com/nithinkp/kurihub/internal/scheme"
	"github.com/nithinkp/kurihub/internal/spinner"
	"github.com/nithinkp/kurihub/internal/storage/sqlite"
	"github.com/nithinkp/kurihub/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	rotation := scheme.ParseRotationPolicy(cfg.RotationPolicy)
	engine := scheme.NewEngine(store, rotation)
	ids := identity.NewService(store, cfg.CodeFormat)
	authenticator := auth.NewPasswordAuthenticator(store, ids)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	hub := spinner.NewHub()

	router := handlers.NewRouter(handlers.Deps{
		Store:         store,
		Engine:        engine,
		Identity:      ids,
		Authenticator: authenticator,
		JWT:           jwtManager,
		Hub:           hub,
	})

	slog.Info("KuriHub server starting",
		"port", cfg.Port,
		"rotation_policy", string(rotation),
		"code_format", cfg.CodeFormat,
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
