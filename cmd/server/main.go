package main

import (
	"context"
	"log"
	"os"

	"kanban-board/internal/config"
	"kanban-board/internal/database"
	"kanban-board/internal/repository"
	"kanban-board/internal/seeder"
	"kanban-board/internal/server"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// @title           Kanban Board API
// @version         1.0
// @description     Boards, ordered columns and ordered cards with transactional drag-and-drop moves.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	app := &cli.App{
		Name:   "kanban",
		Usage:  "Kanban board HTTP API",
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: runServe,
			},
			{
				Name:  "migrate",
				Usage: "Apply or roll back database migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: runMigrate(database.Up),
					},
					{
						Name:   "down",
						Usage:  "Roll back every migration",
						Action: runMigrate(database.Down),
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Create a demo board when the database has none",
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("kanban: %v", err)
	}
}

// setup loads config and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, envErr := config.Load()

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}
	logger.Info("Config loaded",
		zap.String("server_port", cfg.ServerPort),
		zap.String("db_host", cfg.DBHost),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.String("env", cfg.Env),
	)
	return cfg, logger, nil
}

func runServe(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return err
	}

	s, err := server.Init(c.Context, cfg, logger)
	if err != nil {
		logger.Error("Server initialization failed", zap.Error(err))
		return err
	}

	return s.Run()
}

func runMigrate(dir database.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return withDB(c.Context, cfg, logger, func(ctx context.Context, db *repository.Store) error {
			return database.Migrate(ctx, db.DB(), dir, logger)
		})
	}
}

func runSeed(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	return withDB(c.Context, cfg, logger, func(ctx context.Context, store *repository.Store) error {
		if err := database.Migrate(ctx, store.DB(), database.Up, logger); err != nil {
			return err
		}
		return seeder.NewSeeder(store, logger).Seed(ctx)
	})
}

func withDB(ctx context.Context, cfg *config.Config, logger *zap.Logger, fn func(context.Context, *repository.Store) error) error {
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(ctx, repository.NewStore(db))
}
