// migrate aplica o revierte las migraciones embebidas del ledger.
//
// Uso: go run ./cmd/migrate [up|down|status]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	migrator, err := postgres.NewMigrator(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	defer migrator.Close()

	switch cmd {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("up")
		}
		log.Info().Ints64("versions", applied).Msg("migraciones aplicadas")
	case "down":
		version, err := migrator.Down(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("down")
		}
		log.Info().Int64("version", version).Msg("migración revertida")
	case "status":
		states, err := migrator.Status(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("status")
		}
		for _, s := range states {
			state := "pendiente"
			if s.Applied {
				state = "aplicada"
			}
			fmt.Printf("%05d  %-10s %s\n", s.Version, state, s.Path)
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up | down | status)\n", cmd)
		os.Exit(2)
	}
}
