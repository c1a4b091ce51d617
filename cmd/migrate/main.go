package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Salon-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Salon-api/pkg/config"
	"github.com/jhoicas/Salon-api/pkg/logger"
)

// Uso: migrate [-steps N] up|down|steps|version
func main() {
	steps := flag.Int("steps", 1, "migraciones a aplicar con el comando steps (negativo = revertir)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.App.LogLevel,
		Components: logger.ParseComponentLevels(cfg.App.LogLevels),
	})

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := mg.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "steps":
		err = mg.Steps(*steps)
	case "version":
		v, dirty, verr := mg.Version()
		if verr == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
		}
		err = verr
	default:
		err = fmt.Errorf("comando desconocido %q (up, down, steps, version)", cmd)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migración fallida")
		os.Exit(1)
	}
}
