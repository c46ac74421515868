package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-scheduler/internal/db"
	"github.com/BruksfildServices01/agenda-scheduler/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Agenda multi-tenant com lembretes por WhatsApp.",
	Long: `Agenda é um motor de agendamento multi-tenant: cada estabelecimento
publica seus horários, recebe reservas pela página pública e avisa os
clientes por WhatsApp.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newBootstrapCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup carrega config, logger e banco. Todos os comandos passam por aqui.
func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger.Setup(logger.Options{
		Level:      cfg.LogLevel,
		Production: cfg.IsProduction(),
		File:       cfg.LogFile,
	})

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := dbpkg.Migrate(db); err != nil {
		return nil, nil, err
	}
	log.Debug().Str("dialect", db.Dialector.Name()).Msg("database ready")

	return cfg, db, nil
}
