package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/agenda-scheduler/internal/bootstrap"
)

func newBootstrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Cria o admin e o primeiro tenant a partir das variáveis BOOTSTRAP_*",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup()
			if err != nil {
				return err
			}

			res, err := bootstrap.Run(cmd.Context(), db, cfg.Bootstrap, cfg.DefaultRegion)
			if err != nil {
				return err
			}

			log.Info().
				Bool("admin_created", res.AdminCreated).
				Bool("tenant_created", res.TenantCreated).
				Str("tenant_slug", res.TenantSlug).
				Msg("bootstrap finished")
			return nil
		},
	}
}
