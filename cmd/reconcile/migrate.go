package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Vallas-api/internal/infrastructure/postgres"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return postgres.Migrate(e.cfg.DB.ConnectionString(), e.log.Component("migrate"))
		},
	}
}
