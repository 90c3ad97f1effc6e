package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/bootstrap"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
)

// wmsctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, infra, log, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer infra.Close()

		applied, err := postgres.Migrate(cmd.Context(), infra.Pool, log)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "aplicada:", name)
		}
		return nil
	},
}

var seedUser dto.SeedUserRequest

// wmsctl seed-user --email --password --role
var seedUserCmd = &cobra.Command{
	Use:   "seed-user",
	Short: "Crea o actualiza (por email) un usuario activo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, infra, log, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer infra.Close()

		svc := bootstrap.NewServices(cfg, infra, bootstrap.Options{}, log)
		u, err := svc.Auth.SeedUser(cmd.Context(), seedUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "usuario %s (%s) id=%s\n", u.Email, u.Role, u.ID)
		return nil
	},
}

func init() {
	f := seedUserCmd.Flags()
	f.StringVar(&seedUser.Email, "email", "", "email del usuario")
	f.StringVar(&seedUser.Password, "password", "", "password (mínimo 8 caracteres)")
	f.StringVar(&seedUser.Name, "name", "", "nombre visible")
	f.StringVar(&seedUser.Role, "role", "operator", "admin | manager | operator")
	_ = seedUserCmd.MarkFlagRequired("email")
	_ = seedUserCmd.MarkFlagRequired("password")
}
