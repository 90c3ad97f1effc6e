// wmsctl tareas de operación: migraciones, alta de usuarios e importaciones desde archivo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/wms-api/internal/bootstrap"
	"github.com/jhoicas/wms-api/pkg/config"
	"github.com/jhoicas/wms-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "wmsctl",
	Short:         "wmsctl: operación del WMS",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedUserCmd)
	rootCmd.AddCommand(importCmd)
}

// boot carga la configuración y abre la base de datos (y Redis si está configurado).
func boot(ctx context.Context) (*config.Config, *bootstrap.Infra, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "wmsctl", Out: os.Stderr})
	infra, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, log, err
	}
	return cfg, infra, log, nil
}
