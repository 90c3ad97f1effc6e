package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/bootstrap"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

var importFlags struct {
	kind string
	file string
	user string
}

// wmsctl import --kind inbound|outbound|catalog --file entradas.xlsx --user jefe@bodega.com
// Misma semántica que POST /api/bulk/*: el archivo completo se aplica o no se aplica nada.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Importa un archivo CSV/XLSX de entradas, salidas o catálogo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind := strings.ToLower(strings.TrimSpace(importFlags.kind))
		if kind != "inbound" && kind != "outbound" && kind != "catalog" {
			return fmt.Errorf("--kind debe ser inbound, outbound o catalog")
		}

		f, err := os.Open(importFlags.file)
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err := tabular.Parse(filepath.Base(importFlags.file), "", f)
		if err != nil {
			return err
		}

		cfg, infra, log, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer infra.Close()

		user, err := postgres.NewUserRepository(infra.Pool).FindByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(importFlags.user)))
		if err != nil {
			return err
		}
		if user == nil || !user.IsActive() {
			return fmt.Errorf("usuario %q no existe o no está activo", importFlags.user)
		}
		if user.Role != entity.RoleAdmin && user.Role != entity.RoleManager {
			return fmt.Errorf("el rol %s no puede importar archivos", user.Role)
		}
		actor := entity.Actor{UserID: user.ID, Role: user.Role}

		svc := bootstrap.NewServices(cfg, infra, bootstrap.Options{Observer: metrics.New()}, log)
		out := cmd.OutOrStdout()
		switch kind {
		case "catalog":
			res, err := svc.CatalogImport.BulkImportCatalog(cmd.Context(), actor, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d creados, %d reactivados\n", res.Message, res.Created, res.Reactivated)
		default:
			res, err := svc.Workflow.BulkImportMovements(cmd.Context(), actor, inventory.ImportKind(kind), rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d filas\n", res.Message, res.Processed)
		}
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.kind, "kind", "", "inbound | outbound | catalog")
	f.StringVar(&importFlags.file, "file", "", "ruta del archivo .csv o .xlsx")
	f.StringVar(&importFlags.user, "user", "", "email del usuario que firma la importación")
	for _, name := range []string{"kind", "file", "user"} {
		_ = importCmd.MarkFlagRequired(name)
	}
}
