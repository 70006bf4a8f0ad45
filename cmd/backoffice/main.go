// backoffice es la CLI de administración: migraciones, alta de empresas y superusuarios e importación de inventario.
//
// Uso:
//
//	backoffice migrate
//	backoffice create-company --name "Guasá" --nit 900373115
//	backoffice create-superuser --company <id> --email admin@guasa.co --password ********
//	backoffice import-inventory --company <id> --user <id> --file productos.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-backoffice/internal/bootstrap"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

var (
	// Flags globales
	envFile string
	verbose bool

	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Administración del back office POS",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load(envFile)
		level := "warn"
		if verbose {
			level = "debug"
		}
		log = logger.New(logger.Config{Env: "development", Level: level})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env a cargar (opcional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log detallado")
	rootCmd.AddCommand(migrateCmd, createCompanyCmd, createSuperuserCmd, importInventoryCmd)
}

// openContainer carga la configuración y arma los casos de uso. Reemplazable en tests.
var openContainer = func(ctx context.Context, migrate bool) (*bootstrap.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	return bootstrap.Build(ctx, cfg, log, migrate)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
