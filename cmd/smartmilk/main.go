package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	pg "smartmilk/internal/adapters/storage/postgres"
	"smartmilk/internal/config"
	"smartmilk/internal/platform/logger"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd agrupa servidor y tareas de mantenimiento del rodeo.
var rootCmd = &cobra.Command{
	Use:   "smartmilk",
	Short: "SmartMilk dairy farm backend",
	Long: `SmartMilk evalúa la calidad de leche de cada vaca, levanta alertas
y arma recomendaciones de manejo por prioridad.

Subcomandos:
  serve    - API REST
  migrate  - aplica las migraciones de Postgres
  seed     - carga vacas desde un archivo JSON
  evaluate - evalúa un archivo de mediciones sin levantar el servidor`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("SMARTMILK_CONFIG"), "Config YAML (env SMARTMILK_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(evaluateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRuntime carga config y arma el logger (común a todos los subcomandos).
func loadRuntime() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	return cfg, log, nil
}

// openDB devuelve nil si no hay DSN (modo memoria). Con DSN aplica migraciones.
func openDB(ctx context.Context, cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		return nil, nil
	}
	db, err := pg.Open(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	applied, err := pg.Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if len(applied) > 0 {
		log.Info("migrations applied", map[string]any{"versions": applied})
	}
	return db, nil
}
