// Command opsctl runs one-off maintenance tasks against the FieldOps database.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/georgemunganga/fieldops-backend/internal/config"
	"github.com/georgemunganga/fieldops-backend/internal/database"
	"github.com/georgemunganga/fieldops-backend/internal/logger"
)

var (
	envFile string

	db  *sql.DB
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "opsctl",
	Short:         "FieldOps maintenance utilities",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if log, err = logger.New(cfg.Log); err != nil {
			return err
		}
		if db, err = database.Open(cmd.Context(), cfg.DatabaseURL); err != nil {
			return err
		}
		return database.EnsureSchema(cmd.Context(), db)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	rootCmd.AddCommand(seedSettingsCmd)
	rootCmd.AddCommand(smokeTestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
