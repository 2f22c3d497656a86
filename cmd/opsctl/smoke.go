package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
)

// smokeStoreCode marks rows written by smoke-test.
const smokeStoreCode = "99999"

var smokeTestCmd = &cobra.Command{
	Use:   "smoke-test",
	Short: "Insert a test store, read it back, print it and delete it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repo := store.NewPostgresRepository(db)

		row := &store.Store{
			ID:        uuid.New(),
			StoreCode: smokeStoreCode,
			Name:      "Smoke Test Store",
			Zone:      "Test",
			Status:    store.StatusClosed,
		}
		if err := repo.Create(ctx, row); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		got, err := repo.GetByID(ctx, row.ID.String())
		if err != nil {
			return fmt.Errorf("read back: %w", err)
		}
		out, _ := json.MarshalIndent(got, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if err := repo.Delete(ctx, row.ID.String()); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		log.WithField("store_id", row.ID).Info("smoke test passed")
		return nil
	},
}
