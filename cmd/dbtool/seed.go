package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert zones and stops from a JSON or YAML seed file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := seedFile
		if path == "" {
			path = cfg.Store.SeedPath
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Seed(path); err != nil {
			return err
		}
		zap.L().Info("seeding complete", zap.String("file", path))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "seed file (defaults to store.seed_path)")
	rootCmd.AddCommand(seedCmd)
}
