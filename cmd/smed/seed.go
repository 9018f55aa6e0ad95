package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/smed/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in sample knowledge corpus",
	Long: `Load one sample document per domain into the configured vector store.
Re-running overwrites the same documents, so seeding is idempotent.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := buildApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := seed.Load(context.Background(), a.index, a.registry, a.logger); err != nil {
		return fmt.Errorf("seeding corpus: %w", err)
	}

	fmt.Printf("Seeded %d documents across %d domains\n", seed.Count(), a.registry.Len())
	return nil
}
