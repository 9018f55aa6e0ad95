package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/smed/internal/audit"
	"github.com/fyrsmithlabs/smed/internal/config"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries from the audit log",
	Long:  `Show the most recent audited queries. Requires the sqlite audit backend.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Audit.Backend != "sqlite" {
		return fmt.Errorf("history requires audit.backend=sqlite, configured backend is %q", cfg.Audit.Backend)
	}

	path, err := config.ExpandPath(cfg.Audit.Path)
	if err != nil {
		return err
	}
	sink, err := audit.NewSQLiteSink(path)
	if err != nil {
		return fmt.Errorf("opening audit database: %w", err)
	}
	defer sink.Close()

	entries, err := sink.Recent(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading audit entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No audited queries yet")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %s  conf=%.2f  [%s]\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.UserID, e.Confidence, strings.Join(e.Domains, ","))
		fmt.Printf("  Q: %s\n", e.Query)
		fmt.Printf("  A: %s\n\n", truncate(e.Answer, 200))
	}
	return nil
}

// truncate shortens s for terminal display.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
