package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/smed/internal/domain"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the registered knowledge domains",
	RunE:  runDomains,
}

func runDomains(cmd *cobra.Command, args []string) error {
	// The registry is static, so no config or backends are needed here.
	for _, d := range domain.NewRegistry().All() {
		fmt.Printf("%-22s %s\n", d.ID, d.Label)
		fmt.Printf("%-22s %s\n", "", d.Description)
	}
	return nil
}
