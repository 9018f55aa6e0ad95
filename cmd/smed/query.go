package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/smed/internal/engine"
)

var (
	queryDomains []string
	queryUser    string
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask the virtual expert a question",
	Long: `Ask a banking question. By default every knowledge domain is consulted
and the per-domain answers are fused into one response.

Examples:
  # Consult all domains
  smed query "What are the risk factors in global trade finance?"

  # Restrict to specific domains
  smed query --domains compliance,risk_management "What are the KYC limits?"

  # Machine-readable output
  smed query --json "How does inventory financing work?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryDomains, "domains", nil, "restrict to these domain IDs (comma-separated)")
	queryCmd.Flags().StringVar(&queryUser, "user", "cli", "user ID recorded in the audit log")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full response as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := buildApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.engine.HandleQuery(context.Background(), engine.Query{
		Text:             strings.Join(args, " "),
		UserID:           queryUser,
		PreferredDomains: queryDomains,
	})
	if err != nil {
		var reason *engine.FailureReason
		if errors.As(err, &reason) {
			// Actionable message for the operator; exit nonzero via RunE.
			return fmt.Errorf("%s", reason.Message)
		}
		return err
	}

	if queryJSON {
		return printResponseJSON(resp)
	}
	printResponse(resp)
	return nil
}

// queryOutput is the JSON shape for --json.
type queryOutput struct {
	RequestID            string   `json:"request_id"`
	Query                string   `json:"query"`
	Answer               string   `json:"answer"`
	DomainsConsulted     []string `json:"domains_consulted"`
	Sources              []string `json:"sources"`
	Confidence           float64  `json:"confidence"`
	ContradictionFlagged bool     `json:"contradiction_flagged"`
	Timestamp            string   `json:"timestamp"`
}

func printResponseJSON(resp *engine.Response) error {
	domains := make([]string, len(resp.DomainsConsulted))
	for i, id := range resp.DomainsConsulted {
		domains[i] = string(id)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(queryOutput{
		RequestID:            resp.RequestID,
		Query:                resp.Query,
		Answer:               resp.Answer,
		DomainsConsulted:     domains,
		Sources:              resp.Sources,
		Confidence:           resp.Confidence,
		ContradictionFlagged: resp.ContradictionFlagged,
		Timestamp:            resp.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func printResponse(resp *engine.Response) {
	fmt.Println(resp.Answer)
	fmt.Println()

	domains := make([]string, len(resp.DomainsConsulted))
	for i, id := range resp.DomainsConsulted {
		domains[i] = string(id)
	}
	fmt.Printf("Domains:    %s\n", strings.Join(domains, ", "))
	if len(resp.Sources) > 0 {
		fmt.Printf("Sources:    %s\n", strings.Join(resp.Sources, ", "))
	}
	fmt.Printf("Confidence: %.2f\n", resp.Confidence)
	if resp.ContradictionFlagged {
		fmt.Println("Warning:    domain answers contradict each other, review both positions")
	}
}
