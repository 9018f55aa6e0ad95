// Package seed loads the built-in sample knowledge corpus into the vector
// store so a fresh deployment can answer queries immediately.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

// sample is one built-in knowledge document.
type sample struct {
	domain  domain.ID
	title   string
	source  string
	content string
}

// Load embeds and upserts the sample corpus, one document per domain.
// Idempotent: document IDs are stable, so re-seeding overwrites in place.
func Load(ctx context.Context, index vectorstore.Index, registry *domain.Registry, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range samples() {
		d, err := registry.Get(s.domain)
		if err != nil {
			return fmt.Errorf("seeding %q: %w", s.title, err)
		}

		doc := vectorstore.Document{
			ID:      "sample_" + string(s.domain),
			Content: s.content,
			Metadata: map[string]string{
				"title":       s.title,
				"source":      s.source,
				"upload_date": now,
				"type":        "sample",
				"category":    "training",
			},
		}

		if err := index.Upsert(ctx, d.Collection(), []vectorstore.Document{doc}); err != nil {
			return fmt.Errorf("seeding %q: %w", s.title, err)
		}
		logger.Info("seeded document",
			zap.String("domain", string(s.domain)),
			zap.String("title", s.title),
		)
	}
	return nil
}

// Count returns the number of built-in sample documents.
func Count() int {
	return len(samples())
}

func samples() []sample {
	return []sample{
		{
			domain: domain.DistributionFinance,
			title:  "Distribution Finance Overview",
			source: "Bank Internal Documentation",
			content: `Distribution Finance is a specialized banking service that provides financing solutions for supply chain and distribution networks.

Key components include:
- Supply chain financing: Working capital solutions for suppliers and distributors
- Inventory financing: Credit facilities secured by inventory
- Trade credit insurance: Protection against non-payment
- Distribution network financing: Support for channel partners

Benefits:
- Improved cash flow for all parties in the supply chain
- Reduced payment delays
- Enhanced supplier relationships
- Risk mitigation through insurance products`,
		},
		{
			domain: domain.ChannelFinance,
			title:  "Channel Finance Best Practices",
			source: "Channel Finance Manual",
			content: `Channel Finance enables banks to provide financing to channel partners, dealers, and franchisees.

Key features:
- Dealer financing programs
- Franchise financing solutions
- Channel credit programs
- Partner relationship management

Risk management considerations:
- Credit assessment of channel partners
- Collateral management
- Monitoring of channel performance
- Default risk mitigation strategies`,
		},
		{
			domain: domain.GlobalTradeFinance,
			title:  "Global Trade Finance Fundamentals",
			source: "Global Trade Finance Handbook",
			content: `Global Trade Finance facilitates international trade through various financial instruments.

Primary instruments:
- Letters of Credit (LC): Payment guarantees for international transactions
- Documentary Collections: Trade finance with document control
- Trade guarantees: Performance and payment guarantees
- Export/Import financing: Working capital for international trade

Regulatory considerations:
- International trade regulations
- Sanctions compliance
- Anti-money laundering (AML) requirements
- Know Your Customer (KYC) procedures`,
		},
		{
			domain: domain.RiskManagement,
			title:  "Risk Management Framework",
			source: "Risk Management Policy",
			content: `Comprehensive risk management is essential for banking operations.

Risk categories:
- Credit risk: Default risk on loans and advances
- Market risk: Interest rate, currency, and commodity price risks
- Operational risk: Internal processes, systems, and external events
- Liquidity risk: Ability to meet financial obligations

Risk mitigation strategies:
- Diversification of portfolio
- Collateral management
- Stress testing
- Regular risk assessments`,
		},
		{
			domain: domain.Compliance,
			title:  "Banking Compliance Requirements",
			source: "Compliance Manual",
			content: `Banking compliance ensures adherence to regulatory requirements and industry standards.

Key compliance areas:
- Anti-Money Laundering (AML): Detection and prevention of money laundering
- Know Your Customer (KYC): Customer identification and verification
- Basel III: Capital adequacy and liquidity requirements
- GDPR: Data protection and privacy regulations

Compliance monitoring:
- Regular audits and assessments
- Automated monitoring systems
- Staff training programs
- Regulatory reporting`,
		},
		{
			domain: domain.CustomerService,
			title:  "Customer Service Excellence",
			source: "Customer Service Standards",
			content: `Exceptional customer service is crucial for banking success.

Service principles:
- Customer-centric approach
- Personalized solutions
- Proactive communication
- Continuous improvement

Digital transformation:
- Online banking platforms
- Mobile applications
- AI-powered chatbots
- Omnichannel experience

Service metrics:
- Customer satisfaction scores
- Response times
- Resolution rates
- Net Promoter Score (NPS)`,
		},
	}
}
