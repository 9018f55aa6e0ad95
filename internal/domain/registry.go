// Package domain defines the closed set of banking knowledge domains and
// the registry that validates and describes them.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownDomain is returned when a domain identifier is not registered.
var ErrUnknownDomain = errors.New("unknown domain")

// ID identifies a banking knowledge domain.
type ID string

// Registered domain identifiers.
const (
	DistributionFinance ID = "distribution_finance"
	ChannelFinance      ID = "channel_finance"
	GlobalTradeFinance  ID = "global_trade_finance"
	RiskManagement      ID = "risk_management"
	Compliance          ID = "compliance"
	CustomerService     ID = "customer_service"
)

// Domain is one subject-matter area with its own expert persona and
// vector collection. Immutable after registry construction.
type Domain struct {
	// ID is the stable identifier, also used in collection names.
	ID ID

	// Label is the human-readable display name.
	Label string

	// Description summarizes the domain's coverage. The router's relevance
	// mode scores queries against this text.
	Description string

	// Persona is the expert instruction template prepended to every
	// generation call for this domain.
	Persona string
}

// Collection returns the vector collection name for this domain.
func (d Domain) Collection() string {
	return "knowledge_" + string(d.ID)
}

// Registry is the static catalog of supported domains. It is built once at
// process start and never mutated afterwards.
type Registry struct {
	domains map[ID]Domain
	order   []ID
}

// NewRegistry returns a registry containing the built-in banking domains.
func NewRegistry() *Registry {
	return newRegistry(builtinDomains())
}

// newRegistry builds a registry from an explicit domain list. Used by tests
// to construct small registries.
func newRegistry(domains []Domain) *Registry {
	r := &Registry{domains: make(map[ID]Domain, len(domains))}
	for _, d := range domains {
		if _, dup := r.domains[d.ID]; dup {
			continue
		}
		r.domains[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r
}

// NewTestRegistry builds a registry from the given domains. Intended for
// tests that need a reduced or synthetic domain set.
func NewTestRegistry(domains ...Domain) *Registry {
	return newRegistry(domains)
}

// Get returns the domain for id, or ErrUnknownDomain.
func (r *Registry) Get(id ID) (Domain, error) {
	d, ok := r.domains[id]
	if !ok {
		return Domain{}, fmt.Errorf("%w: %q", ErrUnknownDomain, id)
	}
	return d, nil
}

// Resolve parses and validates a raw identifier string.
func (r *Registry) Resolve(raw string) (Domain, error) {
	return r.Get(ID(strings.ToLower(strings.TrimSpace(raw))))
}

// All returns every registered domain in registration order.
func (r *Registry) All() []Domain {
	out := make([]Domain, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.domains[id])
	}
	return out
}

// IDs returns every registered identifier, sorted for stable output.
func (r *Registry) IDs() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of registered domains.
func (r *Registry) Len() int {
	return len(r.domains)
}
