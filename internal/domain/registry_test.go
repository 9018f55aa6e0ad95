package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	d, err := r.Get(GlobalTradeFinance)
	require.NoError(t, err)
	assert.Equal(t, "Global Trade Finance", d.Label)
	assert.NotEmpty(t, d.Persona)
	assert.Equal(t, "knowledge_global_trade_finance", d.Collection())

	_, err = r.Get("crypto_lending")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		raw     string
		wantID  ID
		wantErr bool
	}{
		{name: "exact", raw: "risk_management", wantID: RiskManagement},
		{name: "mixed case and whitespace", raw: "  Compliance ", wantID: Compliance},
		{name: "unknown", raw: "nonexistent_domain", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Resolve(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDomain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, d.ID)
		})
	}
}

func TestRegistryAll(t *testing.T) {
	r := NewRegistry()

	all := r.All()
	require.Len(t, all, 6)
	assert.Equal(t, 6, r.Len())

	// Registration order is stable.
	assert.Equal(t, DistributionFinance, all[0].ID)
	assert.Equal(t, CustomerService, all[5].ID)

	for _, d := range all {
		assert.NotEmpty(t, d.Description, "domain %s has no description", d.ID)
		assert.NotEmpty(t, d.Persona, "domain %s has no persona", d.ID)
	}
}

func TestNewTestRegistryDropsDuplicates(t *testing.T) {
	r := NewTestRegistry(
		Domain{ID: "a", Label: "A"},
		Domain{ID: "a", Label: "shadowed"},
		Domain{ID: "b", Label: "B"},
	)
	require.Equal(t, 2, r.Len())

	d, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "A", d.Label)
}
