package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{BaseURL: "https://api.groq.com/openai/v1", Model: "llama3-8b-8192"}},
		{name: "missing base url", cfg: Config{Model: "m"}, wantErr: true},
		{name: "missing model", cfg: Config{BaseURL: "https://api.groq.com/openai/v1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewOpenAIBackend(t *testing.T) {
	b, err := NewOpenAIBackend(Config{
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama3-8b-8192",
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	require.NotNil(t, b)

	_, err = NewOpenAIBackend(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	b, err := NewOpenAIBackend(Config{
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama3-8b-8192",
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	_, err = b.Generate(context.Background(), "persona", "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
