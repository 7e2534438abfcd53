package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-webpage-translator/internal/config"
)

func TestCreateProviderKnownTypes(t *testing.T) {
	for _, name := range SupportedProviders() {
		p, err := CreateProvider(name, config.ProviderConfig{APIKey: "k"})
		require.NoError(t, err, name)
		require.NotNil(t, p, name)
	}
}

func TestCreateProviderCaseInsensitive(t *testing.T) {
	p, err := CreateProvider("OpenAI", config.ProviderConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.GetName())
}

func TestCreateProviderNoneAliasesRaw(t *testing.T) {
	p, err := CreateProvider("none", config.ProviderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "raw", p.GetName())
}

func TestCreateProviderUnknown(t *testing.T) {
	_, err := CreateProvider("babelfish", config.ProviderConfig{})
	assert.ErrorContains(t, err, "unsupported provider type")
}

func TestBuildRegistryRegistersConfiguredAndExtra(t *testing.T) {
	cfg := &config.Config{
		Providers: map[string]config.ProviderConfig{
			"openai": {APIKey: "k"},
			"deepl":  {APIKey: "k"},
		},
	}

	reg, err := BuildRegistry(cfg, "openai", "raw")
	require.NoError(t, err)

	assert.Equal(t, []string{"deepl", "openai", "raw"}, reg.List())

	p, err := reg.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.GetName())

	_, err = reg.Get("ollama")
	assert.ErrorContains(t, err, "not found")
}

func TestBuildRegistryUnknownConfiguredProvider(t *testing.T) {
	cfg := &config.Config{
		Providers: map[string]config.ProviderConfig{
			"babelfish": {},
		},
	}

	_, err := BuildRegistry(cfg)
	assert.ErrorContains(t, err, "unsupported provider type")
}
