package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/registrar/pkg/adapter"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.True(t, settings.Browser.IsHeadless())
	assert.Equal(t, 30*time.Second, settings.Browser.NavigateTimeout())
	assert.Empty(t, settings.Adapters)
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte(`
browser:
  headless: false
  navigate_timeout_seconds: 10
adapters:
  active-recreation:
    min_form_score: 25
    settle_delay_ms: 3000
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.False(t, settings.Browser.IsHeadless())
	assert.Equal(t, 10*time.Second, settings.Browser.NavigateTimeout())

	profile := adapter.Profile{AdapterName: "active-recreation", MinFormScore: 15}
	settings.ApplyTo(&profile)
	assert.Equal(t, 25, profile.MinFormScore)
	assert.Equal(t, 3*time.Second, profile.SettleDelay)

	// Unlisted adapters are untouched.
	other := adapter.Profile{AdapterName: "library-events", MinFormScore: 5}
	settings.ApplyTo(&other)
	assert.Equal(t, 5, other.MinFormScore)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [not: a map"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	score := 40
	settings := Default()
	settings.Adapters = map[string]AdapterSettings{
		"ticketed-venue": {MinFormScore: &score},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, loaded.Adapters, "ticketed-venue")
	require.NotNil(t, loaded.Adapters["ticketed-venue"].MinFormScore)
	assert.Equal(t, 40, *loaded.Adapters["ticketed-venue"].MinFormScore)
}
