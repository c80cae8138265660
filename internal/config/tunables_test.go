package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTunablesAreValid(t *testing.T) {
	require.NoError(t, DefaultTunables().Validate())
}

func TestLoadTunablesDefaults(t *testing.T) {
	tunables, err := LoadTunables("")
	require.NoError(t, err)
	assert.Equal(t, 50.0, tunables.Thresholds.Regular)
	assert.Equal(t, 1, tunables.Windows.FirstMinHours)
	assert.Equal(t, 180, tunables.ReportingRetentionDays)
	assert.Contains(t, tunables.Offers, "vip")
}

func TestLoadTunablesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := []byte(`
thresholds:
  regular: 40
  loyal: 120
  vip: 250
windows:
  first_min_hours: 2
  first_max_hours: 12
  second_min_hours: 24
  second_max_hours: 48
trending_window_days: 14
fallback_replies:
  - "Come again?"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	tunables, err := LoadTunables(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, tunables.Thresholds.Regular)
	assert.Equal(t, 2, tunables.Windows.FirstMinHours)
	assert.Equal(t, 14, tunables.TrendingWindowDays)
	assert.Equal(t, []string{"Come again?"}, tunables.FallbackReplies)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10.0, tunables.Weights.OrderCount)
}

func TestLoadTunablesRejectsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := []byte(`
thresholds:
  regular: 300
  loyal: 150
  vip: 100
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := LoadTunables(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	broken := DefaultTunables()
	broken.Windows.FirstMinHours = 24
	broken.Windows.FirstMaxHours = 1
	assert.Error(t, broken.Validate())

	broken = DefaultTunables()
	broken.FallbackReplies = nil
	assert.Error(t, broken.Validate())

	broken = DefaultTunables()
	broken.TrendingWindowDays = 0
	assert.Error(t, broken.Validate())
}
