package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riesgopais/internal/domain"
)

func TestResolveDefaults(t *testing.T) {
	cfg, err := FileConfig{}.resolve()
	require.NoError(t, err)

	assert.Equal(t, DefaultSymbol, cfg.Symbol)
	assert.Equal(t, domain.PreferenceAuto, cfg.Preference)
	assert.Equal(t, DefaultUpdateInterval, cfg.UpdateInterval)
	assert.Equal(t, DefaultAlertThresholdBps, cfg.AlertThresholdBps)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultLiveTTL, cfg.LiveTTL)
	assert.Equal(t, DefaultHistoryTTL, cfg.HistoryTTL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestResolveIntervalBounds(t *testing.T) {
	_, err := FileConfig{UpdateInterval: "5s"}.resolve()
	assert.Error(t, err)

	_, err = FileConfig{UpdateInterval: "1h"}.resolve()
	assert.Error(t, err)

	_, err = FileConfig{UpdateInterval: "soon"}.resolve()
	assert.Error(t, err)

	cfg, err := FileConfig{UpdateInterval: "30s"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.UpdateInterval)
}

func TestResolvePreference(t *testing.T) {
	cfg, err := FileConfig{Preference: "rava"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, domain.PreferenceRava, cfg.Preference)

	_, err = FileConfig{Preference: "bloomberg"}.resolve()
	assert.Error(t, err)
}

func TestResolveManualPreferenceNeedsPrice(t *testing.T) {
	_, err := FileConfig{Preference: "manual"}.resolve()
	assert.Error(t, err)

	cfg, err := FileConfig{Preference: "manual", ManualPrice: "34.20"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "34.2", cfg.ManualPrice.String())

	_, err = FileConfig{Preference: "manual", ManualPrice: "-1"}.resolve()
	assert.Error(t, err)

	_, err = FileConfig{Preference: "manual", ManualPrice: "abc"}.resolve()
	assert.Error(t, err)
}

func TestResolveCustomPreferenceNeedsURL(t *testing.T) {
	_, err := FileConfig{Preference: "custom"}.resolve()
	assert.Error(t, err)

	cfg, err := FileConfig{Preference: "custom", CustomURL: "https://example.com/bond"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, domain.PreferenceCustom, cfg.Preference)
}

func TestFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`symbol: GD30D.BA
preference: iol
update_interval: 2m
alert_threshold_bps: 2000
listen_addr: ":9000"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := fromYaml(path)
	require.NoError(t, err)
	assert.Equal(t, "GD30D.BA", cfg.Symbol)
	assert.Equal(t, domain.PreferenceIOL, cfg.Preference)
	assert.Equal(t, 2*time.Minute, cfg.UpdateInterval)
	assert.Equal(t, 2000.0, cfg.AlertThresholdBps)
	assert.Equal(t, ":9000", cfg.ListenAddr)
}

func TestFromYamlMissingFile(t *testing.T) {
	_, err := fromYaml(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
