// Package config loads the monitor configuration from a YAML file or from
// command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"riesgopais/internal/domain"
)

const (
	DefaultSymbol            = "AL30D.BA"
	DefaultUpdateInterval    = 60 * time.Second
	DefaultAlertThresholdBps = 2500.0
	DefaultListenAddr        = ":8080"
	DefaultLiveTTL           = 60 * time.Second
	DefaultHistoryTTL        = 600 * time.Second
	DefaultRequestTimeout    = 10 * time.Second

	minUpdateInterval = 30 * time.Second
	maxUpdateInterval = 600 * time.Second
)

// Config is the resolved monitor configuration.
type Config struct {
	Symbol            string
	Preference        domain.Preference
	ManualPrice       decimal.Decimal
	CustomURL         string
	UpdateInterval    time.Duration
	AlertThresholdBps float64
	ListenAddr        string
	LiveTTL           time.Duration
	HistoryTTL        time.Duration
	RequestTimeout    time.Duration
	WALDir            string
}

// FileConfig mirrors the YAML layout; the setup wizard writes this shape.
// Durations are strings ("60s", "2m") parsed with time.ParseDuration.
type FileConfig struct {
	Symbol            string  `yaml:"symbol"`
	Preference        string  `yaml:"preference"`
	ManualPrice       string  `yaml:"manual_price,omitempty"`
	CustomURL         string  `yaml:"custom_url,omitempty"`
	UpdateInterval    string  `yaml:"update_interval,omitempty"`
	AlertThresholdBps float64 `yaml:"alert_threshold_bps,omitempty"`
	ListenAddr        string  `yaml:"listen_addr,omitempty"`
	LiveTTL           string  `yaml:"live_ttl,omitempty"`
	HistoryTTL        string  `yaml:"history_ttl,omitempty"`
	RequestTimeout    string  `yaml:"request_timeout,omitempty"`
	WALDir            string  `yaml:"wal_dir,omitempty"`
}

// Get parses flags and, when --config is given, the YAML file.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	symbol := flag.String("symbol", DefaultSymbol, "bond ticker, example: AL30D.BA")
	preference := flag.String("preference", string(domain.PreferenceAuto), "source preference: auto, api, rava, iol, manual, custom")
	manualPrice := flag.String("manualprice", "", "fixed price used by the manual preference")
	customURL := flag.String("customurl", "", "page scanned by the custom preference")
	updateInterval := flag.Duration("updateinterval", DefaultUpdateInterval, "dashboard refresh interval (30s to 10m)")
	alertThreshold := flag.Float64("alertthreshold", DefaultAlertThresholdBps, "alert threshold in basis points")
	listenAddr := flag.String("listen", DefaultListenAddr, "dashboard listen address")
	flag.Parse()

	if *configPath != "" {
		return fromYaml(*configPath)
	}

	fc := FileConfig{
		Symbol:            *symbol,
		Preference:        *preference,
		ManualPrice:       *manualPrice,
		CustomURL:         *customURL,
		UpdateInterval:    updateInterval.String(),
		AlertThresholdBps: *alertThreshold,
		ListenAddr:        *listenAddr,
	}
	return fc.resolve()
}

func fromYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc FileConfig
	if err := yaml.Unmarshal(f, &fc); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}
	return fc.resolve()
}

func (fc FileConfig) resolve() (Config, error) {
	cfg := Config{
		Symbol:            fc.Symbol,
		CustomURL:         fc.CustomURL,
		AlertThresholdBps: fc.AlertThresholdBps,
		ListenAddr:        fc.ListenAddr,
		WALDir:            fc.WALDir,
	}

	var err error
	if cfg.UpdateInterval, err = parseDuration(fc.UpdateInterval, "update_interval", DefaultUpdateInterval); err != nil {
		return Config{}, err
	}
	if cfg.LiveTTL, err = parseDuration(fc.LiveTTL, "live_ttl", DefaultLiveTTL); err != nil {
		return Config{}, err
	}
	if cfg.HistoryTTL, err = parseDuration(fc.HistoryTTL, "history_ttl", DefaultHistoryTTL); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = parseDuration(fc.RequestTimeout, "request_timeout", DefaultRequestTimeout); err != nil {
		return Config{}, err
	}

	if cfg.Symbol == "" {
		cfg.Symbol = DefaultSymbol
	}
	if cfg.UpdateInterval < minUpdateInterval || cfg.UpdateInterval > maxUpdateInterval {
		return Config{}, fmt.Errorf("update_interval %s out of range [%s, %s]",
			cfg.UpdateInterval, minUpdateInterval, maxUpdateInterval)
	}
	if cfg.AlertThresholdBps == 0 {
		cfg.AlertThresholdBps = DefaultAlertThresholdBps
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	prefStr := fc.Preference
	if prefStr == "" {
		prefStr = string(domain.PreferenceAuto)
	}
	pref, err := domain.ParsePreference(prefStr)
	if err != nil {
		return Config{}, err
	}
	cfg.Preference = pref

	if fc.ManualPrice != "" {
		price, err := decimal.NewFromString(fc.ManualPrice)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'manual_price' param (correct format is 34.20): %w", err)
		}
		if !price.IsPositive() {
			return Config{}, fmt.Errorf("'manual_price' must be positive, got %s", price)
		}
		cfg.ManualPrice = price
	}

	if cfg.Preference == domain.PreferenceManual && cfg.ManualPrice.IsZero() {
		return Config{}, fmt.Errorf("preference 'manual' requires manual_price")
	}
	if cfg.Preference == domain.PreferenceCustom && cfg.CustomURL == "" {
		return Config{}, fmt.Errorf("preference 'custom' requires custom_url")
	}

	return cfg, nil
}

func parseDuration(raw, name string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("incorrect '%s' param (correct format is 60s): %w", name, err)
	}
	return d, nil
}
