package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/plate-changer/internal/inventory"
	"github.com/eugenenazirov/plate-changer/internal/plates"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
	defaultMaxTotalKg     = 1000
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	LogLevel             string
	BarKg                decimal.Decimal
	PlatesKg             []decimal.Decimal
	InventoryTotals      map[string]int
	CombinationLimit     int
	PairingLimit         int
	MaxTotalKg           decimal.Decimal
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure. Pointers
// distinguish "absent" from zero values.
type yamlConfig struct {
	Port                 string         `yaml:"port"`
	LogLevel             string         `yaml:"log_level"`
	BarKg                *float64       `yaml:"bar_kg"`
	PlatesKg             []float64      `yaml:"plates_kg"`
	Inventory            map[string]int `yaml:"inventory"`
	CombinationLimit     int            `yaml:"combination_limit"`
	PairingLimit         int            `yaml:"pairing_limit"`
	MaxTotalKg           *float64       `yaml:"max_total_kg"`
	ShutdownGracePeriod  string         `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string         `yaml:"read_header_timeout"`
	WriteTimeout         string         `yaml:"write_timeout"`
	IdleTimeout          string         `yaml:"idle_timeout"`
	EnableRequestLogging *bool          `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit  `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	LogLevel       *string
	BarKg          *string
	PlatesStr      *string
	InventoryStr   *string
	MaxTotalKg     *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Catalogue builds the plate catalogue described by the configuration.
func (c Config) Catalogue() (inventory.Catalogue, error) {
	return inventory.NewCatalogue(c.BarKg, c.PlatesKg)
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		LogLevel:             defaultLogLevel,
		BarKg:                inventory.DefaultBarKg(),
		PlatesKg:             inventory.DefaultPlatesKg(),
		InventoryTotals:      inventory.DefaultTotals(),
		CombinationLimit:     plates.DefaultCombinationLimit,
		PairingLimit:         plates.DefaultPairingLimit,
		MaxTotalKg:           decimal.NewFromInt(defaultMaxTotalKg),
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.BarKg != nil {
		cfg.BarKg = decimal.NewFromFloat(*yamlCfg.BarKg)
	}

	if len(yamlCfg.PlatesKg) > 0 {
		cfg.PlatesKg = make([]decimal.Decimal, len(yamlCfg.PlatesKg))
		for i, kg := range yamlCfg.PlatesKg {
			cfg.PlatesKg[i] = decimal.NewFromFloat(kg)
		}
	}

	if len(yamlCfg.Inventory) > 0 {
		cfg.InventoryTotals = yamlCfg.Inventory
	}

	if yamlCfg.CombinationLimit > 0 {
		cfg.CombinationLimit = yamlCfg.CombinationLimit
	}

	if yamlCfg.PairingLimit > 0 {
		cfg.PairingLimit = yamlCfg.PairingLimit
	}

	if yamlCfg.MaxTotalKg != nil {
		cfg.MaxTotalKg = decimal.NewFromFloat(*yamlCfg.MaxTotalKg)
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if bar := strings.TrimSpace(os.Getenv("BAR_KG")); bar != "" {
		if value, err := decimal.NewFromString(bar); err == nil {
			cfg.BarKg = value
		}
	}

	if rawPlates := strings.TrimSpace(os.Getenv("PLATES_KG")); rawPlates != "" {
		if parsed, err := parsePlates(rawPlates); err == nil {
			cfg.PlatesKg = parsed
		}
	}

	if rawInventory := strings.TrimSpace(os.Getenv("INVENTORY")); rawInventory != "" {
		if totals, err := parseInventory(rawInventory); err == nil {
			cfg.InventoryTotals = totals
		}
	}

	if limit := strings.TrimSpace(os.Getenv("COMBINATION_LIMIT")); limit != "" {
		if value, err := strconv.Atoi(limit); err == nil && value > 0 {
			cfg.CombinationLimit = value
		}
	}

	if limit := strings.TrimSpace(os.Getenv("PAIRING_LIMIT")); limit != "" {
		if value, err := strconv.Atoi(limit); err == nil && value > 0 {
			cfg.PairingLimit = value
		}
	}

	if maxTotal := strings.TrimSpace(os.Getenv("MAX_TOTAL_KG")); maxTotal != "" {
		if value, err := decimal.NewFromString(maxTotal); err == nil && !value.IsNegative() {
			cfg.MaxTotalKg = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.BarKg != nil && *overrides.BarKg != "" {
		value, err := decimal.NewFromString(strings.TrimSpace(*overrides.BarKg))
		if err != nil {
			return fmt.Errorf("parse bar weight: %w", err)
		}
		cfg.BarKg = value
	}

	if overrides.PlatesStr != nil && *overrides.PlatesStr != "" {
		parsed, err := parsePlates(*overrides.PlatesStr)
		if err != nil {
			return fmt.Errorf("parse plates: %w", err)
		}
		cfg.PlatesKg = parsed
	}

	if overrides.InventoryStr != nil && *overrides.InventoryStr != "" {
		totals, err := parseInventory(*overrides.InventoryStr)
		if err != nil {
			return fmt.Errorf("parse inventory: %w", err)
		}
		cfg.InventoryTotals = totals
	}

	if overrides.MaxTotalKg != nil && *overrides.MaxTotalKg != "" {
		value, err := decimal.NewFromString(strings.TrimSpace(*overrides.MaxTotalKg))
		if err != nil {
			return fmt.Errorf("parse max total weight: %w", err)
		}
		cfg.MaxTotalKg = value
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.CombinationLimit <= 0 || cfg.PairingLimit <= 0 {
		return fmt.Errorf("combination and pairing limits must be positive")
	}
	if cfg.MaxTotalKg.IsNegative() {
		return fmt.Errorf("max total weight must be >= 0")
	}
	c, err := cfg.Catalogue()
	if err != nil {
		return err
	}
	if _, err := inventory.FromMap(c, cfg.InventoryTotals); err != nil {
		return fmt.Errorf("default inventory: %w", err)
	}
	return nil
}

// parsePlates parses a comma-separated list of plate weights in kilograms.
func parsePlates(raw string) ([]decimal.Decimal, error) {
	parts := strings.Split(raw, ",")
	out := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid plate weight %q", part)
		}
		if !value.IsPositive() {
			return nil, fmt.Errorf("plate weight must be positive, got %s", part)
		}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no plates provided")
	}
	return out, nil
}

// parseInventory parses "25=2,20=4" into plate totals keyed by label.
func parseInventory(raw string) (map[string]int, error) {
	assignments, err := inventory.ParseAssignments(raw)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, fmt.Errorf("no inventory entries provided")
	}
	out := make(map[string]int, len(assignments))
	for plate, rawCount := range assignments {
		count, err := inventory.ParseCount(rawCount)
		if err != nil {
			return nil, fmt.Errorf("inventory for %s kg %w", plate, err)
		}
		out[plate] = count
	}
	return out, nil
}
