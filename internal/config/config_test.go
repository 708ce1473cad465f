package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "BAR_KG", "PLATES_KG", "INVENTORY",
		"COMBINATION_LIMIT", "PAIRING_LIMIT", "MAX_TOTAL_KG", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if !cfg.BarKg.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20 kg bar, got %s", cfg.BarKg)
	}
	if len(cfg.PlatesKg) != 8 {
		t.Fatalf("expected 8 default plates, got %d", len(cfg.PlatesKg))
	}
	if cfg.InventoryTotals["25"] != 2 || cfg.InventoryTotals["0.5"] != 8 {
		t.Fatalf("unexpected default inventory: %v", cfg.InventoryTotals)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.CombinationLimit != 800 || cfg.PairingLimit != 500 {
		t.Fatalf("unexpected solver limits: %d/%d", cfg.CombinationLimit, cfg.PairingLimit)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to be enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("BAR_KG", "15")
	t.Setenv("PLATES_KG", "20, 10 , 5")
	t.Setenv("INVENTORY", "20=2,10=4,5=4")
	t.Setenv("PAIRING_LIMIT", "50")

	cfg, err := Load(&CLIOverrides{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if !cfg.BarKg.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected 15 kg bar, got %s", cfg.BarKg)
	}
	if len(cfg.PlatesKg) != 3 {
		t.Fatalf("unexpected plates: %v", cfg.PlatesKg)
	}
	if cfg.InventoryTotals["10"] != 4 {
		t.Fatalf("unexpected inventory: %v", cfg.InventoryTotals)
	}
	if cfg.PairingLimit != 50 {
		t.Fatalf("expected pairing limit 50, got %d", cfg.PairingLimit)
	}
}

func TestLoadMaxTotalKgSources(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAX_TOTAL_KG", "250.5")

		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !cfg.MaxTotalKg.Equal(decimal.RequireFromString("250.5")) {
			t.Fatalf("expected max total from env, got %s", cfg.MaxTotalKg)
		}
	})

	t.Run("invalid env is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAX_TOTAL_KG", "-5")

		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !cfg.MaxTotalKg.Equal(decimal.NewFromInt(defaultMaxTotalKg)) {
			t.Fatalf("expected default max total, got %s", cfg.MaxTotalKg)
		}
	})

	t.Run("CLI beats YAML and env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAX_TOTAL_KG", "300")
		path := writeConfigFile(t, "max_total_kg: 400\n")
		cli := "500"

		cfg, err := Load(&CLIOverrides{ConfigFile: path, MaxTotalKg: &cli})
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !cfg.MaxTotalKg.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("expected CLI max total, got %s", cfg.MaxTotalKg)
		}
	})

	t.Run("bad CLI value", func(t *testing.T) {
		clearEnv(t)
		cli := "a lot"
		if _, err := Load(&CLIOverrides{MaxTotalKg: &cli}); err == nil {
			t.Fatalf("expected error for max total weight")
		}
	})
}

func TestLoadYAMLWithCLIPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := writeConfigFile(t, `
port: "6000"
bar_kg: 10
plates_kg: [20, 2.5]
inventory:
  "20": 6
  "2.5": 2
combination_limit: 100
enable_request_logging: false
shutdown_grace_period: 3s
rate_limit:
  rps: 0
`)
	cliPort := "8088"
	cfg, err := Load(&CLIOverrides{ConfigFile: path, Port: &cliPort})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8088" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if !cfg.BarKg.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected YAML bar weight, got %s", cfg.BarKg)
	}
	if len(cfg.PlatesKg) != 2 || !cfg.PlatesKg[1].Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected plates: %v", cfg.PlatesKg)
	}
	if cfg.InventoryTotals["20"] != 6 {
		t.Fatalf("unexpected inventory: %v", cfg.InventoryTotals)
	}
	if cfg.CombinationLimit != 100 {
		t.Fatalf("expected combination limit 100, got %d", cfg.CombinationLimit)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled by YAML")
	}
	if cfg.ShutdownGracePeriod != 3*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadRejectsInvalidConfiguration(t *testing.T) {
	t.Run("odd inventory", func(t *testing.T) {
		clearEnv(t)
		raw := "25=3"
		if _, err := Load(&CLIOverrides{InventoryStr: &raw}); err == nil {
			t.Fatalf("expected error for odd inventory")
		}
	})

	t.Run("inventory for unknown plate", func(t *testing.T) {
		clearEnv(t)
		plates := "20,10"
		if _, err := Load(&CLIOverrides{PlatesStr: &plates}); err == nil {
			t.Fatalf("expected error when default inventory names plates that were removed")
		}
	})

	t.Run("bad bar weight", func(t *testing.T) {
		clearEnv(t)
		bar := "heavy"
		if _, err := Load(&CLIOverrides{BarKg: &bar}); err == nil {
			t.Fatalf("expected error for bar weight")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}

func TestParsePlates(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := parsePlates("25, 2.5,0.5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 || !got[2].Equal(decimal.RequireFromString("0.5")) {
			t.Fatalf("unexpected plates: %v", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := parsePlates(" , "); err == nil {
			t.Fatalf("expected error for empty string")
		}
		if _, err := parsePlates("5,a"); err == nil {
			t.Fatalf("expected error for invalid number")
		}
		if _, err := parsePlates("5,-1"); err == nil {
			t.Fatalf("expected error for negative plate")
		}
	})
}

func TestParseInventory(t *testing.T) {
	got, err := parseInventory("25=2, 2.5=8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["25"] != 2 || got["2.5"] != 8 {
		t.Fatalf("unexpected inventory: %v", got)
	}

	if _, err := parseInventory("25=two"); err == nil {
		t.Fatalf("expected error for non-numeric count")
	}
	if _, err := parseInventory(","); err == nil {
		t.Fatalf("expected error for empty inventory")
	}
}
