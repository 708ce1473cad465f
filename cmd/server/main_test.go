package main

import (
	"testing"
)

func TestBuildOverridesSkipsUnsetFlags(t *testing.T) {
	overrides := buildOverrides("", "", "", "", "", "", "", -1, -1)

	if overrides.ConfigFile != "" {
		t.Fatalf("expected no config file, got %q", overrides.ConfigFile)
	}
	if overrides.Port != nil || overrides.LogLevel != nil || overrides.BarKg != nil ||
		overrides.PlatesStr != nil || overrides.InventoryStr != nil || overrides.MaxTotalKg != nil {
		t.Fatalf("expected string overrides to stay nil: %+v", overrides)
	}
	if overrides.RateLimitRPS != nil || overrides.RateLimitBurst != nil {
		t.Fatalf("expected rate limit overrides to stay nil")
	}
}

func TestBuildOverridesAppliesFlags(t *testing.T) {
	overrides := buildOverrides("config.yaml", "9000", "debug", "15", "20,10", "20=2,10=4", "600", 0, 0)

	if overrides.ConfigFile != "config.yaml" {
		t.Fatalf("unexpected config file %q", overrides.ConfigFile)
	}
	if overrides.Port == nil || *overrides.Port != "9000" {
		t.Fatalf("expected port override")
	}
	if overrides.LogLevel == nil || *overrides.LogLevel != "debug" {
		t.Fatalf("expected log level override")
	}
	if overrides.BarKg == nil || *overrides.BarKg != "15" {
		t.Fatalf("expected bar override")
	}
	if overrides.PlatesStr == nil || *overrides.PlatesStr != "20,10" {
		t.Fatalf("expected plates override")
	}
	if overrides.InventoryStr == nil || *overrides.InventoryStr != "20=2,10=4" {
		t.Fatalf("expected inventory override")
	}
	if overrides.MaxTotalKg == nil || *overrides.MaxTotalKg != "600" {
		t.Fatalf("expected max total override")
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 0 {
		t.Fatalf("expected zero rate to disable limiting")
	}
	if overrides.RateLimitBurst == nil || *overrides.RateLimitBurst != 0 {
		t.Fatalf("expected zero burst to disable limiting")
	}
}
