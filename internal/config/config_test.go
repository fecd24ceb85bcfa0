package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HUB_NAME", "myhub")
	t.Setenv("SAS_TOKEN", "SharedAccessSignature sr=x")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"), true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HubName != "myhub" {
		t.Fatalf("HubName = %q", cfg.HubName)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("StorageType default = %q", cfg.StorageType)
	}
	if cfg.SnapshotTTL != 7*24*time.Hour {
		t.Fatalf("SnapshotTTL = %v", cfg.SnapshotTTL)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("HUB_NAME", "myhub")
	t.Setenv("SAS_TOKEN", "")

	_, err := load(filepath.Join(t.TempDir(), "missing.env"), true)
	if err == nil || !strings.Contains(err.Error(), "sas_token") {
		t.Fatalf("expected sas_token error, got %v", err)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HUB_NAME", "myhub")
	t.Setenv("SAS_TOKEN", "token")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	if _, err := load(filepath.Join(t.TempDir(), "missing.env"), true); err == nil {
		t.Fatalf("expected timeout validation error")
	}
}

func TestRedactedHidesToken(t *testing.T) {
	cfg := Config{SASToken: "secret"}
	if cfg.Redacted().SASToken == "secret" {
		t.Fatalf("token leaked")
	}
	if cfg.SASToken != "secret" {
		t.Fatalf("Redacted must not mutate the original")
	}
}

func TestLoadLocalSkipsHubCredentials(t *testing.T) {
	t.Setenv("HUB_NAME", "")
	t.Setenv("SAS_TOKEN", "")
	t.Setenv("STORAGE_TYPE", "bbolt")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"), false)
	if err != nil {
		t.Fatalf("load without hub credentials: %v", err)
	}
	if cfg.StorageType != "bbolt" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}

	if _, err := load(filepath.Join(t.TempDir(), "missing.env"), true); err == nil {
		t.Fatalf("hub commands must still require credentials")
	}
}
