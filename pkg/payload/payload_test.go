package payload

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLTwinProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "twin.yaml")
	content := `
properties:
  desired:
    interval: 30
    modes: [eco, boost]
tags:
  1: numeric-key
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := json.Marshal(v); err != nil {
		t.Fatalf("decoded YAML must be JSON-serializable: %v", err)
	}
	doc := v.(map[string]any)
	desired := doc["properties"].(map[string]any)["desired"].(map[string]any)
	if desired["interval"] != 30 {
		t.Fatalf("interval = %#v", desired["interval"])
	}
	tags := doc["tags"].(map[string]any)
	if tags["1"] != "numeric-key" {
		t.Fatalf("tags = %#v", tags)
	}
}

func TestLoadJSONMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msg.json")
	if err := os.WriteFile(path, []byte(`{"temperature": 21.5}`), 0o600); err != nil {
		t.Fatalf("write json: %v", err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.(map[string]any)["temperature"] != 21.5 {
		t.Fatalf("unexpected payload %#v", v)
	}
}

func TestParseRejectsBadJSONByExtension(t *testing.T) {
	if _, err := Parse([]byte("key: value"), ".json"); err == nil {
		t.Fatalf("expected JSON decode error")
	}
}

func TestParseUnknownExtensionFallsBack(t *testing.T) {
	v, err := Parse([]byte("key: value"), ".txt")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.(map[string]any)["key"] != "value" {
		t.Fatalf("unexpected payload %#v", v)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestParseInline(t *testing.T) {
	if v := ParseInline(`{"a":1}`); v.(map[string]any)["a"] != float64(1) {
		t.Fatalf("inline JSON not decoded: %#v", v)
	}
	if v := ParseInline("hello device"); v != "hello device" {
		t.Fatalf("plain text should pass through, got %#v", v)
	}
}
