// Package payload loads message and twin documents from YAML or JSON.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the file at path and decodes it based on its extension.
func Load(path string) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("payload file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open payload file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes data as YAML or JSON. An empty or unknown ext tries each
// decoder in turn.
func Parse(data []byte, ext string) (any, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "json", ext: ".json", fn: json.Unmarshal},
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
	}

	known := false
	for _, d := range decoders {
		if ext == d.ext {
			known = true
		}
	}

	var lastErr error
	for _, d := range decoders {
		if known && ext != d.ext {
			continue
		}
		var out any
		if err := d.fn(data, &out); err != nil {
			lastErr = fmt.Errorf("decode %s payload: %w", d.name, err)
			continue
		}
		return normalize(out), nil
	}
	if lastErr == nil {
		lastErr = errors.New("payload format not recognized (expected YAML or JSON)")
	}
	return nil, lastErr
}

// ParseInline accepts a literal JSON document. Anything that is not valid
// JSON is sent as a plain string message.
func ParseInline(s string) any {
	trimmed := strings.TrimSpace(s)
	var out any
	if trimmed != "" && json.Unmarshal([]byte(trimmed), &out) == nil {
		return out
	}
	return s
}

// normalize rewrites map[any]any nodes into map[string]any so the result
// can be re-encoded as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
