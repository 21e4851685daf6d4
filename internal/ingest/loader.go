package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a document summary file (YAML or JSON) and returns the
// parsed Summary. Format is detected by extension (.yaml/.yml/.json) or by
// content (first non-whitespace char).
func LoadFromPath(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a summary from bytes. ext is the file extension for format
// hint; empty = detect from content.
func Load(data []byte, ext string) (*Summary, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		var s Summary
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse summary yaml: %w", err)
		}
		return &s, nil
	case ".json":
		var s Summary
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse summary json: %w", err)
		}
		return &s, nil
	}
	// Detect: try JSON first (starts with {), else YAML.
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var s Summary
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse summary json: %w", err)
		}
		return &s, nil
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse summary yaml: %w", err)
	}
	return &s, nil
}
