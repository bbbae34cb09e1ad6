package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads configuration from a .yaml, .yml or .json file. The
// source_store path may reference environment variables ($HOME/fillkit.db).
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = FromYAML(data)
	case ".json":
		cfg, err = FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	if store := cfg.String(KeySourceStore, ""); store != "" {
		cfg.data[KeySourceStore] = os.ExpandEnv(store)
	}
	return cfg, nil
}

// FromYAML parses a YAML mapping into a Config. An empty document is an
// empty Config.
func FromYAML(data []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return New(nil), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("parse yaml: line %d: top level must be a mapping", root.Line)
	}

	var m map[string]any
	if err := root.Decode(&m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses a JSON object into a Config. Whole numbers decode as
// int so that max_depth reads the same as it does from YAML.
func FromJSON(data []byte) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil), nil
		}
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(numbers(m).(map[string]any)), nil
}

func numbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		for k, item := range val {
			val[k] = numbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = numbers(item)
		}
		return val
	}
	return v
}
