package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Set for a key that is not a config setting.
var ErrUnknownKey = errors.New("unknown config key")

// Set updates one dotted key (e.g. "storage.backend") in the config file.
// Comments and formatting elsewhere are preserved by editing the yaml.Node
// tree. Missing parent mappings are created. The file is written atomically.
func Set(configPath, key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path comes from user config
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	valueNode, err := scalarNode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	node := doc.Content[0]
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := mappingValue(node, part)
		if child == nil || child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode}
			setMappingValue(node, part, child)
		}
		node = child
	}
	last := parts[len(parts)-1]
	if existing := mappingValue(node, last); existing != nil && existing.Kind == yaml.ScalarNode {
		// Keep the trailing comment on "backend: flatfile  # ..." lines.
		valueNode.LineComment = existing.LineComment
	}
	setMappingValue(node, last, valueNode)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// scalarNode encodes value as a bool, number or string scalar.
func scalarNode(value string) (*yaml.Node, error) {
	var typed any = value
	if value == "true" || value == "false" {
		typed = value == "true"
	} else if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		typed = i
	} else if f, err := strconv.ParseFloat(value, 64); err == nil {
		typed = f
	}
	var n yaml.Node
	if err := n.Encode(typed); err != nil {
		return nil, err
	}
	return &n, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".registrar.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Keys returns every settable dotted key in declaration order.
func Keys() []string {
	return []string{
		"data_dir",
		"seed_demo",
		"auto_refresh",
		"auto_refresh_debounce",
		"storage.backend",
		"storage.sqlite_path",
		"storage.cache_ttl",
		"log.file",
		"log.level",
		"ui.currency",
		"ui.plain",
		"ui.theme.muted",
		"ui.theme.error",
		"ui.theme.success",
		"tracing.enabled",
		"tracing.exporter",
		"tracing.file_path",
		"tracing.otlp_endpoint",
		"tracing.sample_rate",
		"tracing.service_name",
	}
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	return slices.Contains(Keys(), key)
}
