// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"carvel.dev/liquid/pkg/orderedmap"
	"carvel.dev/liquid/pkg/value"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadContextFile reads the data a template renders against. An empty path
// yields an empty context.
func LoadContextFile(path string) (*value.Object, error) {
	if len(path) == 0 {
		return value.NewEmptyObject(), nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Reading context file '%s': %w", path, err)
	}

	obj, err := ParseContext(contents, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("Parsing context file '%s': %w", path, err)
	}
	return obj, nil
}

// ParseContext decodes YAML, JSON or TOML (chosen by ext) into an Object.
// YAML and JSON mappings keep their key order; TOML tables are sorted.
func ParseContext(contents []byte, ext string) (*value.Object, error) {
	var data interface{}
	var err error

	switch strings.ToLower(ext) {
	case ".toml":
		data, err = parseTOML(contents)
	case ".yaml", ".yml", ".json":
		data, err = parseYAML(contents)
	default:
		return nil, fmt.Errorf("Unsupported context file extension '%s' (expected .yaml, .yml, .json or .toml)", ext)
	}
	if err != nil {
		return nil, err
	}

	return value.NewGoValue(data).AsObject()
}

func parseTOML(contents []byte) (interface{}, error) {
	var data map[string]interface{}
	if _, err := toml.Decode(string(contents), &data); err != nil {
		return nil, err
	}
	return orderedmap.Conversion{Object: data}.FromUnorderedMaps(), nil
}

func parseYAML(contents []byte) (interface{}, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(node.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)

	case yaml.MappingNode:
		result := orderedmap.NewMap[interface{}]()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: expected scalar mapping key", key.Line)
			}
			item, err := fromYAMLNode(val)
			if err != nil {
				return nil, err
			}
			result.Set(key.Value, item)
		}
		return result, nil

	case yaml.SequenceNode:
		result := make([]interface{}, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromYAMLNode(child)
			if err != nil {
				return nil, err
			}
			result = append(result, item)
		}
		return result, nil

	default:
		var scalar interface{}
		if err := node.Decode(&scalar); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return scalar, nil
	}
}
