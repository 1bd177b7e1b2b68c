package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/schema"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

// schemaFile is the YAML form of a dynamic schema:
//
//	name: billing
//	properties:
//	  server.port: Int
//	  server.hosts: List<String>
//	defaults:
//	  server.port: 8080
type schemaFile struct {
	Name       string               `yaml:"name"`
	Properties yaml.Node            `yaml:"properties"`
	Defaults   map[string]yaml.Node `yaml:"defaults"`
}

func loadSchema(path string) (*schema.Contract[*schema.Instance], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	if sf.Name == "" {
		sf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	props, err := sf.properties()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return schema.Dynamic(sf.Name, props...)
}

func (sf *schemaFile) properties() ([]schema.Property, error) {
	if sf.Properties.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("properties must be a map of path to type")
	}

	var (
		props []schema.Property
		seen  = make(map[string]bool)
	)

	content := sf.Properties.Content
	for i := 0; i+1 < len(content); i += 2 {
		path, text := content[i].Value, content[i+1].Value

		t, err := typedesc.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", path, err)
		}

		var opts []schema.Option

		if def, ok := sf.Defaults[path]; ok {
			n, err := node.FromYAML(&def)
			if err != nil {
				return nil, fmt.Errorf("default of %s: %w", path, err)
			}

			opts = append(opts, schema.WithDefault(n))
		}

		seen[path] = true
		props = append(props, schema.TypedProp(path, path, t, opts...))
	}

	for path := range sf.Defaults {
		if !seen[path] {
			return nil, fmt.Errorf("default for undeclared property %s", path)
		}
	}

	return props, nil
}
