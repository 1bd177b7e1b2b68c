package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
)

// Source produces one configuration layer.
type Source interface {
	// Load returns the layer, or nil when the source holds no configuration.
	Load() (node.Node, error)
}

// Func adapts a function to Source.
type Func func() (node.Node, error)

// Load calls f.
func (f Func) Load() (node.Node, error) { return f() }

// Of returns a source that always yields n.
func Of(n node.Node) Source {
	return Func(func() (node.Node, error) { return n, nil })
}

// YAML returns a source parsing data as a YAML document.
func YAML(data []byte) Source {
	return Func(func() (node.Node, error) { return node.ParseYAML(data) })
}

// JSON returns a source parsing data as a JSON document. JSON is read with
// the YAML decoder, which accepts it unchanged.
func JSON(data []byte) Source {
	return Func(func() (node.Node, error) {
		n, err := node.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}

		return n, nil
	})
}

// YAMLFile returns a source reading the YAML file at path on every load. A
// missing file holds no configuration.
func YAMLFile(path string) Source {
	return Func(func() (node.Node, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		n, err := node.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return n, nil
	})
}

// LoadAll loads every source in order. Every failure is collected into a
// *diagnostic.Errors, one "source[i]" group per failing source.
func LoadAll(sources []Source) ([]node.Node, error) {
	var (
		nodes = make([]node.Node, 0, len(sources))
		errs  []diagnostic.Error
	)

	for i, src := range sources {
		n, err := src.Load()
		if err != nil {
			errs = append(errs, diagnostic.NewGroup(fmt.Sprintf("source[%d]", i), diagnostic.New(err.Error())))
			continue
		}

		if n != nil {
			nodes = append(nodes, n)
		}
	}

	if len(errs) != 0 {
		return nil, diagnostic.Fail(errs...)
	}

	return nodes, nil
}
