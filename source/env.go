package source

import (
	"os"
	"slices"
	"strings"

	"github.com/Sparky983/warp-config-sub000/node"
)

// Env returns a source reading environment variables named PREFIX_KEY. A
// double underscore separates path segments and keys are lowercased, so
// APP_DATABASE__MAX_CONNS=5 sets database.max_conns. A nil environ reads
// os.Environ at load time.
func Env(prefix string, environ []string) Source {
	return Func(func() (node.Node, error) {
		vars := environ
		if vars == nil {
			vars = os.Environ()
		}

		return envNode(prefix, vars)
	})
}

func envNode(prefix string, environ []string) (node.Node, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}

	vars := slices.Clone(environ)
	slices.Sort(vars)

	t := newTree()

	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}

		path, ok := envPath(strings.TrimPrefix(name, prefix))
		if !ok {
			continue
		}

		if err := t.set(path, node.Scalar(value)); err != nil {
			return nil, err
		}
	}

	if t.empty() {
		return nil, nil
	}

	return t.build(), nil
}

func envPath(name string) ([]string, bool) {
	if name == "" {
		return nil, false
	}

	segments := strings.Split(strings.ToLower(name), "__")
	if slices.Contains(segments, "") {
		return nil, false
	}

	return segments, true
}
