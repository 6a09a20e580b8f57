package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/dgraph/internal/dgsocket"
	"github.com/vk/dgraph/internal/fsutil"
	"github.com/vk/dgraph/internal/graph"
)

// loadDeclarations reads every JSON declaration file reachable from paths -
// a path may name a single file or a directory, in which case every
// ".json" file beneath it is loaded - and returns their combined, decoded
// declarations in path-then-file order.
func loadDeclarations(paths []string) ([]graph.Declaration, error) {
	var out []graph.Declaration
	for _, p := range paths {
		files, err := expandJSONPaths(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			decls, err := decodeDeclarationFile(f)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", f, err)
			}
			out = append(out, decls...)
		}
	}
	return out, nil
}

func expandJSONPaths(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	return fsutil.FindFilesByExtension(p, ".json")
}

func decodeDeclarationFile(path string) ([]graph.Declaration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]graph.Declaration, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: each declaration must be a JSON object", filepath.Base(path))
		}
		out = append(out, graph.Declaration(m))
	}
	return out, nil
}

// resolveAsyncSockets turns every async-kind declaration's "socketSource"
// field - a JSON-serializable {url, namespace, event, insecureSkipVerify}
// object - into a live "promise" Deferred backed by a socket.io connection,
// since the async node kind itself only accepts a Deferred it cannot
// decode from JSON. Declarations without "socketSource" are left alone.
func resolveAsyncSockets(decls []graph.Declaration) error {
	for _, d := range decls {
		if d.Type() != string(graph.KindAsync) {
			continue
		}
		raw, ok := d["socketSource"]
		if !ok {
			continue
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("node %q: 'socketSource' must be an object", d.Name())
		}
		src := dgsocket.Source{
			URL:       stringField(m, "url"),
			Namespace: stringField(m, "namespace"),
			Event:     stringField(m, "event"),
		}
		if b, ok := m["insecureSkipVerify"].(bool); ok {
			src.InsecureSkipVerify = b
		}
		if src.URL == "" || src.Event == "" {
			return fmt.Errorf("node %q: 'socketSource' requires 'url' and 'event'", d.Name())
		}

		deferred, err := dgsocket.Listen(src)
		if err != nil {
			return fmt.Errorf("node %q: %w", d.Name(), err)
		}
		delete(d, "socketSource")
		d["promise"] = deferred
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// loadInputs reads path's JSON object into a plain input map, or returns an
// empty map when path is "".
func loadInputs(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs map[string]any
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}
