package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Any key of the config file is a valid path, for example:
//
//	window.thickness
//	window.expanded_thickness.vertical
//	startup.edge
//	timer.default_seconds
//	log_level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	return value, res.SourceFor(path), nil
}

// lookupValue walks the YAML form of cfg so paths match the file keys exactly.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		next, ok := m[part]
		if !ok {
			if isOptionalKey(path) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		cur = next
	}
	return cur, nil
}

// Keys tagged omitempty vanish from the marshalled tree when unset.
func isOptionalKey(path string) bool {
	switch path {
	case "startup.x", "startup.y", "startup.edge", "notifications.icon", "log_file":
		return true
	}
	return false
}

// FormatSource renders src for CLI output.
func FormatSource(src Source) string {
	switch src.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
	default:
		return "default"
	}
}
