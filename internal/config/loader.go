package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

// SourceFor reports where a YAML path got its value.
func (r *LoadResult) SourceFor(path string) Source {
	if r != nil {
		if src, ok := r.Sources[path]; ok {
			return src
		}
	}
	return Source{Kind: SourceDefault}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "remmeter", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath overlays the file at path (and anything it includes) on top of
// DefaultConfig and validates the result.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	sources := map[string]Source{}
	var files []string

	if exists, err := pathExists(path); err != nil {
		return nil, err
	} else if exists {
		seen := make(map[string]struct{})
		loaded, err := loadMerged(path, cfg, sources, seen, nil)
		if err != nil {
			return nil, err
		}
		files = loaded
	}

	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// fileDocument is one config file: the Config fields plus an optional include
// list. Decoding into a populated Config only overwrites keys present in the
// file, which is how later files override earlier ones.
type fileDocument struct {
	Include any    `yaml:"include,omitempty"`
	Config  Config `yaml:",inline"`
}

func loadMerged(path string, cfg *Config, sources map[string]Source, seen map[string]struct{}, stack []string) ([]string, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	for _, existing := range stack {
		if existing == canon {
			return nil, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(stack, " -> "), canon)
		}
	}
	if _, ok := seen[canon]; ok {
		return nil, nil
	}
	seen[canon] = struct{}{}

	data, err := os.ReadFile(canon)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", canon, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}

	var files []string
	for _, ref := range collectIncludeRefs(&doc, canon) {
		paths, err := expandInclude(canon, ref.Value)
		if err != nil {
			return nil, fmt.Errorf("%s:%d:%d: include %q: %w", ref.Source.File, ref.Source.Line, ref.Source.Column, ref.Value, err)
		}
		for _, incPath := range paths {
			incFiles, err := loadMerged(incPath, cfg, sources, seen, append(stack, canon))
			if err != nil {
				return nil, err
			}
			files = append(files, incFiles...)
		}
	}

	// Apply this file last (overrides includes).
	fd := fileDocument{Config: *cfg}
	if err := decodeStrictYAML(data, &fd); err != nil {
		return nil, fmt.Errorf("%s: %w", canon, err)
	}
	*cfg = fd.Config

	for p, src := range collectSources(&doc, canon) {
		if p == "include" || strings.HasPrefix(p, "include.") {
			continue
		}
		sources[p] = src
	}
	return append(files, canon), nil
}

type includeRef struct {
	Value  string
	Source Source
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return real, nil
}

func expandInclude(baseFile string, include string) ([]string, error) {
	path, err := resolvePathRelativeToFile(baseFile, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(ent.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, filepath.Join(path, ent.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func resolvePathRelativeToFile(baseFile string, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(include, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if include == "~" {
			include = home
		} else if strings.HasPrefix(include, "~/") {
			include = filepath.Join(home, include[2:])
		}
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(baseFile), include), nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	collectSourcesRec(node, file, "", out)
	return out
}

func collectSourcesRec(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		path := keyNode.Value
		if prefix != "" {
			path = prefix + "." + keyNode.Value
		}
		out[path] = Source{
			Kind:   SourceFile,
			File:   file,
			Line:   valNode.Line,
			Column: valNode.Column,
		}
		collectSourcesRec(valNode, file, path, out)
	}
}

func collectIncludeRefs(doc *yaml.Node, file string) []includeRef {
	if doc == nil {
		return nil
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		if keyNode.Value != "include" {
			continue
		}

		switch valNode.Kind {
		case yaml.ScalarNode:
			return []includeRef{{
				Value:  valNode.Value,
				Source: Source{Kind: SourceFile, File: file, Line: valNode.Line, Column: valNode.Column},
			}}
		case yaml.SequenceNode:
			refs := make([]includeRef, 0, len(valNode.Content))
			for _, item := range valNode.Content {
				if item.Kind != yaml.ScalarNode {
					continue
				}
				refs = append(refs, includeRef{
					Value:  item.Value,
					Source: Source{Kind: SourceFile, File: file, Line: item.Line, Column: item.Column},
				})
			}
			return refs
		default:
			return nil
		}
	}
	return nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil {
		return err
	}
	if verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
