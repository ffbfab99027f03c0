package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is the position of the value that set a key.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // key -> position of the last file that set it
	Files   []string          // merged files, includes before their includer
}

var errUnknownKey = errors.New("unknown key")

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "termosd", "config.yaml"), nil
}

// Load reads the configuration from the standard location and returns the
// effective config the daemon runs with.
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

// LoadFromPath loads path and its includes. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{sources: map[string]Source{}, merged: map[string]bool{}}

	var raw RawConfig
	switch _, err := os.Stat(path); {
	case err == nil:
		if raw, err = l.load(path); err != nil {
			return nil, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, l.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader merges a config file with its includes. Each file is merged once;
// a file that includes one of the files currently being loaded is a cycle.
type loader struct {
	sources map[string]Source
	files   []string
	merged  map[string]bool
	chain   []string
}

func (l *loader) load(path string) (RawConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return RawConfig{}, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if slices.Contains(l.chain, abs) {
		return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), abs)
	}
	if l.merged[abs] {
		return RawConfig{}, nil
	}
	l.merged[abs] = true

	f, err := parseFile(abs)
	if err != nil {
		return RawConfig{}, err
	}

	l.chain = append(l.chain, abs)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	var out RawConfig
	for _, inc := range f.includes {
		targets, err := inc.targets(abs)
		if err != nil {
			return RawConfig{}, &ValidationError{Path: "include", Source: inc.src, Err: fmt.Errorf("%q: %w", inc.path, err)}
		}
		for _, target := range targets {
			incRaw, err := l.load(target)
			if err != nil {
				return RawConfig{}, err
			}
			out = out.merge(incRaw)
		}
	}

	// The including file wins over everything it includes.
	for key, src := range f.keys {
		l.sources[key] = src
	}
	l.files = append(l.files, abs)
	return out.merge(f.raw), nil
}

// locate fills in the file position of a validation failure on a key that
// some file set. Failures on defaulted keys stay unlocated.
func (l *loader) locate(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Source.Kind == "" {
		if src, ok := l.sources[verr.Path]; ok {
			verr.Source = src
		}
	}
	return err
}

type configFile struct {
	raw      RawConfig
	keys     map[string]Source
	includes []include
}

type include struct {
	path string
	src  Source
}

// parseFile decodes one file key by key so a bad value reports the line it
// sits on. Every key must be a known setting or "include".
func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}

	f := &configFile{keys: map[string]Source{}}
	if len(doc.Content) == 0 {
		return f, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ValidationError{Source: sourceAt(path, root), Err: errors.New("expected a mapping of settings")}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Value == "include" {
			incs, err := includesOf(path, val)
			if err != nil {
				return nil, err
			}
			f.includes = append(f.includes, incs...)
			continue
		}
		if !isKey(key.Value) {
			return nil, &ValidationError{Path: key.Value, Source: sourceAt(path, key), Err: errUnknownKey}
		}
		if _, dup := f.keys[key.Value]; dup {
			return nil, &ValidationError{Path: key.Value, Source: sourceAt(path, key), Err: errors.New("set more than once")}
		}
		pair := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{key, val}}
		if err := pair.Decode(&f.raw); err != nil {
			return nil, &ValidationError{Path: key.Value, Source: sourceAt(path, val), Err: err}
		}
		f.keys[key.Value] = sourceAt(path, val)
	}
	return f, nil
}

// includesOf accepts a single path or a list of paths.
func includesOf(file string, val *yaml.Node) ([]include, error) {
	items := []*yaml.Node{val}
	if val.Kind == yaml.SequenceNode {
		items = val.Content
	}
	out := make([]include, 0, len(items))
	for _, item := range items {
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" || item.Value == "" {
			return nil, &ValidationError{Path: "include", Source: sourceAt(file, item), Err: errors.New("must be a path or a list of paths")}
		}
		out = append(out, include{path: item.Value, src: sourceAt(file, item)})
	}
	return out, nil
}

// targets resolves the include relative to the including file. A directory
// expands to its *.yaml and *.yml files in name order.
func (inc include) targets(from string) ([]string, error) {
	path := inc.path
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
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
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	return files, nil
}

func sourceAt(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}
