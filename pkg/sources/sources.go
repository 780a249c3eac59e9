// Package sources joins the locally defined test tables with the data
// sources declared in the YAML source map.
package sources

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConnectorKey marks a declared source as actively integrated.
	ConnectorKey = "connector"
	// DefaultDefinitionExt is the extension of table definition files.
	DefaultDefinitionExt = ".py"
)

// Source is one active data source with the tables the suites may load into it.
type Source struct {
	Tables []string       `json:"tables"`
	Config map[string]any `json:"config"`
}

// Catalog maps source name to its descriptor.
type Catalog map[string]Source

type options struct {
	ext   string
	order *[]string
}

// Option adjusts ListSources.
type Option func(*options)

// WithDefinitionExt overrides the table definition file extension.
func WithDefinitionExt(ext string) Option {
	return func(o *options) {
		if ext = strings.TrimSpace(ext); ext != "" {
			o.ext = ext
		}
	}
}

// WithOrder stores the kept source names, in declaration order, into dst.
func WithOrder(dst *[]string) Option {
	return func(o *options) { o.order = dst }
}

// ListSources reads the table definitions in tablesDir and the source map at
// configPath, and returns every source whose configuration has a connector.
// The result is built fresh on each call.
func ListSources(configPath, tablesDir string, opts ...Option) (Catalog, error) {
	o := options{ext: DefaultDefinitionExt}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	tables, err := TableNames(tablesDir, o.ext)
	if err != nil {
		return nil, err
	}

	names, configs, err := LoadSourceConfigs(configPath)
	if err != nil {
		return nil, err
	}

	catalog := make(Catalog, len(names))
	kept := make([]string, 0, len(names))
	for _, name := range names {
		cfg := configs[name]
		if cfg == nil {
			continue
		}
		if _, ok := cfg[ConnectorKey]; !ok {
			continue
		}
		catalog[name] = Source{
			Tables: append([]string(nil), tables...),
			Config: cfg,
		}
		kept = append(kept, name)
	}
	if o.order != nil {
		*o.order = kept
	}
	return catalog, nil
}

// TableNames lists dir in filename order and returns the name (up to the
// first dot) of every regular file ending in ext.
func TableNames(dir, ext string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("table definitions directory is empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read table definitions: %w", err)
	}

	tables := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		name, _, _ := strings.Cut(entry.Name(), ".")
		tables = append(tables, name)
	}
	return tables, nil
}

// LoadSourceConfigs parses the YAML source map at path. It returns the source
// names in declaration order and each source's configuration mapping. Sources
// whose value is not a mapping have a nil configuration. A repeated name keeps
// its first position and takes the last value.
func LoadSourceConfigs(path string) ([]string, map[string]map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, errors.New("sources file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read sources file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode yaml sources: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, map[string]map[string]any{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, map[string]map[string]any{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("sources file %s: top level must be a mapping", path)
	}

	names := make([]string, 0, len(root.Content)/2)
	configs := make(map[string]map[string]any, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		name := keyNode.Value

		if valNode.Kind == yaml.AliasNode && valNode.Alias != nil {
			valNode = valNode.Alias
		}

		var cfg map[string]any
		if valNode.Kind == yaml.MappingNode {
			if err := valNode.Decode(&cfg); err != nil {
				return nil, nil, fmt.Errorf("decode source %q: %w", name, err)
			}
			if cfg == nil {
				cfg = map[string]any{}
			}
		}
		if _, seen := configs[name]; !seen {
			names = append(names, name)
		}
		configs[name] = cfg
	}
	return names, configs, nil
}

// Names returns the catalog's source names, sorted.
func (c Catalog) Names() []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
