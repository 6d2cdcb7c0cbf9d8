package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DatasetSchema is the top-level structure of a dataset file.
type DatasetSchema struct {
	StartKey     string             `json:"start_key,omitempty" yaml:"start_key,omitempty"`
	EndKey       string             `json:"end_key,omitempty" yaml:"end_key,omitempty"`
	Sights       []SightImport      `json:"sights,omitempty" yaml:"sights,omitempty"`
	Tasks        []TaskImport       `json:"tasks" yaml:"tasks"`
	Dependencies []DependencyImport `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// SightImport is a custom zoom level. Amp is milliseconds per pixel.
type SightImport struct {
	Type  string  `json:"type" yaml:"type"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	Amp   float64 `json:"amp" yaml:"amp"`
}

// TaskImport is one task and its subtree. Dates and any other host fields
// live in Fields under the dataset's start and end keys.
type TaskImport struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Collapsed bool           `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Group     bool           `json:"group,omitempty" yaml:"group,omitempty"`
	Disabled  bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Fields    map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
	Children  []TaskImport   `json:"children,omitempty" yaml:"children,omitempty"`
}

// DependencyImport links two task IDs.
type DependencyImport struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the decoder from a file extension. Unknown extensions
// are read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// LoadDatasetSchema reads and parses a dataset file.
func LoadDatasetSchema(path string) (*DatasetSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schema, err := ParseDatasetSchema(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

func ParseDatasetSchema(data []byte, format Format) (*DatasetSchema, error) {
	var schema DatasetSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing dataset yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing dataset json: %w", err)
		}
	}
	return &schema, nil
}
