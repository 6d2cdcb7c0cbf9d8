package importer

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Schema converts a dataset back to its file form. Confirmed date changes
// written into record fields are carried over.
func (ds *Dataset) Schema() *DatasetSchema {
	schema := &DatasetSchema{Tasks: make([]TaskImport, 0, len(ds.Records))}
	if ds.StartKey != domain.DefaultStartKey {
		schema.StartKey = ds.StartKey
	}
	if ds.EndKey != domain.DefaultEndKey {
		schema.EndKey = ds.EndKey
	}
	for _, s := range ds.Sights {
		schema.Sights = append(schema.Sights, SightImport{Type: string(s.Type), Label: s.Label, Amp: s.Amp})
	}
	for _, rec := range ds.Records {
		schema.Tasks = append(schema.Tasks, taskSchema(rec))
	}
	for _, d := range ds.Dependencies {
		schema.Dependencies = append(schema.Dependencies, DependencyImport{From: d.From, To: d.To, Type: string(d.Type)})
	}
	return schema
}

func taskSchema(rec *domain.TaskRecord) TaskImport {
	t := TaskImport{
		ID:        rec.ID,
		Collapsed: rec.Collapsed,
		Group:     rec.Group,
		Disabled:  rec.Disabled,
	}
	for k, v := range rec.Fields {
		if k == "name" {
			if s, ok := v.(string); ok {
				t.Name = s
				continue
			}
		}
		if t.Fields == nil {
			t.Fields = make(map[string]any, len(rec.Fields))
		}
		t.Fields[k] = v
	}
	for _, c := range rec.Children {
		t.Children = append(t.Children, taskSchema(c))
	}
	return t
}

func MarshalDatasetSchema(schema *DatasetSchema, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("encoding dataset yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding dataset json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// Save writes the dataset to path in the format its extension names. The
// file is replaced atomically.
func Save(path string, ds *Dataset) error {
	data, err := MarshalDatasetSchema(ds.Schema(), FormatFor(path))
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gantry-*")
	if err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	return nil
}
