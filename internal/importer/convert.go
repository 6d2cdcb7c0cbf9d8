package importer

import (
	"fmt"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Dataset is a converted dataset ready for the engine.
type Dataset struct {
	Records      []*domain.TaskRecord
	Dependencies []domain.Dependency
	// Sights is nil when the file does not override the zoom levels.
	Sights   []domain.Sight
	StartKey string
	EndKey   string
}

// Convert transforms a dataset schema into records. Call
// ValidateDatasetSchema first; Convert only fails on an unusable sight set.
func Convert(schema *DatasetSchema) (*Dataset, error) {
	startKey, endKey := fieldKeys(schema)
	ds := &Dataset{
		Records:      make([]*domain.TaskRecord, 0, len(schema.Tasks)),
		Dependencies: convertDependencies(schema.Dependencies),
		StartKey:     startKey,
		EndKey:       endKey,
	}
	if len(schema.Sights) > 0 {
		ds.Sights = convertSights(schema.Sights)
		if err := domain.ValidateSights(ds.Sights); err != nil {
			return nil, fmt.Errorf("converting sights: %w", err)
		}
	}
	for i := range schema.Tasks {
		ds.Records = append(ds.Records, convertTask(&schema.Tasks[i]))
	}
	return ds, nil
}

// Load reads, validates and converts a dataset file. Validation problems
// are returned together as one error.
func Load(path string) (*Dataset, error) {
	schema, err := LoadDatasetSchema(path)
	if err != nil {
		return nil, err
	}
	if errs := ValidateDatasetSchema(schema); len(errs) > 0 {
		return nil, &ValidationError{Path: path, Errs: errs}
	}
	return Convert(schema)
}

// ValidationError carries every problem found in a dataset file.
type ValidationError struct {
	Path string
	Errs []error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %d validation error(s)", e.Path, len(e.Errs))
	for _, err := range e.Errs {
		msg += "\n  - " + err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

func fieldKeys(schema *DatasetSchema) (startKey, endKey string) {
	return domain.Coalesce(schema.StartKey, domain.DefaultStartKey),
		domain.Coalesce(schema.EndKey, domain.DefaultEndKey)
}

func convertTask(t *TaskImport) *domain.TaskRecord {
	rec := &domain.TaskRecord{
		ID:        t.ID,
		Fields:    make(map[string]any, len(t.Fields)+1),
		Collapsed: t.Collapsed,
		Group:     t.Group,
		Disabled:  t.Disabled,
	}
	for k, v := range t.Fields {
		rec.Fields[k] = v
	}
	if t.Name != "" {
		rec.Fields["name"] = t.Name
	}
	for i := range t.Children {
		rec.Children = append(rec.Children, convertTask(&t.Children[i]))
	}
	return rec
}

func convertSights(sights []SightImport) []domain.Sight {
	out := make([]domain.Sight, 0, len(sights))
	for _, s := range sights {
		out = append(out, domain.Sight{
			Type:  domain.SightType(s.Type),
			Label: domain.Coalesce(s.Label, s.Type),
			Amp:   s.Amp,
		})
	}
	return out
}

func convertDependencies(deps []DependencyImport) []domain.Dependency {
	out := make([]domain.Dependency, 0, len(deps))
	for _, d := range deps {
		typ := domain.Coalesce(domain.DependencyType(d.Type), domain.DepFinishStart)
		out = append(out, domain.Dependency{From: d.From, To: d.To, Type: typ})
	}
	return out
}
