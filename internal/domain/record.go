package domain

// Default field names holding a record's dates.
const (
	DefaultStartKey = "startDate"
	DefaultEndKey   = "endDate"
)

// TaskRecord is an externally owned task. The engine reads dates from
// Fields and writes them back only after a confirmed drag.
type TaskRecord struct {
	ID        string
	Fields    map[string]any
	Children  []*TaskRecord
	Collapsed bool
	Group     bool
	Disabled  bool
}

// Name returns the "name" field, falling back to the ID.
func (r *TaskRecord) Name() string {
	if r == nil {
		return ""
	}
	name, _ := r.Fields["name"].(string)
	return Coalesce(name, r.ID)
}

// Field returns the raw value stored under key.
func (r *TaskRecord) Field(key string) any {
	if r == nil || r.Fields == nil {
		return nil
	}
	return r.Fields[key]
}

// SetField stores v under key, allocating Fields if needed.
func (r *TaskRecord) SetField(key string, v any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[key] = v
}

// Dependency links two records by ID.
type Dependency struct {
	From string
	To   string
	Type DependencyType
}
