package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/gantry/internal/domain"
)

// TaskOption customises a test record.
type TaskOption func(*domain.TaskRecord)

// WithDates sets the default start and end fields. Empty strings leave the
// field unset.
func WithDates(start, end string) TaskOption {
	return WithDateFields(domain.DefaultStartKey, domain.DefaultEndKey, start, end)
}

// WithDateFields sets dates under custom field names.
func WithDateFields(startKey, endKey, start, end string) TaskOption {
	return func(r *domain.TaskRecord) {
		if start != "" {
			r.SetField(startKey, start)
		}
		if end != "" {
			r.SetField(endKey, end)
		}
	}
}

func WithName(name string) TaskOption {
	return func(r *domain.TaskRecord) { r.SetField("name", name) }
}

func WithChildren(children ...*domain.TaskRecord) TaskOption {
	return func(r *domain.TaskRecord) { r.Children = append(r.Children, children...) }
}

func Collapsed() TaskOption {
	return func(r *domain.TaskRecord) { r.Collapsed = true }
}

func Disabled() TaskOption {
	return func(r *domain.TaskRecord) { r.Disabled = true }
}

// NewTestTask builds a record with the given ID.
func NewTestTask(id string, opts ...TaskOption) *domain.TaskRecord {
	r := &domain.TaskRecord{ID: id, Fields: map[string]any{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SeqKeys returns a deterministic item key generator: k1, k2, ...
func SeqKeys() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("k%d", n.Add(1)) }
}
