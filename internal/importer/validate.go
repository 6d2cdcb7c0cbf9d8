package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/gantry/internal/dependency"
	"github.com/alexanderramin/gantry/internal/domain"
)

// ValidateDatasetSchema checks a dataset before conversion and returns
// every problem found. Tasks without dates are valid; they render as
// invalid bars.
func ValidateDatasetSchema(schema *DatasetSchema) []error {
	var errs []error
	startKey, endKey := fieldKeys(schema)
	if startKey == endKey {
		errs = append(errs, fmt.Errorf("start_key and end_key must differ (both %q)", startKey))
	}

	errs = append(errs, validateSights(schema.Sights)...)

	ids := make(map[string]int)
	for i := range schema.Tasks {
		errs = append(errs, validateTask(fmt.Sprintf("tasks[%d]", i), &schema.Tasks[i], startKey, endKey, ids)...)
	}
	dups := make([]string, 0)
	for id, n := range ids {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	for _, id := range dups {
		errs = append(errs, fmt.Errorf("task id %q is used %d times", id, ids[id]))
	}

	errs = append(errs, validateDependencies(schema.Dependencies, ids)...)
	return errs
}

func validateSights(sights []SightImport) []error {
	if len(sights) == 0 {
		return nil
	}
	if err := domain.ValidateSights(convertSights(sights)); err != nil {
		return []error{fmt.Errorf("sights: %w", err)}
	}
	return nil
}

func validateTask(prefix string, t *TaskImport, startKey, endKey string, ids map[string]int) []error {
	var errs []error
	if t.ID != "" {
		ids[t.ID]++
	}
	start, startErr := optionalDate(prefix+".fields."+startKey, t.Fields[startKey], false)
	end, endErr := optionalDate(prefix+".fields."+endKey, t.Fields[endKey], true)
	if startErr != nil {
		errs = append(errs, startErr)
	}
	if endErr != nil {
		errs = append(errs, endErr)
	}
	if start != nil && end != nil && end.Before(*start) {
		errs = append(errs, fmt.Errorf("%s: %s %s is before %s %s", prefix,
			endKey, domain.FormatDate(*end), startKey, domain.FormatDate(*start)))
	}
	for i := range t.Children {
		errs = append(errs, validateTask(fmt.Sprintf("%s.children[%d]", prefix, i), &t.Children[i], startKey, endKey, ids)...)
	}
	return errs
}

func optionalDate(field string, v any, endOfDay bool) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}
	t := domain.ParseDate(v, time.UTC, endOfDay)
	if t == nil {
		return nil, fmt.Errorf("%s: invalid date %v (expected YYYY-MM-DD or %q)", field, v, domain.DateLayout)
	}
	return t, nil
}

func validateDependencies(deps []DependencyImport, ids map[string]int) []error {
	var errs []error
	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)
		if d.From == "" {
			errs = append(errs, fmt.Errorf("%s.from is required", prefix))
		} else if ids[d.From] == 0 {
			errs = append(errs, fmt.Errorf("%s.from: task %q not found", prefix, d.From))
		}
		if d.To == "" {
			errs = append(errs, fmt.Errorf("%s.to is required", prefix))
		} else if ids[d.To] == 0 {
			errs = append(errs, fmt.Errorf("%s.to: task %q not found", prefix, d.To))
		}
		if d.From != "" && d.From == d.To {
			errs = append(errs, fmt.Errorf("%s: task %q depends on itself", prefix, d.From))
		}
		if d.Type != "" && !domain.ValidDependencyTypes[domain.DependencyType(d.Type)] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, d.Type))
		}
	}
	for _, cycle := range dependency.Build(convertDependencies(deps)).Cycles() {
		if len(cycle) < 2 {
			continue
		}
		errs = append(errs, fmt.Errorf("dependency cycle: %v", cycle))
	}
	return errs
}
