package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/viewport"
)

// session is one dataset file loaded into an engine.
type session struct {
	path    string
	ds      *importer.Dataset
	eng     *gantt.Engine
	diag    hierarchy.Diagnostics
	depErrs []error
}

// openSession loads path and builds an engine from the app config, the
// global flags and the dataset's own keys and sights. tune runs last.
func (app *App) openSession(path string, flags *globalFlags, stderr io.Writer, tune func(*gantt.Options)) (*session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	ds, err := importer.Load(abs)
	if err != nil {
		return nil, err
	}

	cfg := app.Config
	cfg.Timezone = string(flags.zone)
	opts := cfg.EngineOptions()
	if ds.Sights != nil {
		opts.Sights = ds.Sights
	}
	opts.StartKey, opts.EndKey = ds.StartKey, ds.EndKey
	if app.Now != nil {
		opts.Now = app.Now
	}
	if flags.logEvents {
		opts.Observer = gantt.NewLogObserver(stderr)
	}
	if app.Confirmer != nil {
		opts.Confirmer = app.Confirmer
	}
	if tune != nil {
		tune(&opts)
	}

	eng, err := gantt.New(opts)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	s := &session{path: abs, ds: ds, eng: eng}
	s.diag = eng.SetData(ds.Records, ds.StartKey, ds.EndKey)
	s.depErrs = eng.SetDependencies(ds.Dependencies)

	if want := domain.SightType(flags.sight); want != "" && eng.Sight().Type != want {
		if !eng.SwitchSight(want) {
			eng.Close()
			return nil, fmt.Errorf("unknown sight %q", want)
		}
	}
	return s, nil
}

// reload re-reads the dataset file, keeping collapsed groups collapsed.
func (s *session) reload() error {
	ds, err := importer.Load(s.path)
	if err != nil {
		return err
	}
	collapsed := s.eng.CollapsedIDs()
	s.ds = ds
	s.diag = s.eng.SetData(ds.Records, ds.StartKey, ds.EndKey)
	s.depErrs = s.eng.SetDependencies(ds.Dependencies)
	s.eng.SetCollapsed(collapsed)
	return nil
}

// save writes confirmed date changes back to the dataset file.
func (s *session) save() error {
	return importer.Save(s.path, s.ds)
}

func (s *session) Close() { s.eng.Close() }

// fit sizes the engine for a text chart of cols x rows cells.
func (s *session) fit(cols, rows, panelCols int) {
	cw := float64(formatter.DefaultColWidth)
	height := viewport.HeaderHeight + float64(rows)*s.eng.Frame().RowHeight
	s.eng.Resize(float64(cols)*cw, height)
	s.eng.ResizePanel(float64(panelCols) * cw)
}

// warnings lists non-fatal dataset problems.
func (s *session) warnings() []string {
	var out []string
	for _, id := range s.diag.Cycles {
		out = append(out, fmt.Sprintf("task %s is its own ancestor and was skipped", id))
	}
	for _, id := range s.diag.DuplicateIDs {
		out = append(out, fmt.Sprintf("task id %s is used more than once", id))
	}
	for _, err := range s.depErrs {
		out = append(out, err.Error())
	}
	return out
}
