package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/domain"
)

// sightFlag is a pflag.Value restricted to the built-in sight types. Custom
// sights from a dataset are checked when the engine switches.
type sightFlag domain.SightType

var _ pflag.Value = (*sightFlag)(nil)

func (s *sightFlag) String() string { return string(*s) }
func (s *sightFlag) Type() string   { return "sight" }

func (s *sightFlag) Set(v string) error {
	if v == "" {
		return fmt.Errorf("sight must not be empty")
	}
	*s = sightFlag(v)
	return nil
}

type zoneFlag string

var _ pflag.Value = (*zoneFlag)(nil)

func (z *zoneFlag) String() string { return string(*z) }
func (z *zoneFlag) Type() string   { return "zone" }

func (z *zoneFlag) Set(v string) error {
	if _, err := time.LoadLocation(v); err != nil {
		return fmt.Errorf("unknown time zone %q", v)
	}
	*z = zoneFlag(v)
	return nil
}

// globalFlags are the persistent flags every command sees.
type globalFlags struct {
	logEvents bool
	sight     sightFlag
	zone      zoneFlag
}

func newGlobalFlags(cfg config.Config) *globalFlags {
	return &globalFlags{
		logEvents: cfg.LogEvents,
		sight:     sightFlag(cfg.Sight),
		zone:      zoneFlag(cfg.Timezone),
	}
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&g.logEvents, "log-events", g.logEvents, "Log engine events to stderr")
	fs.Var(&g.sight, "sight", "Zoom level (day, week, month or a dataset sight)")
	fs.Var(&g.zone, "tz", "IANA time zone used for dates")
}
