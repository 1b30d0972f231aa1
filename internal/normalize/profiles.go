package normalize

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/planfit/internal/models"
)

// Registry holds the known correction profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry returns a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, p := range builtins {
		r.profiles[p.Name] = p
	}
	return r
}

// LoadFile merges profiles from a YAML file into the registry. File
// profiles may override built-ins of the same name.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profiles file: %w", err)
	}
	var profiles []Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("parsing profiles file: %w", err)
	}
	for _, p := range profiles {
		if p.Name == "" {
			return fmt.Errorf("profile without a name in %s", path)
		}
		r.profiles[p.Name] = p
	}
	return nil
}

// Names returns the registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a profile by name.
func (r *Registry) Get(name string) (Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// builtins are the profiles shipped with the binary. The indoor-trainer
// values come from the coach's standing home-trainer instructions: a
// fixed progressive warmup, a fixed two-block cooldown, and +15 W on
// every body interval to compensate for the trainer's power reading.
var builtins = []Profile{
	{
		Name:        "indoor-trainer",
		Description: "Fixed warmup/recovery blocks and +15 W body offset for indoor trainer sessions",
		Replace: map[models.PhaseRole][]ProfileBlock{
			models.PhaseWarmup: {
				{Duration: "2:30", Low: 96, High: 106},
				{Duration: "2:30", Low: 130, High: 136},
				{Duration: "5:00", Low: 156, High: 166},
				{Duration: "5:00", Low: 180, High: 190},
			},
			models.PhaseRecovery: {
				{Duration: "2:00", Low: 175, High: 180},
				{Duration: "2:00", Low: 175, High: 180},
			},
		},
		Offset: map[models.PhaseRole]int{
			models.PhaseBody: 15,
		},
	},
}

// clockSeconds converts a profile block duration ("M:SS" or "MM:SS") to
// seconds. Profile data is trusted configuration; malformed values
// surface as a zero duration at load time rather than a parse failure.
func clockSeconds(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0
	}
	m, _ := strconv.Atoi(parts[0])
	sec, _ := strconv.Atoi(parts[1])
	return m*60 + sec
}
