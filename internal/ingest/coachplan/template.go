package coachplan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/meltforce/planfit/internal/models"
)

// groupRe matches one duration group of a directive template:
//
//	04:00          plain duration (MM:SS or HH:MM:SS)
//	04:00**        effort markers are ignored
//	04:00@230à240  inline target override
//	04:00/aero     inline position override
var groupRe = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\**(?:@(\d+)(?:à|to)(\d+))?(?:/(\S+))?$`)

// errNoTarget marks a directive that declares no target range anywhere:
// neither on the directive line nor as a per-group override. Such an
// occurrence is malformed (InvalidDirective), not undecodable.
var errNoTarget = fmt.Errorf("no target range on directive or group")

// subTemplate is one decomposed element of a directive template.
type subTemplate struct {
	DurationSec int
	Target      models.TargetRange
	Position    string
}

// decompose splits a directive's bracketed template into its ordered
// sub-interval templates. The directive-level target range and position
// apply to every group unless the group carries its own override. A
// template that does not factor into a whole number of well-formed
// duration groups returns an error (TemplateDecodeError at the caller).
func decompose(d directive) ([]subTemplate, error) {
	tpl := strings.TrimSpace(d.Template)
	if tpl == "" {
		return nil, fmt.Errorf("empty template")
	}

	parts := strings.Split(tpl, "-")
	subs := make([]subTemplate, 0, len(parts))

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("group %d of %d is empty (trailing or doubled separator)", i+1, len(parts))
		}
		m := groupRe.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("group %q is not a duration group", part)
		}

		sec, err := parseClock(m[1])
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", part, err)
		}

		sub := subTemplate{DurationSec: sec, Position: d.Position}
		switch {
		case m[2] != "":
			low, _ := strconv.Atoi(m[2])
			high, _ := strconv.Atoi(m[3])
			if low > high {
				return nil, fmt.Errorf("group %q: inverted target range", part)
			}
			sub.Target = models.TargetRange{Low: low, High: high}
		case d.Target != nil:
			sub.Target = *d.Target
		default:
			return nil, errNoTarget
		}
		if m[4] != "" {
			sub.Position = m[4]
		}

		subs = append(subs, sub)
	}

	return subs, nil
}

// parseClock converts "MM:SS" or "HH:MM:SS" to seconds.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	var sec int
	switch len(parts) {
	case 2:
		m, _ := strconv.Atoi(parts[0])
		ss, _ := strconv.Atoi(parts[1])
		if ss > 59 {
			return 0, fmt.Errorf("seconds out of range in %q", s)
		}
		sec = m*60 + ss
	case 3:
		h, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		ss, _ := strconv.Atoi(parts[2])
		if m > 59 || ss > 59 {
			return 0, fmt.Errorf("minutes or seconds out of range in %q", s)
		}
		sec = h*3600 + m*60 + ss
	default:
		return 0, fmt.Errorf("duration %q is not MM:SS or HH:MM:SS", s)
	}
	if sec == 0 {
		return 0, fmt.Errorf("duration %q is zero", s)
	}
	return sec, nil
}

// expand replicates a directive's decomposed templates per its repeat
// count: iteration 1's K templates, then iteration 2's, and so on. Each
// interval is tagged with its 1-based iteration index and the total.
// This ordering matches how a human reads "do this block N times" and
// downstream per-repetition grouping depends on it.
func expand(d directive, subs []subTemplate, phase models.PhaseRole) []models.Interval {
	intervals := make([]models.Interval, 0, d.Count*len(subs))
	for it := 1; it <= d.Count; it++ {
		for _, sub := range subs {
			intervals = append(intervals, models.Interval{
				Phase:       phase,
				DurationSec: sub.DurationSec,
				Target:      sub.Target,
				Position:    sub.Position,
				Rep:         models.Repetition{Index: it, Total: d.Count},
			})
		}
	}
	return intervals
}
