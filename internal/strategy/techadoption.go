package strategy

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"orgtwin/internal/cascade"
	"orgtwin/internal/org"
)

// ErrUnknownTechnology marks a technology name that matches neither the
// built-in profiles nor the scope's technology catalog. An input error, not
// a zero-impact outcome.
var ErrUnknownTechnology = errors.New("unknown technology")

// TechProfile describes how a technology claims tasks and how fast it
// typically rolls out.
type TechProfile struct {
	Name           string
	Keywords       []string
	TargetLevel    org.AutomationLevel
	AdoptionSpeed  string  // fast, moderate, slow
	MonthlyPerUser float64 // licensing rate; 0 falls back to config default
}

// Built-in profiles for common automation technology classes.
var builtinProfiles = []TechProfile{
	{
		Name:          "UiPath",
		Keywords:      []string{"data", "entry", "invoice", "extract", "reconcile", "report", "copy"},
		TargetLevel:   org.AILed,
		AdoptionSpeed: "fast",
	},
	{
		Name:          "Document AI",
		Keywords:      []string{"document", "claim", "form", "classify", "scan", "ocr"},
		TargetLevel:   org.AILed,
		AdoptionSpeed: "moderate",
	},
	{
		Name:          "Conversational AI",
		Keywords:      []string{"inquiry", "response", "chat", "customer", "draft", "reply"},
		TargetLevel:   org.Shared,
		AdoptionSpeed: "moderate",
	},
	{
		Name:          "Code Assistant",
		Keywords:      []string{"code", "test", "refactor", "review", "debug"},
		TargetLevel:   org.Shared,
		AdoptionSpeed: "fast",
	},
}

// adoptionCurves are cumulative adoption fractions at equally spaced points
// across the timeline, used for the savings discount integration. Calibrated
// constants; tune rather than trust.
var adoptionCurves = map[string][]float64{
	"fast":     {0, 0.30, 0.60, 0.85, 0.95},
	"moderate": {0, 0.15, 0.40, 0.65, 0.85},
	"slow":     {0, 0.05, 0.20, 0.45, 0.70},
}

var speedRanks = map[string]float64{"slow": 1, "moderate": 2, "fast": 3}

// resolveProfile finds a profile by name, case-insensitively: built-ins
// first, then the scope's technology catalog (capabilities become keywords).
func resolveProfile(scope *org.ScopeData, name string) (TechProfile, error) {
	for _, p := range builtinProfiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	for _, t := range scope.Technologies {
		if strings.EqualFold(t.Name, name) && len(t.Capabilities) > 0 {
			return TechProfile{
				Name:          t.Name,
				Keywords:      t.Capabilities,
				TargetLevel:   org.Shared,
				AdoptionSpeed: "moderate",
			}, nil
		}
	}
	return TechProfile{}, fmt.Errorf("%w: %q", ErrUnknownTechnology, name)
}

// keywordPattern compiles a word-boundary alternation for the profile's
// keywords. Substring matching is a known false-positive trap ("data" must
// not match "Validate"), hence \b anchors.
func keywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// TechAdoption matches one or more named technologies against the scope's
// tasks. For multi-tech runs, when two technologies claim the same task the
// higher automation level wins.
type TechAdoption struct {
	Technologies []string
}

// Plan resolves profiles, matches tasks and assembles reclassifications
// plus tech costs and the adoption-curve savings discount. Zero matched
// tasks is a valid zero-impact plan.
func (a TechAdoption) Plan(scope *org.ScopeData, fin *cascade.Financial, timelineMonths int) (*Plan, error) {
	if len(a.Technologies) == 0 {
		return nil, fmt.Errorf("tech adoption: no technology named")
	}

	type claim struct {
		level   org.AutomationLevel
		profile int
	}
	claims := make(map[string]claim)
	matchCounts := make([]int, len(a.Technologies))
	profiles := make([]TechProfile, len(a.Technologies))

	for i, name := range a.Technologies {
		p, err := resolveProfile(scope, name)
		if err != nil {
			return nil, err
		}
		profiles[i] = p
		pattern := keywordPattern(p.Keywords)

		for _, id := range scope.SortedTaskIDs() {
			t := scope.Tasks[id]
			if !pattern.MatchString(t.Name + " " + t.Description) {
				continue
			}
			if p.TargetLevel.Rank() <= t.Level.Rank() {
				continue // already at or past what this technology delivers
			}
			matchCounts[i]++
			if c, ok := claims[id]; !ok || p.TargetLevel.Rank() > c.level.Rank() {
				claims[id] = claim{level: p.TargetLevel, profile: i}
			}
		}
	}

	plan := &Plan{SavingsDiscount: 1}
	for _, p := range profiles {
		plan.TechnologiesApplied = append(plan.TechnologiesApplied, p.Name)
	}

	if len(claims) == 0 {
		return plan, nil
	}

	ids := make([]string, 0, len(claims))
	for id := range claims {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		plan.Reclassifications = append(plan.Reclassifications, cascade.Reclassification{
			TaskID:   id,
			NewLevel: claims[id].level,
		})
	}
	plan.TasksMatched = len(claims)

	// Adoption speed: match-count-weighted average across technologies.
	plan.AdoptionSpeed = weightedSpeed(profiles, matchCounts)
	plan.SavingsDiscount = adoptionDiscount(plan.AdoptionSpeed)

	// Licensing covers the population of every role owning a matched task.
	affectedRoles := make(map[string]bool)
	for id := range claims {
		if w, ok := scope.Workloads[scope.Tasks[id].WorkloadID]; ok {
			affectedRoles[w.RoleID] = true
		}
	}
	var headcount float64
	for rid := range affectedRoles {
		if r, ok := scope.Roles[rid]; ok {
			headcount += r.Headcount
		}
	}
	rate := 0.0
	for i, p := range profiles {
		if matchCounts[i] > 0 && p.MonthlyPerUser > rate {
			rate = p.MonthlyPerUser
		}
	}
	tech := fin.TechnologyCost(headcount, timelineMonths, rate)
	plan.Tech = &tech

	return plan, nil
}

// weightedSpeed averages the profiles' speeds weighted by match count and
// snaps back to the nearest preset name.
func weightedSpeed(profiles []TechProfile, counts []int) string {
	var sum, weight float64
	for i, p := range profiles {
		if counts[i] == 0 {
			continue
		}
		sum += speedRanks[p.AdoptionSpeed] * float64(counts[i])
		weight += float64(counts[i])
	}
	if weight == 0 {
		return "moderate"
	}
	avg := sum / weight
	switch {
	case avg >= 2.5:
		return "fast"
	case avg >= 1.5:
		return "moderate"
	default:
		return "slow"
	}
}

// adoptionDiscount integrates the preset adoption curve by the trapezoidal
// rule, yielding the average deployed fraction over the timeline. Applying
// it to cascade savings avoids assuming day-one full deployment.
func adoptionDiscount(speed string) float64 {
	curve, ok := adoptionCurves[speed]
	if !ok || len(curve) < 2 {
		return 1
	}
	var area float64
	for i := 1; i < len(curve); i++ {
		area += (curve[i-1] + curve[i]) / 2
	}
	return area / float64(len(curve)-1)
}
