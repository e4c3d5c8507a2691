package org

import "fmt"

// AutomationLevel describes who carries a unit of work, from fully human to
// fully autonomous. The five values form a strict total order; all
// level-based arithmetic goes through Rank and Advance so the clamping rule
// lives in exactly one place.
type AutomationLevel string

const (
	HumanOnly AutomationLevel = "human_only"
	HumanLed  AutomationLevel = "human_led"
	Shared    AutomationLevel = "shared"
	AILed     AutomationLevel = "ai_led"
	AIOnly    AutomationLevel = "ai_only"
)

var levelOrder = []AutomationLevel{HumanOnly, HumanLed, Shared, AILed, AIOnly}

// levelFractions maps each level to its continuous automation fraction
// (0-100). These anchor both the reclassification delta table and the
// workload score recomposition.
var levelFractions = map[AutomationLevel]float64{
	HumanOnly: 5,
	HumanLed:  15,
	Shared:    40,
	AILed:     75,
	AIOnly:    95,
}

// ParseAutomationLevel validates a raw string against the closed set.
func ParseAutomationLevel(s string) (AutomationLevel, error) {
	for _, l := range levelOrder {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown automation level %q", s)
}

// Rank returns the position of the level in the total order (0-4).
// Unknown levels rank as HumanOnly so arithmetic on malformed data degrades
// toward "no automation" rather than inventing impact.
func (l AutomationLevel) Rank() int {
	for i, lv := range levelOrder {
		if lv == l {
			return i
		}
	}
	return 0
}

// Advance moves the level forward by n steps, clamping at AIOnly. Negative
// steps are treated as zero; a level never moves backwards.
func (l AutomationLevel) Advance(n int) AutomationLevel {
	if n <= 0 {
		return l
	}
	idx := l.Rank() + n
	if idx >= len(levelOrder) {
		idx = len(levelOrder) - 1
	}
	return levelOrder[idx]
}

// StepsTo returns how many forward steps separate l from target, 0 if target
// is not ahead of l.
func (l AutomationLevel) StepsTo(target AutomationLevel) int {
	d := target.Rank() - l.Rank()
	if d < 0 {
		return 0
	}
	return d
}

// StepsRemaining returns how many forward steps are left before AIOnly.
func (l AutomationLevel) StepsRemaining() int {
	return len(levelOrder) - 1 - l.Rank()
}

// Fraction returns the continuous automation fraction (0-100) for the level.
func (l AutomationLevel) Fraction() float64 {
	return levelFractions[l]
}

// DeltaTo returns the automation fraction gained by moving from l to target,
// as a 0-1 value. Moves backwards yield 0.
func (l AutomationLevel) DeltaTo(target AutomationLevel) float64 {
	d := (target.Fraction() - l.Fraction()) / 100.0
	if d < 0 {
		return 0
	}
	return d
}

// AllAutomationLevels returns the levels in ascending order.
func AllAutomationLevels() []AutomationLevel {
	out := make([]AutomationLevel, len(levelOrder))
	copy(out, levelOrder)
	return out
}

// BucketLevel quantizes a continuous automation score (0-100) back into a
// level using the recomposition thresholds.
func BucketLevel(score float64) AutomationLevel {
	switch {
	case score >= 80:
		return AILed
	case score >= 50:
		return Shared
	case score >= 20:
		return HumanLed
	default:
		return HumanOnly
	}
}

// CareerBand positions a job title in the organizational ladder. Impact
// factors skew automation impact toward junior bands.
type CareerBand string

const (
	BandEntry     CareerBand = "entry"
	BandAssociate CareerBand = "associate"
	BandSenior    CareerBand = "senior"
	BandLead      CareerBand = "lead"
	BandDirector  CareerBand = "director"
	BandCSuite    CareerBand = "c_suite"
)

var bandFactors = map[CareerBand]float64{
	BandEntry:     1.4,
	BandAssociate: 1.2,
	BandSenior:    1.0,
	BandLead:      0.7,
	BandDirector:  0.4,
	BandCSuite:    0.2,
}

// ParseCareerBand validates a raw string against the closed set.
func ParseCareerBand(s string) (CareerBand, error) {
	if _, ok := bandFactors[CareerBand(s)]; !ok {
		return "", fmt.Errorf("unknown career band %q", s)
	}
	return CareerBand(s), nil
}

// ImpactFactor returns the band's freed-capacity multiplier. Unknown bands
// behave as senior (factor 1.0).
func (b CareerBand) ImpactFactor() float64 {
	if f, ok := bandFactors[b]; ok {
		return f
	}
	return 1.0
}

// Classification is the task taxonomy driving eligibility for redesign.
type Classification string

const (
	Directive     Classification = "directive"
	FeedbackLoop  Classification = "feedback_loop"
	Learning      Classification = "learning"
	Validation    Classification = "validation"
	TaskIteration Classification = "task_iteration"
	Negligibility Classification = "negligibility"
)

var classifications = map[Classification]bool{
	Directive: true, FeedbackLoop: true, Learning: true,
	Validation: true, TaskIteration: true, Negligibility: true,
}

// ParseClassification validates a raw string against the closed set.
func ParseClassification(s string) (Classification, error) {
	if !classifications[Classification(s)] {
		return "", fmt.Errorf("unknown task classification %q", s)
	}
	return Classification(s), nil
}

// Lifecycle tracks a skill's market stage.
type Lifecycle string

const (
	Emerging  Lifecycle = "emerging"
	Stable    Lifecycle = "stable"
	Declining Lifecycle = "declining"
)

// Relevance tags a task-skill mapping.
type Relevance string

const (
	Primary   Relevance = "PRIMARY"
	Secondary Relevance = "SECONDARY"
)
