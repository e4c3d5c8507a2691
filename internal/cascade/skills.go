package cascade

import (
	"sort"

	"orgtwin/internal/org"
)

// Universal sunrise skills added once any task is affected.
var universalSunrise = []string{"AI literacy", "AI output validation"}

// shiftSkills is step 4. Sunset and sunrise lists come from three sources:
// skill lifecycle status, PRIMARY-mapping share over affected tasks, and the
// universal sunrise pair.
//
// A skill can be flagged sunset by the task-mapping heuristic and sunrise by
// its lifecycle in the same run. Lifecycle is curated data and wins: the
// skill appears only in the sunrise list.
func (e *Engine) shiftSkills(scope *org.ScopeData, changes []TaskChange) SkillShiftResult {
	res := SkillShiftResult{}
	if len(changes) == 0 {
		return res
	}

	sunriseIDs := make(map[string]bool)
	sunsetIDs := make(map[string]bool)
	sunriseNames := make(map[string]bool)

	// (a) lifecycle signals from the skill catalog.
	skillIDs := make([]string, 0, len(scope.Skills))
	for id := range scope.Skills {
		skillIDs = append(skillIDs, id)
	}
	sort.Strings(skillIDs)
	for _, id := range skillIDs {
		sk := scope.Skills[id]
		switch sk.Lifecycle {
		case org.Declining:
			sunsetIDs[id] = true
			res.Sunset = append(res.Sunset, SkillShift{SkillID: id, SkillName: sk.Name, Source: "lifecycle"})
		case org.Emerging:
			sunriseIDs[id] = true
			sunriseNames[sk.Name] = true
			res.Sunrise = append(res.Sunrise, SkillShift{SkillID: id, SkillName: sk.Name, Source: "lifecycle"})
		}
	}

	// (b) skills PRIMARY to a large share of the affected tasks.
	primaryCounts := make(map[string]int)
	primaryNames := make(map[string]string)
	for _, c := range changes {
		for _, m := range scope.TaskSkills[c.TaskID] {
			if m.Relevance == org.Primary {
				primaryCounts[m.SkillID]++
				primaryNames[m.SkillID] = m.SkillName
			}
		}
	}
	threshold := e.cfg.Cascade.PrimarySunsetFraction * float64(len(changes))
	candidates := make([]string, 0, len(primaryCounts))
	for id := range primaryCounts {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)
	for _, id := range candidates {
		if float64(primaryCounts[id]) < threshold {
			continue
		}
		if sunriseIDs[id] {
			continue // lifecycle sunrise takes precedence over the heuristic
		}
		if sunsetIDs[id] {
			continue
		}
		sunsetIDs[id] = true
		res.Sunset = append(res.Sunset, SkillShift{SkillID: id, SkillName: primaryNames[id], Source: "task_mapping"})
	}

	// (c) universal sunrise skills, added unless the name is already rising.
	for _, name := range universalSunrise {
		if !sunriseNames[name] {
			res.Sunrise = append(res.Sunrise, SkillShift{SkillName: name, Source: "universal"})
		}
	}

	return res
}
