package cascade

import "fmt"

// assessRisks is step 7. Every threshold is sourced from CascadeConfig.
func (e *Engine) assessRisks(res *Result) []RiskFlag {
	c := e.cfg.Cascade
	var flags []RiskFlag

	for _, ri := range res.RoleImpacts {
		if ri.FreedCapacityPct > c.HighAutomationPct {
			flags = append(flags, RiskFlag{
				Code:     "high_role_automation",
				Severity: "high",
				Detail: fmt.Sprintf("Role %q frees %.1f%% of its capacity, above the %.0f%% threshold",
					ri.RoleName, ri.FreedCapacityPct, c.HighAutomationPct),
			})
		}
	}

	if res.Workforce.ReductionPct > c.ReductionThresholdPct {
		flags = append(flags, RiskFlag{
			Code:     "workforce_reduction",
			Severity: "high",
			Detail: fmt.Sprintf("Workforce reduction of %.1f%% exceeds the %.0f%% threshold",
				res.Workforce.ReductionPct, c.ReductionThresholdPct),
		})
	}

	netNewSkills := len(res.SkillShifts.Sunrise)
	if netNewSkills > c.NewSkillsThreshold {
		flags = append(flags, RiskFlag{
			Code:     "skill_shift_volume",
			Severity: "medium",
			Detail: fmt.Sprintf("%d net new skills required, above the threshold of %d",
				netNewSkills, c.NewSkillsThreshold),
		})
	}

	if len(res.TaskChanges) > c.BroadChangeTaskCount {
		flags = append(flags, RiskFlag{
			Code:     "broad_change",
			Severity: "medium",
			Detail: fmt.Sprintf("%d tasks affected in one intervention, above the threshold of %d",
				len(res.TaskChanges), c.BroadChangeTaskCount),
		})
	}

	return flags
}

// validateBoundaries is step 8. Violations are collected into a report; the
// cascade result stays inspectable either way.
func (e *Engine) validateBoundaries(res *Result) ValidationReport {
	report := ValidationReport{Valid: true}

	if res.Workforce.FreedHeadcount < 0 {
		report.Violations = append(report.Violations,
			fmt.Sprintf("freed headcount is negative: %.2f", res.Workforce.FreedHeadcount))
	}
	for _, t := range res.TitleImpacts {
		if t.FreedCapacityPct < 0 || t.FreedCapacityPct > 100 {
			report.Violations = append(report.Violations,
				fmt.Sprintf("title %q freed capacity %.2f%% outside [0,100]", t.TitleName, t.FreedCapacityPct))
		}
	}
	if len(res.TaskChanges) > 0 && len(res.RoleImpacts) == 0 {
		report.Violations = append(report.Violations,
			"tasks were reclassified but no role registered an impact")
	}

	report.Valid = len(report.Violations) == 0
	return report
}
