package scenario

import (
	"fmt"
	"strings"
)

// applyConstraints adjusts a completed run in place and returns a log of
// what was applied. Constraints never fail a run; they scale or annotate it.
func applyConstraints(res *RunResult, c *Constraints) []string {
	if c == nil || res.Cascade == nil {
		return nil
	}
	var notes []string
	cr := res.Cascade

	// Protected roles are zeroed out before the reduction cap so the cap
	// works on the surviving impact.
	if len(c.ProtectedRoles) > 0 {
		protected := make(map[string]bool, len(c.ProtectedRoles))
		for _, name := range c.ProtectedRoles {
			protected[strings.ToLower(name)] = true
		}
		isProtected := func(id, name string) bool {
			return protected[strings.ToLower(id)] || protected[strings.ToLower(name)]
		}

		var removedFreed float64
		protectedRoleIDs := make(map[string]bool)
		kept := cr.RoleImpacts[:0]
		for _, ri := range cr.RoleImpacts {
			if isProtected(ri.RoleID, ri.RoleName) {
				protectedRoleIDs[ri.RoleID] = true
				notes = append(notes, fmt.Sprintf("protected role %q excluded from impact", ri.RoleName))
				continue
			}
			kept = append(kept, ri)
		}
		cr.RoleImpacts = kept

		keptTitles := cr.TitleImpacts[:0]
		for _, ti := range cr.TitleImpacts {
			if protectedRoleIDs[ti.RoleID] {
				removedFreed += ti.Headcount * ti.FreedCapacityPct / 100
				continue
			}
			keptTitles = append(keptTitles, ti)
		}
		cr.TitleImpacts = keptTitles

		if removedFreed > 0 && cr.Workforce.FreedHeadcount > 0 {
			scale := (cr.Workforce.FreedHeadcount - removedFreed) / cr.Workforce.FreedHeadcount
			if scale < 0 {
				scale = 0
			}
			scaleRun(res, scale)
		}
	}

	// Headcount reduction cap: scale workforce and financial outputs
	// proportionally.
	if c.MaxReductionPct > 0 && cr.Workforce.ReductionPct > c.MaxReductionPct {
		scale := c.MaxReductionPct / cr.Workforce.ReductionPct
		notes = append(notes, fmt.Sprintf(
			"workforce reduction capped at %.1f%% (was %.1f%%), outputs scaled by %.2f",
			c.MaxReductionPct, cr.Workforce.ReductionPct, scale))
		scaleRun(res, scale)
	}

	// Budget cap only flags; it does not rescale.
	if c.BudgetCap > 0 && cr.Financial.TotalCost > c.BudgetCap {
		notes = append(notes, fmt.Sprintf(
			"budget overrun: total cost %.0f exceeds cap %.0f", cr.Financial.TotalCost, c.BudgetCap))
	}

	return notes
}

// scaleRun scales the workforce and financial outputs of a run by a factor
// in [0,1], keeping net = gross - cost and the ROI/payback identities.
func scaleRun(res *RunResult, scale float64) {
	cr := res.Cascade
	w := &cr.Workforce
	w.FreedHeadcount *= scale
	w.RedeployableHeadcount *= scale
	w.ReductionPct *= scale

	f := &cr.Financial
	f.GrossSavings *= scale
	f.TotalFreedHeadcount *= scale
	f.SeveranceCost *= scale
	f.TotalCost = f.TechnologyCost + f.ReskillingCost + f.ChangeManagementCost + f.SeveranceCost + f.JCurveCost
	recomputeDerived(f)

	cr.Summary.FreedHeadcount = w.FreedHeadcount
	cr.Summary.ReductionPct = w.ReductionPct
	cr.Summary.GrossSavings = f.GrossSavings
	cr.Summary.NetImpact = f.NetImpact
	cr.Summary.ROIPct = f.ROIPct
}
