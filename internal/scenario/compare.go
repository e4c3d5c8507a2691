package scenario

import (
	"fmt"
	"sort"
)

// Comparison ranks a set of completed scenario runs side by side. Failed
// runs are listed but excluded from the rankings.
type Comparison struct {
	Results    []*RunResult `json:"results"`
	BestROI    string       `json:"best_roi,omitempty"`    // scenario name
	LowestRisk string       `json:"lowest_risk,omitempty"` // scenario name
	Summary    string       `json:"summary"`
}

// Compare builds a comparison across runs. The input order is preserved in
// Results; rankings only consider runs that completed with a cascade.
func Compare(results []*RunResult) *Comparison {
	c := &Comparison{Results: results}

	var ranked []*RunResult
	for _, r := range results {
		if r == nil || r.Failed() || r.Cascade == nil {
			continue
		}
		ranked = append(ranked, r)
	}
	if len(ranked) == 0 {
		c.Summary = "no completed scenarios to compare"
		return c
	}

	byROI := make([]*RunResult, len(ranked))
	copy(byROI, ranked)
	sort.SliceStable(byROI, func(i, j int) bool { return byROI[i].ROI() > byROI[j].ROI() })
	best := byROI[0]
	c.BestROI = best.Name

	byRisk := make([]*RunResult, len(ranked))
	copy(byRisk, ranked)
	sort.SliceStable(byRisk, func(i, j int) bool {
		ri, rj := byRisk[i], byRisk[j]
		if hi, hj := ri.HighRiskCount(), rj.HighRiskCount(); hi != hj {
			return hi < hj
		}
		// Tie-break on total flags, then reduction depth.
		if fi, fj := len(ri.Cascade.Risks), len(rj.Cascade.Risks); fi != fj {
			return fi < fj
		}
		return ri.Cascade.Summary.ReductionPct < rj.Cascade.Summary.ReductionPct
	})
	safest := byRisk[0]
	c.LowestRisk = safest.Name

	if best == safest {
		c.Summary = fmt.Sprintf("%q leads on both ROI (%.1f%%) and risk (%d high flags)",
			best.Name, best.ROI(), best.HighRiskCount())
	} else {
		c.Summary = fmt.Sprintf("%q has the best ROI (%.1f%% vs %.1f%%) but %q carries less risk (%d vs %d high flags)",
			best.Name, best.ROI(), safest.ROI(),
			safest.Name, safest.HighRiskCount(), best.HighRiskCount())
	}
	return c
}
