package org

import (
	"fmt"
	"sort"
)

// ScopeSummary carries caller-visible counts for a resolved scope.
// RoleCount == 0 is the empty-scope signal.
type ScopeSummary struct {
	ScopeType      string  `json:"scope_type"`
	ScopeName      string  `json:"scope_name"`
	RoleCount      int     `json:"role_count"`
	TitleCount     int     `json:"title_count"`
	WorkloadCount  int     `json:"workload_count"`
	TaskCount      int     `json:"task_count"`
	SkillCount     int     `json:"skill_count"`
	TechCount      int     `json:"technology_count"`
	TotalHeadcount float64 `json:"total_headcount"`
}

// ScopeData is a self-contained bundle of everything a simulation run needs.
//
// Ownership model: the maps are arenas holding the single authoritative copy
// of each entity. Workloads reference tasks by id only, so a mutation of a
// task through the arena is observed by every view. A cascade run mutates
// tasks in place; callers that need a second independent run against the
// same scope MUST use Clone() first.
type ScopeData struct {
	Roles        map[string]*Role        `json:"roles"`
	JobTitles    map[string]*JobTitle    `json:"job_titles"`
	Workloads    map[string]*Workload    `json:"workloads"`
	Tasks        map[string]*Task        `json:"tasks"`
	Skills       map[string]*Skill       `json:"skills"`
	Technologies map[string]*Technology  `json:"technologies"`
	TaskSkills   map[string][]TaskSkill  `json:"task_skill_mappings"`
	Summary      ScopeSummary            `json:"summary"`
}

// NewScopeData returns an empty, fully initialized bundle for the given
// scope coordinates. Never returns nil maps so an empty scope is safe to
// traverse.
func NewScopeData(scopeType, scopeName string) *ScopeData {
	return &ScopeData{
		Roles:        make(map[string]*Role),
		JobTitles:    make(map[string]*JobTitle),
		Workloads:    make(map[string]*Workload),
		Tasks:        make(map[string]*Task),
		Skills:       make(map[string]*Skill),
		Technologies: make(map[string]*Technology),
		TaskSkills:   make(map[string][]TaskSkill),
		Summary:      ScopeSummary{ScopeType: scopeType, ScopeName: scopeName},
	}
}

// Recount refreshes the summary counts from the arenas.
func (s *ScopeData) Recount() {
	s.Summary.RoleCount = len(s.Roles)
	s.Summary.TitleCount = len(s.JobTitles)
	s.Summary.WorkloadCount = len(s.Workloads)
	s.Summary.TaskCount = len(s.Tasks)
	s.Summary.SkillCount = len(s.Skills)
	s.Summary.TechCount = len(s.Technologies)
	var hc float64
	for _, r := range s.Roles {
		hc += r.Headcount
	}
	s.Summary.TotalHeadcount = hc
}

// Validate checks referential integrity and field ranges once at
// construction time so downstream engines can trust the bundle.
func (s *ScopeData) Validate() error {
	for id, t := range s.Tasks {
		if t.ID != id {
			return fmt.Errorf("task arena key %q does not match task id %q", id, t.ID)
		}
		if _, ok := s.Workloads[t.WorkloadID]; t.WorkloadID != "" && !ok {
			return fmt.Errorf("task %s references unknown workload %s", t.ID, t.WorkloadID)
		}
		if t.TimePct < 0 || t.TimePct > 100 {
			return fmt.Errorf("task %s time allocation %.1f outside [0,100]", t.ID, t.TimePct)
		}
		if t.AutomationPotential < 0 || t.AutomationPotential > 100 {
			return fmt.Errorf("task %s automation potential %.1f outside [0,100]", t.ID, t.AutomationPotential)
		}
	}
	for id, w := range s.Workloads {
		if w.ID != id {
			return fmt.Errorf("workload arena key %q does not match workload id %q", id, w.ID)
		}
		if _, ok := s.Roles[w.RoleID]; w.RoleID != "" && !ok {
			return fmt.Errorf("workload %s references unknown role %s", w.ID, w.RoleID)
		}
		if w.EffortPct < 0 || w.EffortPct > 100 {
			return fmt.Errorf("workload %s effort %.1f outside [0,100]", w.ID, w.EffortPct)
		}
		for _, tid := range w.TaskIDs {
			if _, ok := s.Tasks[tid]; !ok {
				return fmt.Errorf("workload %s references unknown task %s", w.ID, tid)
			}
		}
	}
	for id, jt := range s.JobTitles {
		if jt.ID != id {
			return fmt.Errorf("job title arena key %q does not match id %q", id, jt.ID)
		}
		if _, ok := s.Roles[jt.RoleID]; !ok {
			return fmt.Errorf("job title %s references unknown role %s", jt.ID, jt.RoleID)
		}
	}
	return nil
}

// TasksForWorkload resolves a workload's tasks through the arena, in task-id
// order for determinism. The returned pointers alias the arena; mutations
// through them are the point.
func (s *ScopeData) TasksForWorkload(workloadID string) []*Task {
	w, ok := s.Workloads[workloadID]
	if !ok {
		return nil
	}
	ids := make([]string, len(w.TaskIDs))
	copy(ids, w.TaskIDs)
	sort.Strings(ids)
	out := make([]*Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.Tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// WorkloadsForRole returns the role's workloads sorted by id.
func (s *ScopeData) WorkloadsForRole(roleID string) []*Workload {
	var out []*Workload
	for _, w := range s.Workloads {
		if w.RoleID == roleID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TitlesForRole returns the role's job titles sorted by id.
func (s *ScopeData) TitlesForRole(roleID string) []*JobTitle {
	var out []*JobTitle
	for _, jt := range s.JobTitles {
		if jt.RoleID == roleID {
			out = append(out, jt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedRoleIDs returns role ids in lexical order for deterministic
// iteration.
func (s *ScopeData) SortedRoleIDs() []string {
	ids := make([]string, 0, len(s.Roles))
	for id := range s.Roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedTaskIDs returns task ids in lexical order.
func (s *ScopeData) SortedTaskIDs() []string {
	ids := make([]string, 0, len(s.Tasks))
	for id := range s.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone deep-copies the bundle. Every independent simulation run against the
// same scope must work on its own clone; sharing a bundle across runs
// silently corrupts the second run.
func (s *ScopeData) Clone() *ScopeData {
	c := NewScopeData(s.Summary.ScopeType, s.Summary.ScopeName)
	c.Summary = s.Summary
	for id, r := range s.Roles {
		cp := *r
		cp.SkillIDs = append([]string(nil), r.SkillIDs...)
		cp.TechnologyIDs = append([]string(nil), r.TechnologyIDs...)
		c.Roles[id] = &cp
	}
	for id, jt := range s.JobTitles {
		cp := *jt
		c.JobTitles[id] = &cp
	}
	for id, w := range s.Workloads {
		cp := *w
		cp.TaskIDs = append([]string(nil), w.TaskIDs...)
		c.Workloads[id] = &cp
	}
	for id, t := range s.Tasks {
		cp := *t
		c.Tasks[id] = &cp
	}
	for id, sk := range s.Skills {
		cp := *sk
		c.Skills[id] = &cp
	}
	for id, tech := range s.Technologies {
		cp := *tech
		cp.Capabilities = append([]string(nil), tech.Capabilities...)
		c.Technologies[id] = &cp
	}
	for id, ms := range s.TaskSkills {
		c.TaskSkills[id] = append([]TaskSkill(nil), ms...)
	}
	return c
}
