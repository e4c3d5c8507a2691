// Package scope resolves an organizational scope into a self-contained
// ScopeData bundle. The selector materializes everything a simulation run
// needs up front so the cascade hot path performs no I/O.
package scope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"orgtwin/internal/graph"
	"orgtwin/internal/org"
)

// Type enumerates the levels of the containment hierarchy a simulation can
// be bounded to.
type Type string

const (
	Organization   Type = "organization"
	Function       Type = "function"
	SubFunction    Type = "sub_function"
	JobFamilyGroup Type = "job_family_group"
	JobFamily      Type = "job_family"
	Role           Type = "role"
)

// ErrUnknownScopeType marks an invalid scope type, which is an input error,
// not an empty scope.
var ErrUnknownScopeType = errors.New("unknown scope type")

// ParseType validates a raw scope type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Organization, Function, SubFunction, JobFamilyGroup, JobFamily, Role:
		return Type(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScopeType, s)
}

// Reader is the graph read interface the rest of the system consumes.
// A scope with zero matching roles resolves to an explicit empty bundle
// (RoleCount 0), never nil and never an error.
type Reader interface {
	Select(scopeType Type, scopeName string) (*org.ScopeData, error)
}

// Selector resolves scopes against a materialized snapshot.
type Selector struct {
	snap *graph.Snapshot
}

func NewSelector(snap *graph.Snapshot) *Selector {
	return &Selector{snap: snap}
}

// Select gathers all roles in scope, then every title, workload, task,
// skill, technology and task-skill mapping reachable from those roles.
func (s *Selector) Select(scopeType Type, scopeName string) (*org.ScopeData, error) {
	if _, err := ParseType(string(scopeType)); err != nil {
		return nil, err
	}

	roleIDs, err := s.rolesInScope(scopeType, scopeName)
	if err != nil {
		return nil, err
	}

	data := org.NewScopeData(string(scopeType), scopeName)
	if len(roleIDs) == 0 {
		data.Recount()
		log.Debug().Str("scope_type", string(scopeType)).Str("scope_name", scopeName).
			Msg("Scope resolved to zero roles")
		return data, nil
	}

	for _, r := range s.snap.Roles {
		if !roleIDs[r.ID] {
			continue
		}
		cp := r
		cp.SkillIDs = append([]string(nil), r.SkillIDs...)
		cp.TechnologyIDs = append([]string(nil), r.TechnologyIDs...)
		data.Roles[cp.ID] = &cp
	}
	for _, jt := range s.snap.JobTitles {
		if roleIDs[jt.RoleID] {
			cp := jt
			data.JobTitles[cp.ID] = &cp
		}
	}

	taskIDs := make(map[string]bool)
	for _, w := range s.snap.Workloads {
		if !roleIDs[w.RoleID] {
			continue
		}
		cp := w
		cp.TaskIDs = append([]string(nil), w.TaskIDs...)
		data.Workloads[cp.ID] = &cp
		for _, tid := range cp.TaskIDs {
			taskIDs[tid] = true
		}
	}
	for _, t := range s.snap.Tasks {
		if taskIDs[t.ID] {
			cp := t
			data.Tasks[cp.ID] = &cp
		}
	}

	// Skills and technologies reachable from the roles in scope, plus skills
	// referenced by task-skill mappings of in-scope tasks.
	skillIDs := make(map[string]bool)
	techIDs := make(map[string]bool)
	for _, r := range data.Roles {
		for _, id := range r.SkillIDs {
			skillIDs[id] = true
		}
		for _, id := range r.TechnologyIDs {
			techIDs[id] = true
		}
	}
	for tid := range taskIDs {
		for _, m := range s.snap.SkillsForTask(tid) {
			skillIDs[m.SkillID] = true
			data.TaskSkills[tid] = append(data.TaskSkills[tid], m)
		}
	}
	for _, sk := range s.snap.Skills {
		if skillIDs[sk.ID] {
			cp := sk
			data.Skills[cp.ID] = &cp
		}
	}
	for _, tech := range s.snap.Technologies {
		if techIDs[tech.ID] {
			cp := tech
			cp.Capabilities = append([]string(nil), tech.Capabilities...)
			data.Technologies[cp.ID] = &cp
		}
	}

	data.Recount()
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: inconsistent snapshot: %v", graph.ErrBackend, err)
	}

	log.Info().
		Str("scope_type", string(scopeType)).
		Str("scope_name", scopeName).
		Int("roles", data.Summary.RoleCount).
		Int("tasks", data.Summary.TaskCount).
		Msg("Scope selected")

	return data, nil
}

// rolesInScope walks the containment hierarchy top-down and returns the set
// of role ids bounded by the scope.
func (s *Selector) rolesInScope(scopeType Type, scopeName string) (map[string]bool, error) {
	match := func(name string) bool { return strings.EqualFold(name, scopeName) }
	roleIDs := make(map[string]bool)

	switch scopeType {
	case Organization:
		for _, r := range s.snap.Roles {
			roleIDs[r.ID] = true
		}
		return roleIDs, nil

	case Role:
		for _, r := range s.snap.Roles {
			if match(r.Name) || r.ID == scopeName {
				roleIDs[r.ID] = true
			}
		}
		return roleIDs, nil
	}

	// Resolve the named unit at its tier, then expand downward tier by tier.
	unitIDs := make(map[string]bool)
	pick := func(units []graph.OrgUnit) {
		for _, u := range units {
			if match(u.Name) || u.ID == scopeName {
				unitIDs[u.ID] = true
			}
		}
	}
	expand := func(units []graph.OrgUnit, parents map[string]bool) map[string]bool {
		next := make(map[string]bool)
		for _, u := range units {
			if parents[u.ParentID] {
				next[u.ID] = true
			}
		}
		return next
	}

	familyIDs := make(map[string]bool)
	switch scopeType {
	case Function:
		pick(s.snap.Functions)
		sub := expand(s.snap.SubFunctions, unitIDs)
		groups := expand(s.snap.JobFamilyGroups, sub)
		familyIDs = expand(s.snap.JobFamilies, groups)
	case SubFunction:
		pick(s.snap.SubFunctions)
		groups := expand(s.snap.JobFamilyGroups, unitIDs)
		familyIDs = expand(s.snap.JobFamilies, groups)
	case JobFamilyGroup:
		pick(s.snap.JobFamilyGroups)
		familyIDs = expand(s.snap.JobFamilies, unitIDs)
	case JobFamily:
		pick(s.snap.JobFamilies)
		familyIDs = unitIDs
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScopeType, scopeType)
	}

	for _, r := range s.snap.Roles {
		if familyIDs[r.JobFamilyID] {
			roleIDs[r.ID] = true
		}
	}
	return roleIDs, nil
}
