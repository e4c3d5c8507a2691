// Package graph provides the read path into the organizational source of
// truth. The graph is consumed as a materialized JSON snapshot; the snapshot
// is read-only during simulation.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"orgtwin/internal/org"
)

// ErrBackend marks infrastructure faults on the read path (missing or
// corrupt snapshot), as opposed to a legitimate "no such scope" outcome.
var ErrBackend = errors.New("graph backend unavailable")

// OrgUnit is a node of the containment hierarchy
// (function, sub-function, job family group, job family).
type OrgUnit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// Snapshot is the full materialized organization:
// Organization > Function > SubFunction > JobFamilyGroup > JobFamily > Role.
type Snapshot struct {
	Organization    string                     `json:"organization"`
	Functions       []OrgUnit                  `json:"functions"`
	SubFunctions    []OrgUnit                  `json:"sub_functions"`
	JobFamilyGroups []OrgUnit                  `json:"job_family_groups"`
	JobFamilies     []OrgUnit                  `json:"job_families"`
	Roles           []org.Role                 `json:"roles"`
	JobTitles       []org.JobTitle             `json:"job_titles"`
	Workloads       []org.Workload             `json:"workloads"`
	Tasks           []org.Task                 `json:"tasks"`
	Skills          []org.Skill                `json:"skills"`
	Technologies    []org.Technology           `json:"technologies"`
	TaskSkills      map[string][]org.TaskSkill `json:"task_skill_mappings"`
}

// SkillsForTask implements the task-skill mapping interface used by the
// cascade's skill-shift step.
func (s *Snapshot) SkillsForTask(taskID string) []org.TaskSkill {
	return s.TaskSkills[taskID]
}

// Load reads a snapshot from disk. Both a missing file and malformed JSON
// surface as ErrBackend so callers can separate infrastructure faults from
// empty scopes.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrBackend, path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrBackend, path, err)
	}
	if snap.TaskSkills == nil {
		snap.TaskSkills = make(map[string][]org.TaskSkill)
	}
	log.Info().
		Str("path", path).
		Int("roles", len(snap.Roles)).
		Int("tasks", len(snap.Tasks)).
		Msg("Loaded organization snapshot")
	return &snap, nil
}

// Save writes the snapshot atomically via a temp file rename.
func (s *Snapshot) Save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}
	return nil
}
