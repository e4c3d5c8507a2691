package scenario

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"orgtwin/internal/cascade"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "scenarios.db"))
	if err != nil {
		t.Fatalf("OpenStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDefinition(id string) Definition {
	return Definition{
		ID:             id,
		Name:           "AP automation",
		SimulationType: TypeRoleRedesign,
		ScopeType:      "role",
		ScopeName:      "AP Clerk",
		EngineVersion:  EngineV1,
		Parameters:     Parameters{AutomationFactor: 0.5},
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDefinitionRoundtrip(t *testing.T) {
	s := tempStore(t)
	def := sampleDefinition("sc-1")

	if err := s.SaveDefinition(def); err != nil {
		t.Fatalf("SaveDefinition() error: %v", err)
	}
	got, err := s.GetDefinition("sc-1")
	if err != nil {
		t.Fatalf("GetDefinition() error: %v", err)
	}
	if got.Name != def.Name || got.SimulationType != def.SimulationType ||
		got.Parameters.AutomationFactor != 0.5 || !got.CreatedAt.Equal(def.CreatedAt) {
		t.Errorf("roundtrip mismatch: %+v", got)
	}

	if _, err := s.GetDefinition("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestResultRoundtrip(t *testing.T) {
	s := tempStore(t)
	if err := s.SaveDefinition(sampleDefinition("sc-1")); err != nil {
		t.Fatal(err)
	}

	res := &RunResult{
		ScenarioID:     "sc-1",
		Name:           "AP automation",
		SimulationType: TypeRoleRedesign,
		Cascade: &cascade.Result{
			Summary: cascade.Summary{TasksAffected: 3, FreedHeadcount: 12.5, ROIPct: 240},
		},
	}
	if err := s.SaveResult("sc-1", res); err != nil {
		t.Fatalf("SaveResult() error: %v", err)
	}

	got, err := s.LoadResult("sc-1")
	if err != nil {
		t.Fatalf("LoadResult() error: %v", err)
	}
	if got.Cascade == nil || got.Cascade.Summary.FreedHeadcount != 12.5 {
		t.Errorf("result roundtrip mismatch: %+v", got)
	}

	if _, err := s.LoadResult("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestLoadResultLegacyFormat(t *testing.T) {
	s := tempStore(t)

	// A version 1 row stores the bare cascade result.
	legacy := cascade.Result{
		Summary: cascade.Summary{TasksAffected: 2, FreedHeadcount: 4},
	}
	payload, err := json.Marshal(legacy)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO results(scenario_id,format_version,payload,saved_at) VALUES (?,?,?,?)`,
		"old-1", 1, string(payload), "2025-01-01T00:00:00Z"); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadResult("old-1")
	if err != nil {
		t.Fatalf("LoadResult() error: %v", err)
	}
	if got.ScenarioID != "old-1" {
		t.Errorf("scenario id = %q, want old-1", got.ScenarioID)
	}
	if got.Cascade == nil || got.Cascade.Summary.FreedHeadcount != 4 {
		t.Errorf("legacy payload not wrapped: %+v", got)
	}
}

func TestListAndDelete(t *testing.T) {
	s := tempStore(t)

	first := sampleDefinition("sc-1")
	second := sampleDefinition("sc-2")
	second.Name = "Claims bots"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	for _, def := range []Definition{first, second} {
		if err := s.SaveDefinition(def); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SaveResult("sc-2", &RunResult{ScenarioID: "sc-2"}); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(list))
	}
	// Newest first.
	if list[0].ID != "sc-2" || !list[0].HasResult {
		t.Errorf("first row = %+v, want sc-2 with a result", list[0])
	}
	if list[1].HasResult {
		t.Errorf("sc-1 reports a result it does not have")
	}

	deleted, err := s.Delete("sc-2")
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v, want true", deleted, err)
	}
	if _, err := s.LoadResult("sc-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("result survived scenario deletion: %v", err)
	}

	deleted, err = s.Delete("sc-2")
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v, want false", deleted, err)
	}
}
