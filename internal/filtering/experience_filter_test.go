package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/staffmatch/internal/candidate"
)

func experience(roles ...string) []candidate.ExperienceEntry {
	entries := make([]candidate.ExperienceEntry, 0, len(roles))
	for _, r := range roles {
		entries = append(entries, candidate.ExperienceEntry{Role: r})
	}
	return entries
}

func TestExperienceFilter(t *testing.T) {
	corpus := candidate.NewCorpus([]candidate.Candidate{
		{ID: "exact", Experience: experience("Software Engineer")},
		{ID: "analyst", Experience: experience("Data Analyst")},
		{ID: "none"},
		{ID: "senior", Experience: experience("Intern", "Senior SOFTWARE ENGINEER II")},
		{ID: "typo", Experience: experience("Sofware Engineer")},
	})

	tests := []struct {
		name   string
		field  string
		expect []string
	}{
		{name: "identical and fuzzy roles", field: "Software Engineer", expect: []string{"exact", "senior", "typo"}},
		{name: "other field", field: "data analyst", expect: []string{"analyst"}},
		{name: "empty field excludes everyone", field: "", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExperience(&ExperienceConfig{Field: tt.field}, zap.NewNop())

			next, step, err := f.Apply(context.Background(), corpus.All())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			ids := next.IDs()
			if len(ids) != len(tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, ids)
			}
			for i := range tt.expect {
				if ids[i] != tt.expect[i] {
					t.Fatalf("expected %v, got %v", tt.expect, ids)
				}
			}

			if step.Initial != 5 || step.Left != len(tt.expect) || step.Dropped != 5-len(tt.expect) {
				t.Fatalf("unexpected step info: %+v", step)
			}
		})
	}
}

func TestExperienceFilterIgnoresCompanyAndSkills(t *testing.T) {
	corpus := candidate.NewCorpus([]candidate.Candidate{{
		ID:     "c1",
		Skills: []string{"Software Engineer"},
		Experience: []candidate.ExperienceEntry{{
			Role:     "Cook",
			Company:  "Software Engineer Inc",
			Duration: "Software Engineer",
		}},
	}})

	f := NewExperience(&ExperienceConfig{Field: "Software Engineer"}, nil)
	next, _, err := f.Apply(context.Background(), corpus.All())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.Len() != 0 {
		t.Fatalf("only role titles may match, got %v", next.IDs())
	}
}

func TestExperienceFilterThreshold(t *testing.T) {
	c := candidate.Candidate{ID: "c1", Experience: experience("Sofware Engineer")}

	if _, _, ok := RelevantRole(c, "software engineer", 94); ok {
		t.Fatal("score equal to the threshold must not match")
	}

	role, score, ok := RelevantRole(c, "Software Engineer", 93)
	if !ok || role != "Sofware Engineer" || score != 94 {
		t.Fatalf("unexpected match: %q %d %v", role, score, ok)
	}

	if err := NewExperience(&ExperienceConfig{Threshold: 101}, nil).Validate(); err == nil {
		t.Fatal("expected validation error for threshold above 100")
	}
}

func TestRelevantRoleNearThreshold(t *testing.T) {
	tests := []struct {
		role     string
		score    int
		retained bool
	}{
		{role: "DevOps Engineer", score: 77, retained: true},
		{role: "Sales Engineer", score: 81, retained: true},
		{role: "Software Developer", score: 71, retained: true},
		{role: "Team Lead", retained: false},
		{role: "Data Analyst", retained: false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			c := candidate.Candidate{ID: "c1", Experience: experience(tt.role)}

			role, score, ok := RelevantRole(c, "Software Engineer", DefaultRoleThreshold)
			if ok != tt.retained || score != tt.score {
				t.Fatalf("expected retained=%v score=%d, got %v %d", tt.retained, tt.score, ok, score)
			}
			if ok && role != tt.role {
				t.Fatalf("expected role %q, got %q", tt.role, role)
			}
		})
	}
}

func TestExperienceFilterLogsRolesOfDroppedCandidates(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	corpus := candidate.NewCorpus([]candidate.Candidate{
		{ID: "cook", Experience: experience("Cook", "Waiter")},
	})

	f := NewExperience(&ExperienceConfig{Field: "Software Engineer"}, zap.New(core))
	if _, _, err := f.Apply(context.Background(), corpus.All()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("no role resembles the field").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	roles, ok := entries[0].ContextMap()["roles"].([]interface{})
	if !ok || len(roles) != 2 || roles[0] != "Cook" || roles[1] != "Waiter" {
		t.Fatalf("unexpected roles field: %v", entries[0].ContextMap()["roles"])
	}
}

func TestRunFiltersLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	corpus := candidate.NewCorpus([]candidate.Candidate{
		{ID: "a", Experience: experience("QA Engineer")},
		{ID: "b", Experience: experience("QA Engineer")},
		{ID: "c", Experience: experience("Designer")},
	})

	filters := New([]Filter{
		NewExcluded([]string{"b", " "}),
		NewExperience(&ExperienceConfig{Field: "qa engineer"}, logger),
	}, logger)

	result, err := filters.RunFilters(context.Background(), corpus.All())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ids := result.IDs(); len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("unexpected result: %v", ids)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 2 {
		t.Fatalf("expected 2 step logs, got %d", len(steps))
	}

	ctx := steps[0].ContextMap()
	if ctx["name"] != "excluded" || ctx["dropped"] != int64(1) {
		t.Fatalf("unexpected first step log: %v", ctx)
	}
}

func TestRunFiltersSkipsDisabledAndFailsValidation(t *testing.T) {
	corpus := candidate.NewCorpus([]candidate.Candidate{{ID: "a"}})

	experienceStep := NewExperience(&ExperienceConfig{Field: "qa"}, nil)
	filters := New([]Filter{experienceStep}, nil)
	filters.DisableByName("experience", "testing")

	result, err := filters.RunFilters(context.Background(), corpus.All())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 1 {
		t.Fatalf("disabled filter must not drop candidates")
	}

	statuses := filters.Describe()
	if len(statuses) != 1 || statuses[0].Enabled || statuses[0].Reason != "testing" {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}

	broken := New([]Filter{NewExperience(&ExperienceConfig{Threshold: 150}, nil)}, nil)
	if _, err := broken.RunFilters(context.Background(), corpus.All()); err == nil {
		t.Fatal("expected validation error")
	}
}
