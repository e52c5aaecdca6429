package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/candidate"
)

type stubGenerator struct {
	responses []string
	errs      []error
	systems   []string
	prompts   []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	i := len(s.prompts)
	s.systems = append(s.systems, system)
	s.prompts = append(s.prompts, message)

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("unexpected call")
}

func sampleInput() *ai.AdvisoryInput {
	return &ai.AdvisoryInput{
		Criteria: candidate.Criteria{
			RequiredSkills: "Java Spring",
			Field:          "backend developer",
			PeopleCount:    1,
			Duration:       "6 months",
		},
		Shortlist: []ai.ShortlistCandidate{{
			Rank:   1,
			ID:     "c-1",
			Name:   "Ada",
			Score:  0.93,
			Skills: []string{"Java", "Spring"},
			Experience: []candidate.ExperienceEntry{{
				Role:    "Backend Developer",
				Company: "Acme",
			}},
		}},
	}
}

func TestAdvisorIssuesSelectionThenGrowth(t *testing.T) {
	gen := &stubGenerator{responses: []string{" pick Ada ", "learn Kotlin"}}
	core, observed := observer.New(zapcore.DebugLevel)

	advisor := NewAdvisor(gen, 50, zap.New(core))

	advisory, err := advisor.Advise(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if advisory.Selection != "pick Ada" || advisory.Growth != "learn Kotlin" {
		t.Fatalf("unexpected advisory: %+v", advisory)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(gen.prompts))
	}

	for i, prompt := range gen.prompts {
		if strings.Contains(prompt, "{{") {
			t.Fatalf("prompt %d still has placeholders", i)
		}
		if !strings.Contains(prompt, `"required_skills": "Java Spring"`) {
			t.Fatalf("prompt %d misses criteria:\n%s", i, prompt)
		}
		if !strings.Contains(prompt, `"similarity_score": 0.93`) {
			t.Fatalf("prompt %d misses shortlist scores:\n%s", i, prompt)
		}
	}

	if gen.systems[0] != selectionSystem || gen.systems[1] != growthSystem {
		t.Fatalf("unexpected system instructions: %v", gen.systems)
	}

	requests := observed.FilterMessage("gemini generate content request").All()
	if len(requests) != 2 {
		t.Fatalf("expected 2 request logs, got %d", len(requests))
	}
	preview, _ := requests[0].ContextMap()["prompt_preview"].(string)
	if len([]rune(preview)) > 53 {
		t.Fatalf("prompt preview is not truncated: %q", preview)
	}
}

func TestAdvisorFailureIsOracleUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		errs  []error
		calls int
	}{
		{name: "selection fails", errs: []error{errors.New("boom")}, calls: 1},
		{name: "growth fails", errs: []error{nil, errors.New("boom")}, calls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{responses: []string{"pick Ada", "learn Kotlin"}, errs: tt.errs}

			advisory, err := NewAdvisor(gen, 0, nil).Advise(context.Background(), sampleInput())
			if !errors.Is(err, ai.ErrOracleUnavailable) {
				t.Fatalf("expected ErrOracleUnavailable, got %v", err)
			}
			if advisory != nil {
				t.Fatalf("expected no advisory on failure")
			}
			if len(gen.prompts) != tt.calls {
				t.Fatalf("expected %d calls, got %d", tt.calls, len(gen.prompts))
			}
		})
	}
}

func TestAdvisorRequiresInput(t *testing.T) {
	if _, err := NewAdvisor(&stubGenerator{}, 0, nil).Advise(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil input")
	}
}
