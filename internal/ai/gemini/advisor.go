package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

const (
	selectionSystem = "You are a hiring assistant that matches candidates to projects."
	growthSystem    = "You are a career advisor for software engineers."

	defaultMaxLogLength = 200
)

var (
	//go:embed selection.md
	selectionTemplate string

	//go:embed growth.md
	growthTemplate string
)

// Advisor asks Gemini for a selection narrative and growth recommendations for a shortlist.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAdvisor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Advisor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Advise runs the selection prompt and then the growth prompt. Either failure fails the whole advisory.
func (a *Advisor) Advise(ctx context.Context, input *ai.AdvisoryInput) (*ai.Advisory, error) {
	if input == nil {
		return nil, errors.New("advisory input is required")
	}

	if a.generator == nil {
		return nil, fmt.Errorf("%w: gemini generator is not configured", ai.ErrOracleUnavailable)
	}

	criteriaJSON, err := json.MarshalIndent(input.Criteria, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project criteria: %w", err)
	}

	shortlistJSON, err := json.MarshalIndent(input.Shortlist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal shortlist: %w", err)
	}

	selection, err := a.generate(ctx, "selection", selectionSystem, buildPrompt(selectionTemplate, string(criteriaJSON), string(shortlistJSON)))
	if err != nil {
		return nil, fmt.Errorf("%w: selection: %w", ai.ErrOracleUnavailable, err)
	}

	growth, err := a.generate(ctx, "growth", growthSystem, buildPrompt(growthTemplate, string(criteriaJSON), string(shortlistJSON)))
	if err != nil {
		return nil, fmt.Errorf("%w: growth: %w", ai.ErrOracleUnavailable, err)
	}

	return &ai.Advisory{
		Selection: selection,
		Growth:    growth,
	}, nil
}

func (a *Advisor) generate(ctx context.Context, kind, system, prompt string) (string, error) {
	a.logger.Debug("gemini generate content request",
		zap.String("prompt_kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug("gemini generate content response",
		zap.String("prompt_kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func buildPrompt(template, criteriaJSON, shortlistJSON string) string {
	if strings.TrimSpace(template) == "" {
		template = "Project criteria:\n{{CRITERIA_JSON}}\n\nShortlisted candidates:\n{{SHORTLIST_JSON}}\n"
	}
	prompt := strings.ReplaceAll(template, "{{CRITERIA_JSON}}", criteriaJSON)
	prompt = strings.ReplaceAll(prompt, "{{SHORTLIST_JSON}}", shortlistJSON)
	return prompt
}
