// Package heuristic provides an offline advisor that explains a shortlist without calling a model.
package heuristic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/tfidf"
)

type Advisor struct{}

func New() *Advisor {
	return &Advisor{}
}

func (a *Advisor) Advise(ctx context.Context, input *ai.AdvisoryInput) (*ai.Advisory, error) {
	if input == nil {
		return nil, errors.New("advisory input is required")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	required := uniqueTokens(input.Criteria.RequiredSkills)

	var selection, growth strings.Builder

	limit := min(len(input.Shortlist), max(input.Criteria.PeopleCount, 0))
	fmt.Fprintf(&selection, "Selected %d of %d shortlisted candidates for %q.\n", limit, len(input.Shortlist), input.Criteria.Field)

	for i, c := range input.Shortlist {
		covered, missing := coverage(required, c.Skills)

		if i < limit {
			fmt.Fprintf(&selection, "%d. %s (score %.3f): covers %s", c.Rank, label(c), c.Score, listOrNone(covered))
			if len(c.Experience) > 0 {
				fmt.Fprintf(&selection, "; latest role %q", c.Experience[0].Role)
			}
			selection.WriteString("\n")
		}

		if len(missing) == 0 {
			fmt.Fprintf(&growth, "%s: already covers every required skill, deepen %s experience.\n", label(c), fieldOrDefault(input.Criteria.Field))
			continue
		}
		fmt.Fprintf(&growth, "%s: learn %s.\n", label(c), strings.Join(missing, ", "))
	}

	return &ai.Advisory{
		Selection: strings.TrimSpace(selection.String()),
		Growth:    strings.TrimSpace(growth.String()),
	}, nil
}

func coverage(required []string, skills []string) (covered, missing []string) {
	have := make(map[string]struct{})
	for _, skill := range skills {
		for _, token := range tfidf.Tokenize(skill) {
			have[token] = struct{}{}
		}
	}

	for _, token := range required {
		if _, ok := have[token]; ok {
			covered = append(covered, token)
			continue
		}
		missing = append(missing, token)
	}

	return covered, missing
}

func uniqueTokens(text string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, token := range tfidf.Tokenize(text) {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

func label(c ai.ShortlistCandidate) string {
	if c.Name == "" {
		return c.ID
	}
	return fmt.Sprintf("%s [%s]", c.Name, c.ID)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "no required skills"
	}
	return strings.Join(items, ", ")
}

func fieldOrDefault(field string) string {
	if strings.TrimSpace(field) == "" {
		return "project"
	}
	return field
}
