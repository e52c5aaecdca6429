// Package ai defines the advisory step that narrows a shortlist into narrative output.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/staffmatch/internal/candidate"
)

// ErrOracleUnavailable marks a failed or unreachable advisory provider.
var ErrOracleUnavailable = errors.New("advisory oracle unavailable")

// ShortlistCandidate is a shortlisted candidate together with its matching score.
type ShortlistCandidate struct {
	Rank       int                         `json:"rank"`
	ID         string                      `json:"id"`
	Name       string                      `json:"name,omitempty"`
	Score      float64                     `json:"similarity_score"`
	Skills     []string                    `json:"skills"`
	Experience []candidate.ExperienceEntry `json:"experience"`
}

// AdvisoryInput is everything an advisor gets to see.
type AdvisoryInput struct {
	Criteria  candidate.Criteria   `json:"project_criteria"`
	Shortlist []ShortlistCandidate `json:"shortlist"`
}

// Advisory holds the ranked selection narrative and per-candidate growth recommendations.
type Advisory struct {
	Selection string `json:"selection"`
	Growth    string `json:"growth"`
}

type Advisor interface {
	Advise(ctx context.Context, input *AdvisoryInput) (*Advisory, error)
}
