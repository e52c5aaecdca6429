package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/fuzzy"
)

// DefaultRoleThreshold is the partial ratio a role has to exceed to count as relevant.
const DefaultRoleThreshold = 70

type ExperienceConfig struct {
	Field     string
	Threshold int
}

type experienceFilter struct {
	field     string
	threshold int
	enabled   bool
	reason    string
	logger    *zap.Logger
}

// NewExperience creates a filter that keeps candidates with at least one role title
// resembling the requested field.
func NewExperience(cfg *ExperienceConfig, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &experienceFilter{
		threshold: DefaultRoleThreshold,
		enabled:   true,
		logger:    logger,
	}

	if cfg != nil {
		f.field = cfg.Field
		if cfg.Threshold > 0 {
			f.threshold = cfg.Threshold
		}
	}

	return f
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *experienceFilter) IsEnabled() bool { return f.enabled }

func (f *experienceFilter) Validate() error {
	if f.threshold > 100 {
		return fmt.Errorf("role threshold must be within 0-100, got %d", f.threshold)
	}
	return nil
}

func (f *experienceFilter) Apply(_ context.Context, s *candidate.Selection) (*candidate.Selection, Step, error) {
	initial := s.Len()
	field := strings.ToLower(strings.TrimSpace(f.field))

	next, dropped := s.Keep(func(c candidate.Candidate) bool {
		role, score, ok := RelevantRole(c, field, f.threshold)
		if ok {
			f.logger.Debug("relevant experience found",
				zap.String("candidate_id", c.ID),
				zap.String("role", role),
				zap.Int("similarity", score),
			)
		} else {
			f.logger.Debug("no role resembles the field",
				zap.String("candidate_id", c.ID),
				zap.Strings("roles", c.Roles()),
			)
		}
		return ok
	})

	if len(dropped) > 0 {
		f.logger.Debug("excluding candidates without relevant experience",
			zap.String("field", f.field),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", next.Len()),
		)
	}

	return next, Step{Initial: initial, Dropped: len(dropped), Left: next.Len()}, nil
}

func (f *experienceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{
			"field":     f.field,
			"threshold": strconv.Itoa(f.threshold),
		},
	}
}

// RelevantRole returns the first role of c whose partial ratio against field is above
// threshold. Both sides are compared lower-cased. An empty field never matches.
func RelevantRole(c candidate.Candidate, field string, threshold int) (string, int, bool) {
	field = strings.ToLower(field)
	for _, exp := range c.Experience {
		score := fuzzy.PartialRatio(field, strings.ToLower(exp.Role))
		if score > threshold {
			return exp.Role, score, true
		}
	}

	return "", 0, false
}
