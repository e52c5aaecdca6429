// Package matching runs a full candidate matching pass: relevance filtering,
// skill similarity ranking and the optional advisory step.
package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/filtering"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/ranking"
	"github.com/spigell/staffmatch/internal/tfidf"
)

type Outcome string

const (
	OutcomeShortlisted          Outcome = "shortlisted"
	OutcomeNoRelevantCandidates Outcome = "no_relevant_candidates"
)

var (
	fitSpace = tfidf.Fit
	rankAll  = ranking.Rank
)

type Options struct {
	// RoleThreshold overrides filtering.DefaultRoleThreshold when positive.
	RoleThreshold int
	// Exclude lists candidate ids that never take part in matching.
	Exclude []string
	// Advisor is optional. Without it the result carries no advisory.
	Advisor ai.Advisor
}

type Engine struct {
	threshold int
	exclude   []string
	advisor   ai.Advisor
	logger    *zap.Logger
}

func New(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		threshold: opts.RoleThreshold,
		exclude:   append([]string(nil), opts.Exclude...),
		advisor:   opts.Advisor,
		logger:    log,
	}
}

// Result is the outcome of one matching run. Advisory is nil when no advisor is
// configured or when it failed; AdvisoryErr tells the two apart.
type Result struct {
	RunID       string             `json:"run_id"`
	Outcome     Outcome            `json:"outcome"`
	Criteria    candidate.Criteria `json:"project_criteria"`
	Considered  int                `json:"considered"`
	Relevant    int                `json:"relevant"`
	Degenerate  bool               `json:"degenerate,omitempty"`
	Shortlist   *ranking.Shortlist `json:"shortlist,omitempty"`
	Payload     *ai.AdvisoryInput  `json:"-"`
	Advisory    *ai.Advisory       `json:"advisory"`
	AdvisoryErr error              `json:"-"`
	Filters     []filtering.Status `json:"-"`
}

// Match filters the corpus by experience, ranks the survivors by skill similarity against
// the required skills and asks the advisor about the shortlist. The vector space is fitted
// over the whole corpus, not only over the relevant candidates.
func (e *Engine) Match(ctx context.Context, criteria *candidate.Criteria, corpus *candidate.Corpus) (*Result, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	if corpus.Len() == 0 {
		return nil, candidate.ErrEmptyCorpus
	}

	normalized := criteria.Normalized()
	runID := uuid.NewString()
	log := logger.WithFields(e.logger, logger.RunID(runID))

	log.Info("starting matching run",
		zap.Int("corpus", corpus.Len()),
		zap.String("field", normalized.Field),
		zap.Int("people_count", normalized.PeopleCount),
	)

	result := &Result{
		RunID:      runID,
		Criteria:   normalized,
		Considered: corpus.Len(),
	}

	filters := filtering.New([]filtering.Filter{
		filtering.NewExcluded(e.exclude),
		filtering.NewExperience(&filtering.ExperienceConfig{
			Field:     normalized.Field,
			Threshold: e.threshold,
		}, log),
	}, log)
	result.Filters = filters.Describe()

	relevant, err := filters.RunFilters(ctx, corpus.All())
	if err != nil {
		return nil, fmt.Errorf("filtering candidates: %w", err)
	}
	result.Relevant = relevant.Len()

	if relevant.Len() == 0 {
		log.Info("no relevant candidates", zap.String("field", normalized.Field))
		result.Outcome = OutcomeNoRelevantCandidates
		return result, nil
	}

	space := fitSpace(corpus.SkillTexts())
	log.Debug("skill space fitted",
		zap.Int("documents", space.Documents()),
		zap.Strings("vocabulary", space.Terms()),
	)
	if space.Degenerate() {
		result.Degenerate = true
		log.Warn("skill vocabulary is empty, every similarity is zero",
			zap.Int("documents", space.Documents()),
		)
	}

	project := space.Transform(normalized.RequiredSkills)
	if project.IsZero() && !space.Degenerate() {
		log.Warn("required skills share no terms with the corpus",
			zap.String("required_skills", normalized.RequiredSkills),
		)
	}

	candidates := relevant.Candidates()
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		texts = append(texts, c.SkillText())
	}
	vectors := space.TransformAll(texts)

	items := make([]ranking.Scored, 0, len(candidates))
	for i, idx := range relevant.Indices() {
		items = append(items, ranking.Scored{
			Candidate: candidates[i],
			Index:     idx,
			Vector:    vectors[i],
		})
	}

	shortlist, err := rankAll(items, project, normalized.PeopleCount)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	result.Outcome = OutcomeShortlisted
	result.Shortlist = shortlist
	result.Payload = buildPayload(normalized, corpus, shortlist)

	for _, entry := range shortlist.Entries {
		log.Debug("shortlisted",
			logger.CandidateID(entry.CandidateID),
			zap.Int("rank", entry.Rank),
			zap.Float64("similarity_score", entry.Score),
		)
	}

	log.Info("ranking done",
		zap.Int("relevant", relevant.Len()),
		zap.Int("shortlisted", shortlist.Len()),
	)

	if e.advisor == nil {
		return result, nil
	}

	advisory, err := e.advisor.Advise(ctx, result.Payload)
	if err != nil {
		if !errors.Is(err, ai.ErrOracleUnavailable) {
			err = fmt.Errorf("%w: %w", ai.ErrOracleUnavailable, err)
		}
		result.AdvisoryErr = err
		log.Warn("advisory failed, keeping the shortlist", zap.Error(err))
		return result, nil
	}

	result.Advisory = advisory
	return result, nil
}

func buildPayload(criteria candidate.Criteria, corpus *candidate.Corpus, shortlist *ranking.Shortlist) *ai.AdvisoryInput {
	payload := &ai.AdvisoryInput{
		Criteria:  criteria,
		Shortlist: make([]ai.ShortlistCandidate, 0, shortlist.Len()),
	}

	for _, entry := range shortlist.Entries {
		c := corpus.At(entry.Index)
		payload.Shortlist = append(payload.Shortlist, ai.ShortlistCandidate{
			Rank:       entry.Rank,
			ID:         c.ID,
			Name:       c.Name,
			Score:      entry.Score,
			Skills:     c.Skills,
			Experience: c.Experience,
		})
	}

	return payload
}
