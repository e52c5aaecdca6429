package filtering

import (
	"context"
	"strings"

	"github.com/spigell/staffmatch/internal/candidate"
)

type excludedFilter struct {
	ids map[string]struct{}
}

// NewExcluded creates a filter that drops candidates listed in the config.
func NewExcluded(ids []string) Filter {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}

	return &excludedFilter{ids: set}
}

func (f *excludedFilter) Name() string { return "excluded" }

func (f *excludedFilter) Disable(string) {}

func (f *excludedFilter) IsEnabled() bool { return true }

func (f *excludedFilter) Validate() error { return nil }

func (f *excludedFilter) Apply(_ context.Context, s *candidate.Selection) (*candidate.Selection, Step, error) {
	initial := s.Len()
	if len(f.ids) == 0 {
		return s, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	next, dropped := s.Keep(func(c candidate.Candidate) bool {
		_, excluded := f.ids[c.ID]
		return !excluded
	})

	return next, Step{Initial: initial, Dropped: len(dropped), Left: next.Len()}, nil
}
