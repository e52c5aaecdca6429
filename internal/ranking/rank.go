// Package ranking orders filtered candidates by skill similarity to a project.
package ranking

import (
	"fmt"
	"sort"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/tfidf"
)

// Scored is a candidate annotated for one matching run. Index is its corpus position
// and breaks ties between equal scores.
type Scored struct {
	Candidate candidate.Candidate
	Index     int
	Vector    tfidf.Vector
}

type Entry struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name,omitempty"`
	Score       float64 `json:"similarity_score"`
	Rank        int     `json:"rank"`
	Index       int     `json:"-"`
}

// Shortlist is the ranked output. NoCandidates is set when ranking had nothing to rank,
// which is different from a requested size of zero.
type Shortlist struct {
	Entries      []Entry `json:"entries"`
	NoCandidates bool    `json:"no_candidates"`
}

func (s *Shortlist) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

func (s *Shortlist) IDs() []string {
	ids := make([]string, 0, s.Len())
	for _, e := range s.Entries {
		ids = append(ids, e.CandidateID)
	}
	return ids
}

// Rank scores every item against project and returns the best k by descending cosine
// similarity. Equal scores keep corpus order. The result has min(k, len(items)) entries.
func Rank(items []Scored, project tfidf.Vector, k int) (*Shortlist, error) {
	if len(items) == 0 {
		return &Shortlist{Entries: []Entry{}, NoCandidates: true}, nil
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		score, err := tfidf.Cosine(project, item.Vector)
		if err != nil {
			return nil, fmt.Errorf("scoring candidate %q: %w", item.Candidate.ID, err)
		}

		entries = append(entries, Entry{
			CandidateID: item.Candidate.ID,
			Name:        item.Candidate.Name,
			Score:       score,
			Index:       item.Index,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Index < entries[j].Index
	})

	k = max(0, min(k, len(entries)))
	entries = entries[:k]
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &Shortlist{Entries: entries}, nil
}
