package candidate

import (
	"context"
	"fmt"
)

// Loader supplies the full set of candidate records.
type Loader interface {
	LoadAll(ctx context.Context) ([]Record, error)
}

// Corpus is the ordered candidate set loaded for one matching run.
type Corpus struct {
	items []Candidate
}

func NewCorpus(items []Candidate) *Corpus {
	return &Corpus{items: append([]Candidate(nil), items...)}
}

// Load reads and decodes every record from the loader.
func Load(ctx context.Context, loader Loader) (*Corpus, error) {
	records, err := loader.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyCorpus
	}

	return DecodeAll(records)
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

func (c *Corpus) At(i int) Candidate {
	return c.items[i]
}

// SkillTexts returns one skills document per candidate in corpus order.
func (c *Corpus) SkillTexts() []string {
	docs := make([]string, 0, c.Len())
	for _, item := range c.items {
		docs = append(docs, item.SkillText())
	}
	return docs
}

// All returns a selection covering the whole corpus.
func (c *Corpus) All() *Selection {
	indices := make([]int, c.Len())
	for i := range indices {
		indices[i] = i
	}
	return &Selection{corpus: c, indices: indices}
}

// Selection is an ordered subset of a corpus. It can only shrink, so it never
// holds a candidate that was dropped earlier.
type Selection struct {
	corpus  *Corpus
	indices []int
}

func (s *Selection) Len() int {
	return len(s.indices)
}

func (s *Selection) Corpus() *Corpus {
	return s.corpus
}

// Indices returns corpus positions of the selected candidates.
func (s *Selection) Indices() []int {
	return append([]int(nil), s.indices...)
}

func (s *Selection) Candidates() []Candidate {
	items := make([]Candidate, 0, len(s.indices))
	for _, idx := range s.indices {
		items = append(items, s.corpus.items[idx])
	}
	return items
}

func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.indices))
	for _, idx := range s.indices {
		ids = append(ids, s.corpus.items[idx].ID)
	}
	return ids
}

// Keep returns a new selection with candidates accepted by keep, preserving order,
// and the IDs of dropped candidates.
func (s *Selection) Keep(keep func(Candidate) bool) (*Selection, []string) {
	kept := make([]int, 0, len(s.indices))
	var dropped []string

	for _, idx := range s.indices {
		c := s.corpus.items[idx]
		if keep(c) {
			kept = append(kept, idx)
			continue
		}
		dropped = append(dropped, c.ID)
	}

	return &Selection{corpus: s.corpus, indices: kept}, dropped
}
