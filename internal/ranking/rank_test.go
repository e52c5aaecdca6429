package ranking

import (
	"errors"
	"testing"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/tfidf"
)

func scoredFixture(skills ...string) ([]Scored, *tfidf.Space) {
	space := tfidf.Fit(skills)
	items := make([]Scored, 0, len(skills))
	for i, s := range skills {
		items = append(items, Scored{
			Candidate: candidate.Candidate{ID: string(rune('a' + i)), Skills: []string{s}},
			Index:     i,
			Vector:    space.Transform(s),
		})
	}
	return items, space
}

func TestRankOrdersByDescendingSimilarity(t *testing.T) {
	items, space := scoredFixture("Python", "Java", "Java Spring Hibernate", "Java Spring")

	shortlist, err := Rank(items, space.Transform("Java Spring"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := shortlist.IDs()
	expected := []string{"d", "c", "b"}
	if len(ids) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, ids)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, ids)
		}
		if shortlist.Entries[i].Rank != i+1 {
			t.Fatalf("unexpected rank at %d: %d", i, shortlist.Entries[i].Rank)
		}
	}

	if shortlist.NoCandidates {
		t.Fatal("did not expect the no candidates signal")
	}
}

func TestRankTiesKeepCorpusOrder(t *testing.T) {
	items, space := scoredFixture("Go", "Rust", "Go", "Go")

	// Feed the items out of corpus order; the tie-break is the corpus index.
	shuffled := []Scored{items[3], items[1], items[0], items[2]}

	shortlist, err := Rank(shuffled, space.Transform("Go"), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := shortlist.IDs()
	expected := []string{"a", "c", "d", "b"}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, ids)
		}
	}
}

func TestRankBounds(t *testing.T) {
	items, space := scoredFixture("Go", "Java", "Rust")
	project := space.Transform("Go")

	tests := []struct {
		name   string
		k      int
		expect int
	}{
		{name: "zero", k: 0, expect: 0},
		{name: "negative", k: -3, expect: 0},
		{name: "smaller than input", k: 2, expect: 2},
		{name: "larger than input", k: 10, expect: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shortlist, err := Rank(items, project, tt.k)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if shortlist.Len() != tt.expect {
				t.Fatalf("expected %d entries, got %d", tt.expect, shortlist.Len())
			}
			if shortlist.NoCandidates {
				t.Fatal("non-empty input must not signal no candidates")
			}
		})
	}
}

func TestRankEmptyInputSignalsNoCandidates(t *testing.T) {
	space := tfidf.Fit([]string{"Go"})

	shortlist, err := Rank(nil, space.Transform("Go"), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !shortlist.NoCandidates || shortlist.Len() != 0 {
		t.Fatalf("expected empty shortlist with no candidates signal, got %+v", shortlist)
	}
}

func TestRankScaleInvariance(t *testing.T) {
	items, space := scoredFixture("Java", "Java Spring", "Spring")
	project := space.Transform("Java Spring")

	before, err := Rank(items, project, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items[2].Vector = items[2].Vector.Scale(42)
	after, err := Rank(items, project, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range before.Entries {
		if before.Entries[i].CandidateID != after.Entries[i].CandidateID {
			t.Fatalf("scaling changed order: %v vs %v", before.IDs(), after.IDs())
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	skills := []string{"Go Kubernetes", "Go", "Kubernetes Terraform", "Python", "Go Terraform"}

	run := func() *Shortlist {
		items, space := scoredFixture(skills...)
		shortlist, err := Rank(items, space.Transform("Go Terraform"), 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return shortlist
	}

	first, second := run(), run()
	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Fatalf("runs differ at %d: %+v vs %+v", i, first.Entries[i], second.Entries[i])
		}
	}
}

func TestRankZeroProjectVector(t *testing.T) {
	items, space := scoredFixture("Go", "Java")

	shortlist, err := Rank(items, space.Transform("COBOL"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, e := range shortlist.Entries {
		if e.Score != 0 {
			t.Fatalf("expected zero scores, got %+v", e)
		}
	}

	if ids := shortlist.IDs(); ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("zero scores must keep corpus order, got %v", ids)
	}
}

func TestRankRejectsForeignProjectVector(t *testing.T) {
	items, _ := scoredFixture("Go", "Java")
	foreign := tfidf.Fit([]string{"Go", "Java"}).Transform("Go")

	if _, err := Rank(items, foreign, 2); !errors.Is(err, tfidf.ErrSpaceMismatch) {
		t.Fatalf("expected ErrSpaceMismatch, got %v", err)
	}
}
