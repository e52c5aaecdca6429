package tfidf

import (
	"math"
	"sort"
)

// Space is a fitted vocabulary with inverse document frequency weights.
// It is frozen once Fit returns; vectors from different spaces are not comparable.
type Space struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	documents  int
}

// Fit builds a space over docs. Term columns are sorted lexicographically and weighted
// with the smoothed IDF ln((1+n)/(1+df)) + 1.
func Fit(docs []string) *Space {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, token := range Tokenize(doc) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return &Space{
		vocabulary: vocabulary,
		terms:      terms,
		idf:        idf,
		documents:  len(docs),
	}
}

// Dim is the number of columns in the space.
func (s *Space) Dim() int {
	return len(s.terms)
}

// Documents is the number of documents the space was fitted on.
func (s *Space) Documents() int {
	return s.documents
}

// Degenerate reports a space without any terms. Every vector in it is zero.
func (s *Space) Degenerate() bool {
	return len(s.terms) == 0
}

func (s *Space) Terms() []string {
	return append([]string(nil), s.terms...)
}

// Transform projects text into the space. Tokens unseen during Fit are ignored.
func (s *Space) Transform(text string) Vector {
	values := make([]float64, len(s.terms))
	for _, token := range Tokenize(text) {
		if idx, ok := s.vocabulary[token]; ok {
			values[idx]++
		}
	}

	for i := range values {
		values[i] *= s.idf[i]
	}

	return Vector{space: s, values: normalize(values)}
}

// TransformAll projects each document in order.
func (s *Space) TransformAll(docs []string) []Vector {
	vectors := make([]Vector, 0, len(docs))
	for _, doc := range docs {
		vectors = append(vectors, s.Transform(doc))
	}
	return vectors
}

func normalize(values []float64) []float64 {
	norm := l2(values)
	if norm == 0 {
		return values
	}

	for i := range values {
		values[i] /= norm
	}
	return values
}

func l2(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum)
}
