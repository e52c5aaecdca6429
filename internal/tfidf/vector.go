package tfidf

import (
	"errors"
	"fmt"
	"math"
)

// ErrSpaceMismatch is returned when comparing vectors built in different spaces.
var ErrSpaceMismatch = errors.New("vectors belong to different vector spaces")

// Vector is a point in a Space.
type Vector struct {
	space  *Space
	values []float64
}

func (v Vector) Space() *Space {
	return v.space
}

func (v Vector) Dim() int {
	return len(v.values)
}

func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

func (v Vector) Norm() float64 {
	return l2(v.values)
}

func (v Vector) IsZero() bool {
	for _, x := range v.values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Scale returns a copy multiplied by factor, kept in the same space.
func (v Vector) Scale(factor float64) Vector {
	values := make([]float64, len(v.values))
	for i, x := range v.values {
		values[i] = x * factor
	}
	return Vector{space: v.space, values: values}
}

// Cosine returns the cosine similarity of a and b. A zero vector on either side
// gives 0.
func Cosine(a, b Vector) (float64, error) {
	if a.space != b.space {
		return 0, ErrSpaceMismatch
	}

	if len(a.values) != len(b.values) {
		return 0, fmt.Errorf("%w: dimensions %d and %d", ErrSpaceMismatch, len(a.values), len(b.values))
	}

	var dot, normA, normB float64
	for i := range a.values {
		dot += a.values[i] * b.values[i]
		normA += a.values[i] * a.values[i]
		normB += b.values[i] * b.values[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity > 1 {
		similarity = 1
	}

	return similarity, nil
}
