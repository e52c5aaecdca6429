package fuzzy

// popularMinLen is the length of b from which very frequent runes stop seeding matches.
const popularMinLen = 200

type block struct {
	i, j, size int
}

// matcher splits a and b into matching blocks: the longest common run first, the
// leftmost one on ties, then the same search on both sides of it.
type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	if n := len(b); n >= popularMinLen {
		limit := n/100 + 1
		for r, positions := range b2j {
			if len(positions) > limit {
				delete(b2j, r)
			}
		}
	}

	return &matcher{a: a, b: b, b2j: b2j}
}

// longestMatch finds the longest run a[i:i+size] == b[j:j+size] inside the given bounds.
func (m *matcher) longestMatch(alo, ahi, blo, bhi int) block {
	best := block{i: alo, j: blo}

	// run length of the match ending at b[j] for the previous row of a
	runs := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}

			k := runs[j-1] + 1
			next[j] = k
			if k > best.size {
				best = block{i: i - k + 1, j: j - k + 1, size: k}
			}
		}
		runs = next
	}

	// popular runes were left out of b2j, grow the block over them
	for best.i > alo && best.j > blo && m.a[best.i-1] == m.b[best.j-1] {
		best.i--
		best.j--
		best.size++
	}
	for best.i+best.size < ahi && best.j+best.size < bhi && m.a[best.i+best.size] == m.b[best.j+best.size] {
		best.size++
	}

	return best
}

// matchingBlocks returns the non-empty blocks followed by the {len(a), len(b), 0} sentinel.
func (m *matcher) matchingBlocks() []block {
	var blocks []block

	queue := [][4]int{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]
		x := m.longestMatch(alo, ahi, blo, bhi)
		if x.size == 0 {
			continue
		}

		blocks = append(blocks, x)
		if alo < x.i && blo < x.j {
			queue = append(queue, [4]int{alo, x.i, blo, x.j})
		}
		if x.i+x.size < ahi && x.j+x.size < bhi {
			queue = append(queue, [4]int{x.i + x.size, ahi, x.j + x.size, bhi})
		}
	}

	return append(blocks, block{i: len(m.a), j: len(m.b)})
}
