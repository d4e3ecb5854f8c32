package pattern

// Groups partitions a candidate set by the pattern each candidate gives
// against one guess. Every candidate lands in exactly one group and no
// group is empty.
type Groups struct {
	order   []Pattern
	members [][]string
	// slot holds 1 + the group index for each pattern code; 0 is no group.
	slot [NumPatterns]int32
	size int
}

// Partition groups candidates by their pattern against guess. Groups are
// kept in the order their first member appears in candidates.
func Partition(guess string, candidates []string) (*Groups, error) {
	g := &Groups{}
	for _, c := range candidates {
		p, err := Compute(guess, c)
		if err != nil {
			return nil, err
		}
		code := p.Code()
		if g.slot[code] == 0 {
			g.order = append(g.order, p)
			g.members = append(g.members, nil)
			g.slot[code] = int32(len(g.order))
		}
		i := g.slot[code] - 1
		g.members[i] = append(g.members[i], c)
	}
	g.size = len(candidates)
	return g, nil
}

// Len is the number of non-empty groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// Size is the number of candidates that were partitioned.
func (g *Groups) Size() int {
	return g.size
}

func (g *Groups) Patterns() []Pattern {
	return g.order
}

// Members returns the candidates giving pattern p, in input order.
func (g *Groups) Members(p Pattern) []string {
	i := g.slot[p.Code()]
	if i == 0 {
		return nil
	}
	return g.members[i-1]
}

// Each calls fn for every group in order.
func (g *Groups) Each(fn func(p Pattern, members []string)) {
	for i, p := range g.order {
		fn(p, g.members[i])
	}
}

// Filter returns the candidates that would have produced feedback if
// guess had been played against them.
func Filter(guess string, feedback Pattern, candidates []string) ([]string, error) {
	out := []string{}
	for _, c := range candidates {
		p, err := Compute(guess, c)
		if err != nil {
			return nil, err
		}
		if p == feedback {
			out = append(out, c)
		}
	}
	return out, nil
}
