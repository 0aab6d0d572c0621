package proptest

import "slices"

// OneOf returns one of values. It panics if values is empty.
func OneOf[T any](g *Generator, values ...T) T { return Pick(g, values) }

// Pick returns an element of a non-empty slice.
func Pick[T any](g *Generator, from []T) T {
	if len(from) == 0 {
		panic("proptest: Pick from an empty slice")
	}
	return from[g.Intn(len(from))]
}

// Weighted picks values[i] with probability weights[i] / sum(weights).
func Weighted[T any](g *Generator, weights []float64, values []T) T {
	if len(values) == 0 || len(weights) != len(values) {
		panic("proptest: Weighted needs one weight per value")
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	target := g.Float64() * sum
	for i, w := range weights {
		if target < w {
			return values[i]
		}
		target -= w
	}
	return values[len(values)-1]
}

// Shuffle returns a permuted copy; in is left untouched.
func Shuffle[T any](g *Generator, in []T) []T {
	out := slices.Clone(in)
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Sample returns n distinct positions of in, in random order.
func Sample[T any](g *Generator, in []T, n int) []T {
	if n > len(in) {
		panic("proptest: Sample size exceeds input")
	}
	return Shuffle(g, in)[:n]
}

// SliceN fills a slice of random length in [minLen, maxLen] with gen.
func SliceN[T any](g *Generator, minLen, maxLen int, gen func(*Generator) T) []T {
	out := make([]T, 0, maxLen)
	for n := g.IntRange(minLen, maxLen); n > 0; n-- {
		out = append(out, gen(g))
	}
	return out
}

// Optional skips gen with probability nilChance, returning false.
func Optional[T any](g *Generator, nilChance float64, gen func(*Generator) T) (v T, ok bool) {
	if g.BoolWithProb(nilChance) {
		return v, false
	}
	return gen(g), true
}

// UniqueIdentifiers returns up to n distinct lower case identifiers; it
// gives up after 10n draws.
func (g *Generator) UniqueIdentifiers(n, maxLen int) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for tries := 10 * n; tries > 0 && len(out) < n; tries-- {
		id := g.IdentifierLower(maxLen)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
