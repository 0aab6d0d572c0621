// Package proptest runs seeded property checks. A failing check logs its
// seed, and PROPTEST_SEED replays it:
//
//	proptest.QuickCheck(t, "literals are quoted", func(g *proptest.Generator) bool {
//	    s := g.EdgeCaseString()
//	    return strings.HasPrefix(render(s), "'")
//	})
package proptest

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"testing"
	"time"
)

// SeedEnv names the environment variable that overrides the seed.
const SeedEnv = "PROPTEST_SEED"

const defaultTrials = 100

// Generator is a seeded source of random values. Equal seeds yield equal
// sequences.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// New creates a Generator. A zero seed is replaced by the current time.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	return &Generator{rng: rand.New(src), seed: seed}
}

func (g *Generator) Seed() int64 { return g.seed }

// Intn returns an int in [0, n). It panics if n <= 0.
func (g *Generator) Intn(n int) int { return g.rng.IntN(n) }

// Int63n returns an int64 in [0, n). It panics if n <= 0.
func (g *Generator) Int63n(n int64) int64 { return g.rng.Int64N(n) }

// Float64 returns a float64 in [0.0, 1.0).
func (g *Generator) Float64() float64 { return g.rng.Float64() }

func (g *Generator) Bool() bool { return g.rng.Uint64()&1 == 1 }

// BoolWithProb returns true with probability p.
func (g *Generator) BoolWithProb(p float64) bool { return g.rng.Float64() < p }

// Config controls a property run.
type Config struct {
	// NumTrials defaults to 100.
	NumTrials int
	// Seed is used when non-zero and PROPTEST_SEED is unset.
	Seed int64
	// Verbose logs the seed of passing runs too.
	Verbose bool
}

// DefaultConfig returns 100 trials with a time based seed.
func DefaultConfig() Config { return Config{NumTrials: defaultTrials} }

func (c Config) seed() int64 {
	if v, ok := os.LookupEnv(SeedEnv); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// run drives trial until it returns a non-empty failure description.
func run(t *testing.T, name string, cfg Config, trial func(*Generator) (string, bool)) {
	t.Helper()
	n := cfg.NumTrials
	if n <= 0 {
		n = defaultTrials
	}
	seed := cfg.seed()
	g := New(seed)

	for i := 1; i <= n; i++ {
		if what, ok := trial(g); !ok {
			t.Errorf("proptest %q: trial %d/%d failed: %s\n\treplay with %s=%d", name, i, n, what, SeedEnv, seed)
			return
		}
	}
	if cfg.Verbose {
		t.Logf("proptest %q: %d trials passed (seed %d)", name, n, seed)
	}
}

// Check runs prop against one generator and reports the label of the first
// failing trial.
func Check(t *testing.T, name string, cfg Config, prop func(g *Generator) (label string, ok bool)) {
	t.Helper()
	run(t, name, cfg, prop)
}

// QuickCheck runs prop with the default configuration.
func QuickCheck(t *testing.T, name string, prop func(g *Generator) bool) {
	t.Helper()
	run(t, name, DefaultConfig(), func(g *Generator) (string, bool) {
		return "property returned false", prop(g)
	})
}

// ForAll runs prop numTrials times and reports the value that falsified it.
func ForAll[T any](t *testing.T, name string, numTrials int, prop func(g *Generator) (T, bool)) {
	t.Helper()
	run(t, name, Config{NumTrials: numTrials}, func(g *Generator) (string, bool) {
		v, ok := prop(g)
		return fmt.Sprintf("value %+v", v), ok
	})
}
