package proptest

import (
	"testing"
	"time"

	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/compile"
)

func TestGenerator_Deterministic(t *testing.T) {
	g1 := New(12345)
	g2 := New(12345)

	for i := 0; i < 100; i++ {
		if v1, v2 := g1.Intn(1000), g2.Intn(1000); v1 != v2 {
			t.Fatalf("same seed produced different values at iteration %d: %d vs %d", i, v1, v2)
		}
	}
}

func TestGenerator_ZeroSeedUsesTime(t *testing.T) {
	if New(0).Seed() == 0 {
		t.Error("expected a non-zero seed")
	}
	if New(42).Seed() != 42 {
		t.Error("expected seed to be kept")
	}
}

func TestIntRange_Bounds(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		if n := g.IntRange(-5, 5); n < -5 || n > 5 {
			t.Fatalf("IntRange(-5, 5) = %d", n)
		}
	}
	if n := g.IntRange(7, 7); n != 7 {
		t.Errorf("IntRange(7, 7) = %d", n)
	}
}

func TestIdentifierLower_Valid(t *testing.T) {
	g := New(2)
	for i := 0; i < 500; i++ {
		id := g.IdentifierLower(20)
		if err := compile.ValidateIdentifier(id); err != nil {
			t.Fatalf("IdentifierLower produced %q: %v", id, err)
		}
	}
}

func TestUniqueIdentifiers(t *testing.T) {
	ids := New(3).UniqueIdentifiers(20, 10)
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate identifier %q", id)
		}
		seen[id] = true
	}
	if len(ids) != 20 {
		t.Errorf("expected 20 identifiers, got %d", len(ids))
	}
}

func TestTemporalGenerators(t *testing.T) {
	g := New(4)
	lo := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2101, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		ts := g.Timestamp()
		if ts.Before(lo) || !ts.Before(hi) || ts.Nanosecond()%1000 != 0 {
			t.Fatalf("Timestamp out of range: %v", ts)
		}
		if d := g.Date(); d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("Date is not midnight: %v", d)
		}
		if tod := g.TimeOfDay(); tod < 0 || tod >= 24*time.Hour {
			t.Fatalf("TimeOfDay out of range: %v", tod)
		}
	}
}

func TestLiteral_MatchesType(t *testing.T) {
	g := New(5)
	for i := 0; i < 500; i++ {
		vt := g.ValueType()
		lit := g.Literal(vt)
		if lit.Type != vt {
			t.Fatalf("Literal(%s) has type %s", vt, lit.Type)
		}
		if lit.Null {
			t.Fatalf("Literal(%s) is NULL", vt)
		}
	}
}

func TestValueType_NeverNoValue(t *testing.T) {
	g := New(6)
	for i := 0; i < 500; i++ {
		if g.ValueType() == query.NoValue {
			t.Fatal("ValueType returned NoValue")
		}
	}
}

func TestSample_Distinct(t *testing.T) {
	g := New(7)
	in := []int{1, 2, 3, 4, 5, 6}
	for i := 0; i < 100; i++ {
		out := Sample(g, in, 4)
		seen := make(map[int]bool)
		for _, v := range out {
			if seen[v] {
				t.Fatalf("Sample returned duplicate %d in %v", v, out)
			}
			seen[v] = true
		}
	}
}

func TestWeighted_Biased(t *testing.T) {
	g := New(8)
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[Weighted(g, []float64{9, 1}, []string{"a", "b"})]++
	}
	if counts["a"] < counts["b"]*3 {
		t.Errorf("expected a to dominate, got %v", counts)
	}
}

func TestCheck_Passes(t *testing.T) {
	Check(t, "ints stay in range", Config{NumTrials: 50, Seed: 9}, func(g *Generator) (string, bool) {
		n := g.IntRange(1, 10)
		return "", n >= 1 && n <= 10
	})
	QuickCheck(t, "bytes are bounded", func(g *Generator) bool {
		return len(g.Bytes(8)) <= 8
	})
}
