package generator

import (
	"testing"

	"github.com/verte-zerg/symdrill/internal/errmodel"
)

type fixedTiers map[rune]int

func (f fixedTiers) ScoreTier(r rune) int { return f[r] }

func TestGenerateEmptyModel(t *testing.T) {
	g := NewSeeded(1)
	for i := 0; i < 100; i++ {
		prompt := g.Generate(errmodel.New(errmodel.DefaultParams()))
		if len(prompt) != PromptLen {
			t.Fatalf("expected %d runes, got %d", PromptLen, len(prompt))
		}
		for _, r := range prompt {
			if !errmodel.InAlphabet(r) {
				t.Fatalf("rune %q outside alphabet", r)
			}
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := NewSeeded(42).Generate(fixedTiers{})
	b := NewSeeded(42).Generate(fixedTiers{})
	if string(a) != string(b) {
		t.Fatalf("expected identical prompts for identical seeds: %q vs %q", string(a), string(b))
	}
}

func TestWeights(t *testing.T) {
	m := errmodel.New(errmodel.DefaultParams())
	for i := 0; i < 10; i++ {
		m.Account('a', '~')
	}
	g := NewSeeded(1)
	weights := g.Weights(m)
	if len(weights) != 94 {
		t.Fatalf("expected 94 weights, got %d", len(weights))
	}
	idx := int('a' - 0x21)
	if weights[idx] != 11 {
		t.Fatalf("expected weight 11 for a, got %d", weights[idx])
	}
	if weights[int('b'-0x21)] != 1 {
		t.Fatalf("expected weight 1 for untouched char, got %d", weights[int('b'-0x21)])
	}
	// Ten flat increments of 1 land exactly on one tier.
	if weights[int('~'-0x21)] != 2 {
		t.Fatalf("expected weight 2 for ~, got %d", weights[int('~'-0x21)])
	}
}

func TestGenerateFavorsHighScores(t *testing.T) {
	g := NewSeeded(7)
	scores := fixedTiers{'a': 10}

	counts := map[rune]int{}
	total := 0
	for i := 0; i < 2000; i++ {
		for _, r := range g.Generate(scores) {
			counts[r]++
			total++
		}
	}
	// a weighs 11 out of 93 + 11 = 104.
	expectedA := float64(total) * 11 / 104
	expectedOther := float64(total) / 104
	if got := float64(counts['a']); got < expectedA*0.9 || got > expectedA*1.1 {
		t.Fatalf("a sampled %v times, expected about %v", got, expectedA)
	}
	if got := float64(counts['b']); got < expectedOther*0.7 || got > expectedOther*1.3 {
		t.Fatalf("b sampled %v times, expected about %v", got, expectedOther)
	}
	ratio := float64(counts['a']) / float64(counts['z'])
	if ratio < 8 || ratio > 14 {
		t.Fatalf("expected a/z ratio near 11, got %.2f", ratio)
	}
}

func TestNegativeTiersKeepSymbolsReachable(t *testing.T) {
	tiers := fixedTiers{}
	for _, r := range errmodel.Alphabet() {
		tiers[r] = -200
	}
	g := NewSeeded(1)
	for _, w := range g.Weights(tiers) {
		if w != 1 {
			t.Fatalf("expected weight clamped to 1, got %d", w)
		}
	}
	if prompt := g.Generate(tiers); len(prompt) != PromptLen {
		t.Fatalf("expected %d runes, got %d", PromptLen, len(prompt))
	}
}
