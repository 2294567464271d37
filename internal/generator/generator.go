// Package generator builds typing prompts.
package generator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/symdrill/internal/errmodel"
)

// PromptLen is the number of characters in every prompt.
const PromptLen = 50

// Scorer reports how error-prone a character is, in whole increments.
type Scorer interface {
	ScoreTier(r rune) int
}

// Generator produces randomized prompts.
type Generator struct {
	rnd     *rand.Rand
	symbols []rune
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a deterministic seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{
		rnd:     rand.New(rand.NewSource(seed)),
		symbols: errmodel.Alphabet(),
	}
}

// Weights returns the sampling weight of each alphabet symbol, in order.
// Every symbol weighs at least 1 so it stays reachable.
func (g *Generator) Weights(scores Scorer) []int {
	weights := make([]int, len(g.symbols))
	for i, r := range g.symbols {
		weights[i] = max(1, scores.ScoreTier(r)+1)
	}
	return weights
}

// Generate draws PromptLen symbols with replacement, biased toward
// characters with higher error tiers.
func (g *Generator) Generate(scores Scorer) []rune {
	weights := g.Weights(scores)
	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}

	result := make([]rune, 0, PromptLen)
	for i := 0; i < PromptLen; i++ {
		r := g.rnd.Intn(total)
		idx := sort.SearchInts(cumulative, r+1)
		result = append(result, g.symbols[idx])
	}
	return result
}
