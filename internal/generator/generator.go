// Package generator builds practice passages from a word list.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Punctuation is the set of marks appended to words. Every mark is part of the
// practice character set.
const Punctuation = ".,!?;:"

// Options controls passage generation.
type Options struct {
	Words    int
	CapsPct  float64
	PunctPct float64

	// Weak biases word choice toward words containing these runes.
	Weak       map[rune]struct{}
	WeakFactor float64
}

// Generator produces randomized practice passages.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Passage joins opts.Words words from the list into one line of text.
func (g *Generator) Passage(words []string, opts Options) string {
	if len(words) == 0 || opts.Words <= 0 {
		return ""
	}
	pick := g.uniform(words)
	if len(opts.Weak) > 0 && opts.WeakFactor > 0 {
		pick = g.weighted(words, opts.Weak, opts.WeakFactor)
	}
	out := make([]string, 0, opts.Words)
	for i := 0; i < opts.Words; i++ {
		word := pick()
		word = g.capitalize(word, opts.CapsPct)
		word = g.punctuate(word, opts.PunctPct)
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

func (g *Generator) uniform(words []string) func() string {
	return func() string {
		return words[g.rnd.Intn(len(words))]
	}
}

func (g *Generator) weighted(words []string, weak map[rune]struct{}, factor float64) func() string {
	cumulative := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range strings.ToLower(word) {
			if _, ok := weak[r]; ok {
				weakCount++
			}
		}
		total += 1.0 + float64(weakCount)*factor
		cumulative[i] = total
	}
	return func() string {
		target := g.rnd.Float64() * total
		for i, edge := range cumulative {
			if target <= edge {
				return words[i]
			}
		}
		return words[len(words)-1]
	}
}

func (g *Generator) capitalize(word string, pct float64) string {
	if pct <= 0 || g.rnd.Float64() > pct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (g *Generator) punctuate(word string, pct float64) string {
	if pct <= 0 || g.rnd.Float64() > pct {
		return word
	}
	return word + string(Punctuation[g.rnd.Intn(len(Punctuation))])
}
