package anim

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

//go:embed patterns/*.json
var patternFS embed.FS

// Patterns lists the built-in pattern names.
func Patterns() []string {
	entries, _ := patternFS.ReadDir("patterns")
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}

// BuiltinPattern loads a built-in pattern, repeated or cut to n globes.
func BuiltinPattern(name string, n int) ([]model.Color, error) {
	b, err := patternFS.ReadFile("patterns/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("pattern %q: not built in", name)
	}
	p, err := wire.DecodeREST(b, 0)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", name, err)
	}
	return Fit(p, n), nil
}

// Fit repeats p until it is n globes long, or cuts it short.
func Fit(p []model.Color, n int) []model.Color {
	out := make([]model.Color, n)
	if len(p) == 0 {
		return out
	}
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return out
}

// RandomPattern picks each channel uniformly from 0..130.
func RandomPattern(r *rand.Rand, n int) []model.Color {
	p := make([]model.Color, n)
	for i := range p {
		p[i] = model.RGB(uint8(r.IntN(131)), uint8(r.IntN(131)), uint8(r.IntN(131)))
	}
	return p
}

// Solid is n globes of c.
func Solid(c model.Color, n int) []model.Color {
	p := make([]model.Color, n)
	for i := range p {
		p[i] = c
	}
	return p
}
