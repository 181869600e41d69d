package transport

import (
	"context"
	"math"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

const (
	DefaultChanmA = 20.0
	DefaultKnee   = 0.9
)

// Limit scales frames down to a power budget before passing them on.
// The device keeps its full-brightness globes; only what goes out is dimmed.
type Limit struct {
	Next model.Transport

	// WhiteCap bounds r+g+b of each globe as a fraction of full white.
	// Values outside (0,1) disable the cap.
	WhiteCap float64
	// BudgetmA bounds the estimated draw of the whole string. 0 disables.
	BudgetmA float64
	// ChanmA is the draw of one channel at full scale.
	ChanmA float64
	// Knee is the fraction of the budget where soft limiting starts.
	Knee float64
}

func NewLimit(next model.Transport, whiteCap, budgetmA float64) *Limit {
	return &Limit{Next: next, WhiteCap: whiteCap, BudgetmA: budgetmA, ChanmA: DefaultChanmA, Knee: DefaultKnee}
}

// Estimate is the draw of a frame in mA.
func (l *Limit) Estimate(globes []model.Color) float64 {
	chanmA := l.ChanmA
	if chanmA <= 0 {
		chanmA = DefaultChanmA
	}
	var total float64
	for _, g := range globes {
		total += float64(int(g.R)+int(g.G)+int(g.B)) / 255 * chanmA
	}
	return total
}

// Apply returns the limited copy of globes.
func (l *Limit) Apply(globes []model.Color) []model.Color {
	out := make([]model.Color, len(globes))
	copy(out, globes)

	if l.WhiteCap > 0 && l.WhiteCap < 1 {
		limit := l.WhiteCap * 3 * 255
		for i, g := range out {
			s := float64(int(g.R) + int(g.G) + int(g.B))
			if s > limit {
				out[i] = scale(g, limit/s)
			}
		}
	}

	if l.BudgetmA <= 0 {
		return out
	}
	total := l.Estimate(out)
	if total <= 0 {
		return out
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = DefaultKnee
	}

	// Past the knee the draw is compressed so it approaches the budget
	// without reaching it.
	kb := knee * l.BudgetmA
	if total <= kb {
		return out
	}
	x, w := total-kb, l.BudgetmA-kb
	s := (kb + w*x/(x+w)) / total
	for i, g := range out {
		out[i] = scale(g, s)
	}
	return out
}

// scale rounds down so a scaled frame never exceeds its budget.
func scale(c model.Color, s float64) model.Color {
	if s >= 1 {
		return c
	}
	return model.Color{
		R: uint8(math.Floor(float64(c.R) * s)),
		G: uint8(math.Floor(float64(c.G) * s)),
		B: uint8(math.Floor(float64(c.B) * s)),
	}
}

func (l *Limit) Send(ctx context.Context, globes []model.Color) error {
	return l.Next.Send(ctx, l.Apply(globes))
}

func (l *Limit) Close() error { return l.Next.Close() }
