// Package planner builds day-by-day activity plans and destination tips.
package planner

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/voyage-planner/voyage/internal/domain"
)

// ActivitiesPerDay is the most activities a generated day carries.
const ActivitiesPerDay = 3

// MaxDays bounds the length of a generated plan.
const MaxDays = 366

// Rand is the randomness source used to pick activities.
// IntN returns a value in [0, n).
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the auto-seeded math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator produces itineraries from the activity pools.
// Output is intentionally non-deterministic unless a fixed Rand is injected.
type Generator struct {
	mu  sync.Mutex
	rnd Rand
}

// NewGenerator returns a Generator drawing from rnd, or from the process-wide
// random source when rnd is nil.
func NewGenerator(rnd Rand) *Generator {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Generator{rnd: rnd}
}

// Generate returns one Day per calendar date from start to end inclusive.
// Each day gets up to ActivitiesPerDay activities picked without replacement
// from the destination's pool; unknown destinations use a generic pool.
// A range that ends before it starts yields no days.
func (g *Generator) Generate(destination string, start, end time.Time) []domain.Day {
	pool := ActivitiesFor(destination)
	first, last := domain.CalendarDate(start), domain.CalendarDate(end)

	g.mu.Lock()
	defer g.mu.Unlock()

	var days []domain.Day
	for d := first; !d.After(last) && len(days) < MaxDays; d = d.AddDate(0, 0, 1) {
		days = append(days, domain.Day{Date: d, Activities: g.pick(pool)})
	}
	return days
}

// pick draws min(ActivitiesPerDay, len(pool)) activities without replacement.
func (g *Generator) pick(pool []domain.Activity) []domain.Activity {
	remaining := make([]domain.Activity, len(pool))
	copy(remaining, pool)

	n := min(ActivitiesPerDay, len(remaining))
	out := make([]domain.Activity, 0, n)
	for range n {
		i := g.rnd.IntN(len(remaining))
		out = append(out, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return out
}
