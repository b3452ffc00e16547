package warning

import (
	"math"
	"sort"

	"github.com/nutrilog/metacore/internal/models"
)

// criticalThreshold is the absolute priority score above which a warning
// demands immediate attention.
const criticalThreshold = 4.0

// Scorer ranks annotated warnings by severity, recurrence and fixed
// per-type health impact.
type Scorer struct{}

// NewScorer creates a priority scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score fills priority fields in place and returns the warnings ordered
// highest priority first. A warning that never recurred still scores its
// base severity x impact so fresh signals are not buried.
func (s *Scorer) Score(warnings []models.Warning) []models.Warning {
	for i := range warnings {
		w := &warnings[i]
		freq := w.Frequency14d
		if freq <= 0 {
			freq = 1.0 / shortWindowDays
		}
		w.PriorityScore = math.Round(w.Severity.Weight()*freq*w.HealthImpact*100) / 100
		w.CriticalPriority = w.PriorityScore >= criticalThreshold
	}

	out := make([]models.Warning, len(warnings))
	copy(out, warnings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out
}
