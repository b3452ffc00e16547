package warning

import (
	"testing"

	"github.com/nutrilog/metacore/internal/models"
)

func TestScoreFormula(t *testing.T) {
	s := NewScorer()

	warnings := []models.Warning{{
		Type:         models.WarningSleepDebt,
		Severity:     models.SeverityHigh,
		Frequency14d: 0.57,
		HealthImpact: models.WarningSleepDebt.HealthImpact(),
	}}

	out := s.Score(warnings)

	// 3 x 0.57 x 3.0
	if out[0].PriorityScore != 5.13 {
		t.Errorf("PriorityScore = %v, want 5.13", out[0].PriorityScore)
	}
	if !out[0].CriticalPriority {
		t.Error("a 5.13 score should be critical")
	}
}

func TestScoreFreshWarningFloor(t *testing.T) {
	s := NewScorer()

	out := s.Score([]models.Warning{{
		Type:         models.WarningLateEating,
		Severity:     models.SeverityLow,
		Frequency14d: 0,
		HealthImpact: models.WarningLateEating.HealthImpact(),
	}})

	// 1 x (1/14) x 1.5
	if out[0].PriorityScore != 0.11 {
		t.Errorf("PriorityScore = %v, want the 1/14 frequency floor applied", out[0].PriorityScore)
	}
	if out[0].CriticalPriority {
		t.Error("a fresh low-severity warning cannot be critical")
	}
}

func TestScoreOrdering(t *testing.T) {
	s := NewScorer()

	out := s.Score([]models.Warning{
		{
			Type: models.WarningWeightPlateau, Severity: models.SeverityLow,
			Frequency14d: 0.5, HealthImpact: models.WarningWeightPlateau.HealthImpact(),
		},
		{
			Type: models.WarningBingeRisk, Severity: models.SeverityHigh,
			Frequency14d: 0.5, HealthImpact: models.WarningBingeRisk.HealthImpact(),
		},
		{
			Type: models.WarningProteinDeficit, Severity: models.SeverityMedium,
			Frequency14d: 0.5, HealthImpact: models.WarningProteinDeficit.HealthImpact(),
		},
	})

	want := []models.WarningType{
		models.WarningBingeRisk,
		models.WarningProteinDeficit,
		models.WarningWeightPlateau,
	}
	for i, typ := range want {
		if out[i].Type != typ {
			t.Errorf("out[%d].Type = %s, want %s", i, out[i].Type, typ)
		}
	}

	for i := 1; i < len(out); i++ {
		if out[i].PriorityScore > out[i-1].PriorityScore {
			t.Error("warnings not sorted by priority")
		}
	}
}

func TestScoreFillsInputInPlace(t *testing.T) {
	s := NewScorer()

	warnings := []models.Warning{{
		Type:         models.WarningStressAccumulation,
		Severity:     models.SeverityHigh,
		Frequency14d: 0.3,
		HealthImpact: models.WarningStressAccumulation.HealthImpact(),
	}}
	s.Score(warnings)

	if warnings[0].PriorityScore == 0 {
		t.Error("Score should annotate the input slice in place")
	}
}
