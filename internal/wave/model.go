package wave

import (
	"fmt"
	"math"

	"github.com/nutrilog/metacore/internal/models"
)

// Phase structure constants. Rise is dominated by gastric emptying, plateau
// by the meal's protein and fat, decline by insulin clearance.
const (
	riseBaseMinutes   = 20
	riseFiberStep     = 5 // grams of fiber per rise extension
	riseFiberMinutes  = 3
	riseLiquidFactor  = 0.6
	riseMinMinutes    = 10
	riseMaxMinutes    = 45
	plateauBasePct    = 0.35
	plateauProteinPer = 20
	plateauProteinPct = 0.05
	plateauFatPer     = 15
	plateauFatPct     = 0.08
	plateauMaxPct     = 0.55
	declineActivity   = -0.15
	declineMinMinutes = 20
)

// Status transitions on elapsed progress.
const (
	riseEndProgress    = 0.25
	plateauEndProgress = 0.65
)

// Model turns a composed multiplier into a concrete wave: duration, phase
// boundaries and the current status. Pure function of its inputs.
type Model struct{}

// NewModel creates a wave model.
func NewModel() *Model {
	return &Model{}
}

// Input bundles everything one wave computation needs.
type Input struct {
	MealTime  string
	Aggregate models.NutrientAggregate

	Multipliers models.Multipliers
	Stacking    models.MealStackingResult
	Circadian   models.CircadianData

	BaseHours   float64
	NowMinute   int
	HasActivity bool
}

// Compute derives the full wave picture for one meal. Duration is
// baseHours x multiplier x circadian; the status follows elapsed progress
// and never moves backwards as the clock advances.
func (m *Model) Compute(in Input) models.WaveResult {
	startMinute := models.ClockToMinutes(in.MealTime)
	duration := in.BaseHours * 60 * in.Multipliers.Total * in.Circadian.Multiplier
	if duration < 1 {
		duration = 1
	}
	endMinute := startMinute + int(math.Round(duration))

	phases := m.phases(duration, in.Aggregate, in.HasActivity)

	elapsed := float64(in.NowMinute - startMinute)
	if elapsed < 0 {
		elapsed = 0
	}
	progress := math.Min(1, elapsed/duration)
	remaining := math.Max(0, duration-elapsed)

	status := statusAt(progress, remaining)

	result := models.WaveResult{
		MealTime:        in.MealTime,
		StartMinute:     startMinute,
		DurationMinutes: math.Round(duration*10) / 10,
		EndMinute:       endMinute,

		Multipliers:  in.Multipliers,
		MealStacking: in.Stacking,
		Phases:       phases,
		Circadian:    in.Circadian,

		Status:      status,
		StatusLabel: status.Label(),
		StatusColor: status.Color(),

		Progress:         math.Round(progress*100) / 100,
		RemainingMinutes: math.Round(remaining),

		PeakMultiplier: peakMultiplier(in.Aggregate),
		Formula: fmt.Sprintf("%.1fh × %.2f × %.2f = %s",
			in.BaseHours, in.Multipliers.Total, in.Circadian.Multiplier,
			models.FormatDuration(duration)),

		Aggregate: in.Aggregate,
	}
	return result
}

func (m *Model) phases(duration float64, agg models.NutrientAggregate, hasActivity bool) models.WavePhases {
	rise := float64(riseBaseMinutes)
	rise += math.Floor(agg.Fiber/riseFiberStep) * riseFiberMinutes
	if agg.HasLiquid {
		rise = math.Round(rise * riseLiquidFactor)
	}
	rise = math.Max(riseMinMinutes, math.Min(riseMaxMinutes, rise))

	remaining := math.Max(0, duration-rise)

	pct := plateauBasePct
	pct += math.Floor(agg.Protein/plateauProteinPer) * plateauProteinPct
	pct += math.Floor(agg.Fat/plateauFatPer) * plateauFatPct
	pct = math.Min(plateauMaxPct, pct)

	plateau := math.Round(remaining * pct)

	decline := remaining - plateau
	if hasActivity {
		decline = math.Round(decline * (1 + declineActivity))
	}
	decline = math.Max(declineMinMinutes, decline)

	riseI := int(rise)
	plateauI := int(plateau)
	declineI := int(decline)

	return models.WavePhases{
		RiseMinutes:    riseI,
		PlateauMinutes: plateauI,
		DeclineMinutes: declineI,

		RiseEnd:        riseI,
		PlateauEnd:     riseI + plateauI,
		LipolysisStart: riseI + plateauI + declineI,
	}
}

func statusAt(progress, remaining float64) models.WaveStatus {
	switch {
	case remaining <= 0:
		return models.StatusLipolysis
	case progress < riseEndProgress:
		return models.StatusRise
	case progress < plateauEndProgress:
		return models.StatusPlateau
	default:
		return models.StatusDecline
	}
}

// peakMultiplier estimates how sharp the insulin peak is relative to the
// wave length. Liquid food trades a shorter wave for a higher peak.
func peakMultiplier(agg models.NutrientAggregate) float64 {
	peak := 1.0
	if agg.HasLiquid {
		peak *= liquidPeakMult
	}
	switch agg.Temperature {
	case models.TempHot:
		peak *= tempHotPeak
	case models.TempCold:
		peak *= tempColdPeak
	}
	return math.Round(peak*100) / 100
}
