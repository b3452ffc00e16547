package wave

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nutrilog/metacore/internal/models"
)

// Personal baseline calibration (DeFronzo 1979, Kahn & Flier 2000): age,
// body composition and self-assessed insulin resistance stretch the default
// three hour wave within hard bounds.
const (
	defaultBaseHours = 3.0
	minBaseHours     = 1.5
	maxBaseHours     = 4.5

	ageEffectStart  = 30
	ageBonusPerYear = 0.004
	bmiEffectStart  = 25.0
	bmiBonusPerUnit = 0.015
	bmiUnderFloor   = -0.10
	genderFemale    = -0.05
	genderMale      = 0.03
	irBonusPerPoint = 0.04
)

// Orchestrator wires aggregation, multipliers and the wave model into the
// per-day computation the callers actually use.
type Orchestrator struct {
	agg    *Aggregator
	engine *Engine
	model  *Model
	log    *zap.Logger
}

// NewOrchestrator creates an orchestrator. A nil logger disables logging.
func NewOrchestrator(agg *Aggregator, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		agg:    agg,
		engine: NewEngine(),
		model:  NewModel(),
		log:    log,
	}
}

// PersonalBaseline computes the user's base wave hours. fallbackHours is
// used as the unadjusted base when positive and finite, otherwise 3h.
func PersonalBaseline(profile models.Profile, fallbackHours float64) float64 {
	base := defaultBaseHours
	if fallbackHours > 0 && !math.IsInf(fallbackHours, 0) && !math.IsNaN(fallbackHours) {
		base = fallbackHours
	}

	var factor float64
	if profile.Age > ageEffectStart {
		factor += float64(profile.Age-ageEffectStart) * ageBonusPerYear
	}

	if profile.Weight > 0 && profile.Height > 0 {
		bmi := profile.Weight / math.Pow(profile.Height/100, 2)
		if bmi > bmiEffectStart {
			factor += (bmi - bmiEffectStart) * bmiBonusPerUnit
		} else {
			under := (bmiEffectStart - bmi) * bmiBonusPerUnit * 0.5
			factor -= math.Min(under, -bmiUnderFloor)
		}
	}

	switch strings.ToLower(profile.Gender) {
	case "female":
		factor += genderFemale
	case "male":
		factor += genderMale
	}

	if profile.InsulinResistanceScore > 0 {
		factor += profile.InsulinResistanceScore * irBonusPerPoint
	}

	hours := base * (1 + factor)
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return base
	}
	return math.Max(minBaseHours, math.Min(maxBaseHours, hours))
}

// PrepareWaveData returns the day's timed meals sorted most recent first.
// Meals without a logged time cannot be placed on the wave axis.
func PrepareWaveData(day models.DayRecord) []models.Meal {
	timed := make([]models.Meal, 0, len(day.Meals))
	for _, m := range day.Meals {
		if m.Time != "" {
			timed = append(timed, m)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Time > timed[j].Time
	})
	return timed
}

// BuildWaveHistory models every timed meal of the day in chronological
// order, threading each wave's end and glycemic load into the next meal's
// stacking context. nowMinute positions the status of each wave.
func (o *Orchestrator) BuildWaveHistory(day models.DayRecord, profile models.Profile, baseHours float64, nowMinute int) models.DayWaveHistory {
	sorted := PrepareWaveData(day)
	personalBase := PersonalBaseline(profile, baseHours)

	history := models.DayWaveHistory{
		Date:      day.Date,
		BaseHours: math.Round(personalBase*100) / 100,
	}
	if len(sorted) == 0 {
		return history
	}

	hasActivity := len(day.Trainings) > 0

	prevWaveEnd := -1
	prevGL := 0.0
	// Walk the descending list from the back, i.e. chronologically.
	for i := len(sorted) - 1; i >= 0; i-- {
		meal := sorted[i]
		agg := o.agg.Aggregate(meal)
		if agg.SkippedItems > 0 {
			o.log.Debug("meal items skipped, product not resolved",
				zap.String("date", day.Date),
				zap.String("meal", meal.Time),
				zap.Int("skipped", agg.SkippedItems))
		}

		mealMinute := models.ClockToMinutes(meal.Time)
		mult, stacking := o.engine.Compute(agg, Context{
			MealMinute:        mealMinute,
			PrevWaveEndMinute: prevWaveEnd,
			PrevGlycemicLoad:  prevGL,
			Trainings:         day.Trainings,
			Steps:             day.Steps,
		})
		circ := o.engine.Circadian(mealMinute / 60)

		result := o.model.Compute(Input{
			MealTime:    meal.Time,
			Aggregate:   agg,
			Multipliers: mult,
			Stacking:    stacking,
			Circadian:   circ,
			BaseHours:   history.BaseHours,
			NowMinute:   nowMinute,
			HasActivity: hasActivity,
		})

		history.Waves = append(history.Waves, result)
		prevWaveEnd = result.EndMinute
		prevGL = agg.GlycemicLoad
	}

	return history
}
