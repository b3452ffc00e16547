package wave

import (
	"fmt"
	"math"

	"github.com/nutrilog/metacore/internal/models"
)

// Duration multiplier tables. Calibrated so a GL 25 mixed meal lands near
// the neutral 3h wave.
const (
	giLowMax    = 35
	giMediumMax = 55
	giHighMax   = 70

	giLowMult      = 0.85
	giMediumMult   = 1.0
	giHighMult     = 1.1
	giVeryHighMult = 1.2

	// Below this GL the glycemic index stops mattering (Mayer 1995).
	giFadeFloorGL = 7
	giFullGL      = 20

	glMaxGL         = 40
	glMinMultiplier = 0.15
	glMaxMultiplier = 1.30
	glCurveExponent = 0.6

	liquidWaveMult = 0.75
	liquidPeakMult = 1.35

	formLiquidMult    = 1.30
	formProcessedMult = 1.15
	formWholeMult     = 0.85

	spicyMult = 0.96

	caffeineBonus = 0.06

	alcoholWeakBonus   = 0.10
	alcoholMediumBonus = 0.18
	alcoholStrongBonus = 0.25

	tempHotBonus  = 0.08
	tempColdBonus = -0.05
	tempHotPeak   = 1.15
	tempColdPeak  = 0.90

	resistantStarchBonus = -0.15

	workoutHighMinutes   = 45
	workoutHighBonus     = -0.15
	workoutMediumMinutes = 20
	workoutMediumBonus   = -0.08

	postprandialWindowMin = 120
	postprandialMinLength = 15
	postprandialBonus     = -0.20
	cardioEffectMult      = 1.3

	stepsHighBonus   = -0.08
	stepsMediumBonus = -0.04
	stepsLowBonus    = -0.02

	stackingMaxBonus = 0.35
	stackingRate     = 0.25

	// Absolute floor for the composed multiplier.
	multiplierFloor = 0.15
)

// Circadian cosine parameters (Van Cauter 1997): insulin sensitivity peaks
// around 08:00 and bottoms out around midnight.
const (
	circadianPeakHour = 8
	circadianMin      = 0.85
	circadianMax      = 1.20
)

// Context carries the non-nutrient inputs of one multiplier computation.
type Context struct {
	MealMinute int

	// PrevWaveEndMinute is the modeled end of the previous meal's wave,
	// -1 when there is no previous meal.
	PrevWaveEndMinute int
	PrevGlycemicLoad  float64

	Trainings []models.Training
	Steps     int
}

// Engine composes the wave duration multiplier from a meal aggregate and its
// context. It is stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a multiplier engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute returns the itemized multiplier and the stacking interaction for
// one meal. The returned Total includes the stacking factor and is floored.
func (e *Engine) Compute(agg models.NutrientAggregate, ctx Context) (models.Multipliers, models.MealStackingResult) {
	// A meal with no resolvable items has nothing to model: the wave runs
	// at the personal baseline with every bonus neutral.
	if agg.ItemCount == 0 {
		return models.Multipliers{Total: 1}, models.MealStackingResult{}
	}

	var bonuses []models.Bonus
	add := func(kind string, value float64, desc string) {
		bonuses = append(bonuses, models.Bonus{Kind: kind, Value: round2(value), Description: desc})
	}

	gl := agg.GlycemicLoad

	// Protein, fiber and fat effects scale down with GL: without carbs the
	// insulin wave cannot be long no matter what rides along.
	glScale := 1.0
	if gl < giFullGL {
		glScale = math.Max(0.25, 0.25+(gl/giFullGL)*0.75)
	}

	giMult := giBlended(agg.AvgGI, gl)
	if giMult != 1.0 {
		add("gi", giMult, fmt.Sprintf("average GI %.0f", agg.AvgGI))
	}

	proteinBonus := proteinTier(agg.Protein) * glScale
	if proteinBonus > 0 {
		add("protein", 1+proteinBonus, fmt.Sprintf("%.0fg protein extends the wave", agg.Protein))
	}

	fiberBonus := fiberTier(agg.Fiber) * glScale
	if fiberBonus < 0 {
		add("fiber", 1+fiberBonus, fmt.Sprintf("%.0fg fiber smooths the response", agg.Fiber))
	}

	fatBonus := fatTier(agg.Fat) * glScale
	if fatBonus > 0 {
		add("fat", 1+fatBonus, fmt.Sprintf("%.0fg fat slows gastric emptying", agg.Fat))
	}

	base := giMult + proteinBonus + fiberBonus + fatBonus

	glMult := GLMultiplier(gl)
	add("glycemicLoad", glMult, fmt.Sprintf("glycemic load %.1f", gl))

	total := base * glMult

	if agg.HasLiquid {
		total *= liquidWaveMult
		add("liquid", liquidWaveMult, "liquid food absorbs faster")
	}

	if m := foodFormMult(agg.FoodForm); m != 1.0 {
		total *= m
		add("foodForm", m, string(agg.FoodForm)+" food form")
	}

	if agg.InsulinogenicBonus > 0 {
		total *= 1 + agg.InsulinogenicBonus
		add("insulinogenic", 1+agg.InsulinogenicBonus, "insulin index exceeds GI")
	}

	if b := alcoholTier(agg.Alcohol); b > 0 {
		total *= 1 + b
		add("alcohol", 1+b, "alcohol blocks lipolysis")
	}

	if agg.HasCaffeine {
		total *= 1 + caffeineBonus
		add("caffeine", 1+caffeineBonus, "short-term caffeine effect")
	}

	if agg.HasSpice {
		total *= spicyMult
		add("spicy", spicyMult, "capsaicin thermogenesis")
	}

	if b := temperatureTier(agg.Temperature); b != 0 {
		total *= 1 + b
		add("temperature", 1+b, string(agg.Temperature)+" food")
	}

	if agg.HasResistantStarch {
		total *= 1 + resistantStarchBonus
		add("resistantStarch", 1+resistantStarchBonus, "cooled starch partially resists digestion")
	}

	if b := e.activityBonus(ctx); b < 0 {
		total *= 1 + b
		add("activity", 1+b, "physical activity accelerates glucose clearance")
	}

	stacking := StackingBonus(ctx.PrevWaveEndMinute, ctx.MealMinute, ctx.PrevGlycemicLoad)
	if stacking.HasStacking {
		total *= 1 + stacking.Bonus
		add("stacking", 1+stacking.Bonus, stacking.Description)
	}

	if total < multiplierFloor {
		total = multiplierFloor
	}

	return models.Multipliers{Bonuses: bonuses, Total: total}, stacking
}

// Circadian returns the time-of-day modifier for the given hour as a smooth
// cosine between the morning sensitivity peak and the nightly nadir.
func (e *Engine) Circadian(hour int) models.CircadianData {
	center := (circadianMin + circadianMax) / 2
	amplitude := (circadianMax - circadianMin) / 2
	phase := float64(hour-circadianPeakHour) / 24 * 2 * math.Pi
	mult := center - amplitude*math.Cos(phase)

	return models.CircadianData{
		Multiplier:  mult,
		Hour:        hour,
		Description: circadianPeriod(hour),
	}
}

// GLMultiplier maps glycemic load onto a smooth power curve. GL 0 yields the
// minimum and GL 40+ the maximum; a missing load is neutral.
func GLMultiplier(gl float64) float64 {
	if math.IsNaN(gl) {
		return 1.0
	}
	if gl <= 0 {
		return glMinMultiplier
	}
	if gl >= glMaxGL {
		return glMaxMultiplier
	}
	curved := math.Pow(gl/glMaxGL, glCurveExponent)
	return glMinMultiplier + (glMaxMultiplier-glMinMultiplier)*curved
}

// StackingBonus computes the interaction with the previous meal's wave.
// Residual insulin from an unfinished wave keeps the combined response
// elevated, so an overlap lengthens the new wave proportionally to the
// overlap and the previous meal's glycemic load. No overlap means no effect.
func StackingBonus(prevWaveEndMinute, mealMinute int, prevGL float64) models.MealStackingResult {
	if prevWaveEndMinute < 0 {
		return models.MealStackingResult{}
	}

	overlap := prevWaveEndMinute - mealMinute
	// Midnight wrap: a wave ending just past 00:00 still overlaps a late meal.
	if overlap < -12*60 {
		overlap += 24 * 60
	}
	if overlap <= 0 {
		return models.MealStackingResult{}
	}

	decay := math.Min(1, float64(overlap)/90)
	glFactor := math.Min(1.2, prevGL/30)
	bonus := math.Min(stackingMaxBonus, decay*glFactor*stackingRate)
	if bonus <= 0 {
		return models.MealStackingResult{OverlapMinutes: overlap}
	}

	return models.MealStackingResult{
		Bonus:          round2(bonus),
		OverlapMinutes: overlap,
		Description:    fmt.Sprintf("overlaps previous wave by %s", models.FormatDuration(float64(overlap))),
		HasStacking:    true,
	}
}

func (e *Engine) activityBonus(ctx Context) float64 {
	var totalMin float64
	for _, t := range ctx.Trainings {
		totalMin += t.DurationMin
	}

	var bonus float64
	switch {
	case totalMin >= workoutHighMinutes:
		bonus = workoutHighBonus
	case totalMin >= workoutMediumMinutes:
		bonus = workoutMediumBonus
	}

	// Training shortly after the meal activates GLUT4 transporters and
	// clears glucose without insulin.
	for _, t := range ctx.Trainings {
		if t.Time == "" || t.DurationMin < postprandialMinLength {
			continue
		}
		start := models.ClockToMinutes(t.Time)
		gap := start - ctx.MealMinute
		if gap < 0 || gap > postprandialWindowMin {
			continue
		}
		proximity := 1 - float64(gap)/postprandialWindowMin
		b := postprandialBonus * proximity
		if t.Kind == "cardio" {
			b *= cardioEffectMult
		}
		if b < bonus {
			bonus = b
		}
	}

	switch {
	case ctx.Steps >= 8000:
		bonus += stepsHighBonus
	case ctx.Steps >= 5000:
		bonus += stepsMediumBonus
	case ctx.Steps >= 2000:
		bonus += stepsLowBonus
	}

	return math.Max(-0.5, bonus)
}

func giBlended(avgGI, gl float64) float64 {
	cat := giCategoryMult(avgGI)
	switch {
	case gl >= giFullGL:
		return cat
	case gl >= giFadeFloorGL:
		weight := (gl - giFadeFloorGL) / (giFullGL - giFadeFloorGL)
		return 1.0 + (cat-1.0)*weight
	default:
		return 1.0
	}
}

func giCategoryMult(gi float64) float64 {
	switch {
	case gi <= giLowMax:
		return giLowMult
	case gi <= giMediumMax:
		return giMediumMult
	case gi <= giHighMax:
		return giHighMult
	default:
		return giVeryHighMult
	}
}

func proteinTier(grams float64) float64 {
	switch {
	case grams >= 50:
		return 0.12
	case grams >= 35:
		return 0.08
	case grams >= 20:
		return 0.05
	default:
		return 0
	}
}

func fiberTier(grams float64) float64 {
	switch {
	case grams >= 15:
		return -0.20
	case grams >= 10:
		return -0.15
	case grams >= 5:
		return -0.08
	default:
		return 0
	}
}

func fatTier(grams float64) float64 {
	switch {
	case grams >= 25:
		return 0.15
	case grams >= 15:
		return 0.10
	case grams >= 8:
		return 0.05
	default:
		return 0
	}
}

func foodFormMult(form models.FoodForm) float64 {
	switch form {
	case models.FormLiquid:
		return formLiquidMult
	case models.FormProcessed:
		return formProcessedMult
	case models.FormWhole:
		return formWholeMult
	default:
		return 1.0
	}
}

func alcoholTier(a models.AlcoholStrength) float64 {
	switch a {
	case models.AlcoholStrong:
		return alcoholStrongBonus
	case models.AlcoholMedium:
		return alcoholMediumBonus
	case models.AlcoholWeak:
		return alcoholWeakBonus
	default:
		return 0
	}
}

func temperatureTier(t models.FoodTemperature) float64 {
	switch t {
	case models.TempHot:
		return tempHotBonus
	case models.TempCold:
		return tempColdBonus
	default:
		return 0
	}
}

func circadianPeriod(hour int) string {
	switch {
	case hour >= 22 || hour < 5:
		return "night slowdown"
	case hour < 7:
		return "early morning"
	case hour < 10:
		return "morning sensitivity peak"
	case hour < 14:
		return "midday"
	case hour < 18:
		return "afternoon balance"
	case hour < 21:
		return "evening decline"
	default:
		return "late evening"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
