package wave

import (
	"math"
	"testing"

	"github.com/nutrilog/metacore/internal/models"
)

func TestGLMultiplier(t *testing.T) {
	tests := []struct {
		name string
		gl   float64
		want float64
	}{
		{"zero load", 0, 0.15},
		{"negative load", -3, 0.15},
		{"saturated", 40, 1.30},
		{"above saturation", 55, 1.30},
		{"missing load is neutral", math.NaN(), 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GLMultiplier(tt.gl); got != tt.want {
				t.Errorf("GLMultiplier(%v) = %v, want %v", tt.gl, got, tt.want)
			}
		})
	}
}

func TestGLMultiplierMonotonic(t *testing.T) {
	prev := GLMultiplier(0)
	for gl := 1.0; gl <= 45; gl++ {
		cur := GLMultiplier(gl)
		if cur < prev {
			t.Fatalf("GLMultiplier not monotonic: f(%v)=%v < f(%v)=%v", gl, cur, gl-1, prev)
		}
		prev = cur
	}
}

func TestStackingBonus(t *testing.T) {
	tests := []struct {
		name        string
		prevWaveEnd int
		mealMinute  int
		prevGL      float64
		wantBonus   float64
		wantStack   bool
	}{
		{"meal inside previous wave", 660, 600, 30, 0.17, true},
		{"meal after wave finished", 660, 720, 30, 0, false},
		{"no previous meal", -1, 600, 30, 0, false},
		{"zero previous load", 660, 600, 0, 0, false},
		{"full overlap saturates decay", 800, 600, 30, 0.25, true},
		{"load factor capped", 900, 600, 60, 0.3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StackingBonus(tt.prevWaveEnd, tt.mealMinute, tt.prevGL)
			if got.Bonus != tt.wantBonus {
				t.Errorf("Bonus = %v, want %v", got.Bonus, tt.wantBonus)
			}
			if got.HasStacking != tt.wantStack {
				t.Errorf("HasStacking = %v, want %v", got.HasStacking, tt.wantStack)
			}
		})
	}
}

func TestStackingBonusMidnightWrap(t *testing.T) {
	// Late meal at 23:00, previous wave ends 00:30 past midnight.
	got := StackingBonus(30, 23*60, 30)
	if !got.HasStacking {
		t.Fatal("wave crossing midnight should still stack")
	}
	if got.OverlapMinutes != 90 {
		t.Errorf("OverlapMinutes = %d, want 90", got.OverlapMinutes)
	}
}

func TestComputeFloor(t *testing.T) {
	e := NewEngine()

	// A zero-carb liquid would compose below the floor.
	agg := models.NutrientAggregate{ItemCount: 1, HasLiquid: true, Temperature: models.TempRoom}
	mult, _ := e.Compute(agg, Context{MealMinute: 600, PrevWaveEndMinute: -1})

	if mult.Total != multiplierFloor {
		t.Errorf("Total = %v, want floored at %v", mult.Total, multiplierFloor)
	}
}

func TestComputeEmptyMeal(t *testing.T) {
	e := NewEngine()

	// No items at all: neutral multiplier, no bonuses, no stacking, even
	// inside a previous wave.
	mult, stacking := e.Compute(models.NutrientAggregate{Temperature: models.TempRoom}, Context{
		MealMinute:        480,
		PrevWaveEndMinute: 540,
		PrevGlycemicLoad:  30,
	})

	if mult.Total != 1 {
		t.Errorf("Total = %v, want neutral 1", mult.Total)
	}
	if len(mult.Bonuses) != 0 {
		t.Errorf("Bonuses = %+v, want none", mult.Bonuses)
	}
	if stacking.HasStacking {
		t.Error("an empty meal cannot stack")
	}
}

func TestComputeHighGIMeal(t *testing.T) {
	e := NewEngine()

	agg := models.NutrientAggregate{
		ItemCount:    1,
		AvgGI:        70,
		Carbs:        50,
		GlycemicLoad: 35,
		Temperature:  models.TempRoom,
	}
	mult, stacking := e.Compute(agg, Context{MealMinute: 600, PrevWaveEndMinute: -1})

	if mult.Total <= 1.0 {
		t.Errorf("Total = %v, high GI and GL should lengthen the wave", mult.Total)
	}
	if stacking.HasStacking {
		t.Error("no previous meal, stacking must be off")
	}
	if !hasBonus(mult.Bonuses, "gi") || !hasBonus(mult.Bonuses, "glycemicLoad") {
		t.Errorf("missing itemized bonuses, got %+v", mult.Bonuses)
	}
}

func TestComputeStackingRaisesTotal(t *testing.T) {
	e := NewEngine()

	agg := models.NutrientAggregate{
		ItemCount:    1,
		AvgGI:        60,
		GlycemicLoad: 25,
		Temperature:  models.TempRoom,
	}
	alone, _ := e.Compute(agg, Context{MealMinute: 600, PrevWaveEndMinute: -1})
	stacked, res := e.Compute(agg, Context{
		MealMinute:        600,
		PrevWaveEndMinute: 660,
		PrevGlycemicLoad:  30,
	})

	if !res.HasStacking {
		t.Fatal("expected stacking for a meal inside the previous wave")
	}
	if stacked.Total <= alone.Total {
		t.Errorf("stacked total %v should exceed standalone %v", stacked.Total, alone.Total)
	}
}

func TestGIFadesAtLowLoad(t *testing.T) {
	// High GI with almost no carbs should not lengthen the wave.
	if m := giBlended(95, 2); m != 1.0 {
		t.Errorf("giBlended(95, 2) = %v, want neutral 1.0", m)
	}
	if m := giBlended(95, 25); m != giVeryHighMult {
		t.Errorf("giBlended(95, 25) = %v, want full %v", m, giVeryHighMult)
	}
	// Halfway through the fade band the category effect is halved.
	mid := giBlended(95, 13.5)
	want := 1.0 + (giVeryHighMult-1.0)*0.5
	if math.Abs(mid-want) > 1e-9 {
		t.Errorf("giBlended(95, 13.5) = %v, want %v", mid, want)
	}
}

func TestNutrientTiers(t *testing.T) {
	if proteinTier(50) != 0.12 || proteinTier(35) != 0.08 || proteinTier(20) != 0.05 || proteinTier(10) != 0 {
		t.Error("protein tier boundaries moved")
	}
	if fiberTier(15) != -0.20 || fiberTier(10) != -0.15 || fiberTier(5) != -0.08 || fiberTier(2) != 0 {
		t.Error("fiber tier boundaries moved")
	}
	if fatTier(25) != 0.15 || fatTier(15) != 0.10 || fatTier(8) != 0.05 || fatTier(3) != 0 {
		t.Error("fat tier boundaries moved")
	}
}

func TestActivityBonus(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		ctx  Context
		want float64
	}{
		{"no activity", Context{MealMinute: 600}, 0},
		{
			"long workout",
			Context{MealMinute: 600, Trainings: []models.Training{{DurationMin: 50}}},
			workoutHighBonus,
		},
		{
			"moderate workout",
			Context{MealMinute: 600, Trainings: []models.Training{{DurationMin: 25}}},
			workoutMediumBonus,
		},
		{"steps only", Context{MealMinute: 600, Steps: 9000}, stepsHighBonus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.activityBonus(tt.ctx); got != tt.want {
				t.Errorf("activityBonus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivityBonusPostprandial(t *testing.T) {
	e := NewEngine()

	// 30min walk starting right after a 10:00 meal.
	ctx := Context{
		MealMinute: 600,
		Trainings:  []models.Training{{Time: "10:00", DurationMin: 30}},
	}
	got := e.activityBonus(ctx)
	if got >= workoutMediumBonus {
		t.Errorf("bonus = %v, postprandial proximity should beat the plain tier %v", got, workoutMediumBonus)
	}

	// Combined reductions never exceed the clamp.
	heavy := Context{
		MealMinute: 600,
		Steps:      12000,
		Trainings: []models.Training{
			{Time: "10:05", DurationMin: 60, Kind: "cardio"},
			{Time: "18:00", DurationMin: 60},
		},
	}
	if got := e.activityBonus(heavy); got < -0.5 {
		t.Errorf("bonus = %v, want clamped at -0.5", got)
	}
}

func TestCircadian(t *testing.T) {
	e := NewEngine()

	morning := e.Circadian(8)
	if math.Abs(morning.Multiplier-circadianMin) > 1e-9 {
		t.Errorf("hour 8 multiplier = %v, want sensitivity peak %v", morning.Multiplier, circadianMin)
	}

	night := e.Circadian(20)
	if math.Abs(night.Multiplier-circadianMax) > 1e-9 {
		t.Errorf("hour 20 multiplier = %v, want nadir %v", night.Multiplier, circadianMax)
	}

	if e.Circadian(0).Multiplier <= e.Circadian(8).Multiplier {
		t.Error("midnight should run slower than morning")
	}
}

func hasBonus(bonuses []models.Bonus, kind string) bool {
	for _, b := range bonuses {
		if b.Kind == kind {
			return true
		}
	}
	return false
}
