package wave

import (
	"math"
	"reflect"
	"testing"

	"github.com/nutrilog/metacore/internal/models"
)

func TestPersonalBaseline(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.Profile
		fallback float64
		want     float64
	}{
		{"empty profile", models.Profile{}, 0, 3.0},
		{"custom fallback", models.Profile{}, 3.5, 3.5},
		{"nan fallback ignored", models.Profile{}, math.NaN(), 3.0},
		{"infinite fallback ignored", models.Profile{}, math.Inf(1), 3.0},
		{"negative fallback ignored", models.Profile{}, -2, 3.0},
		{
			"age over threshold",
			models.Profile{Age: 50},
			0,
			3.0 * (1 + 20*ageBonusPerYear),
		},
		{
			"male marker",
			models.Profile{Gender: "male"},
			0,
			3.0 * (1 + genderMale),
		},
		{
			"female marker",
			models.Profile{Gender: "Female"},
			0,
			3.0 * (1 + genderFemale),
		},
		{
			"insulin resistance",
			models.Profile{InsulinResistanceScore: 5},
			0,
			3.0 * (1 + 5*irBonusPerPoint),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PersonalBaseline(tt.profile, tt.fallback)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PersonalBaseline = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPersonalBaselineClamped(t *testing.T) {
	// Old, heavy, insulin resistant: the factors would exceed the ceiling.
	high := PersonalBaseline(models.Profile{
		Age: 75, Weight: 130, Height: 170, Gender: "male", InsulinResistanceScore: 10,
	}, 4.0)
	if high != maxBaseHours {
		t.Errorf("baseline = %v, want clamped at %v", high, maxBaseHours)
	}

	// Young and lean with a short fallback stays above the floor.
	low := PersonalBaseline(models.Profile{Age: 20, Weight: 50, Height: 180, Gender: "female"}, 1.5)
	if low < minBaseHours {
		t.Errorf("baseline = %v, below floor %v", low, minBaseHours)
	}
}

func TestPersonalBaselineBMI(t *testing.T) {
	base := PersonalBaseline(models.Profile{}, 0)

	// BMI 33: heavier means longer waves.
	heavy := PersonalBaseline(models.Profile{Weight: 96, Height: 170}, 0)
	if heavy <= base {
		t.Errorf("high BMI baseline %v should exceed default %v", heavy, base)
	}

	// BMI 17: the lean reduction is capped.
	lean := PersonalBaseline(models.Profile{Weight: 49, Height: 170}, 0)
	if lean >= base {
		t.Errorf("lean baseline %v should undercut default %v", lean, base)
	}
	if lean < base*(1+bmiUnderFloor) {
		t.Errorf("lean baseline %v fell past the %v cap", lean, bmiUnderFloor)
	}
}

func TestPrepareWaveData(t *testing.T) {
	day := models.DayRecord{Meals: []models.Meal{
		{Time: "08:00"},
		{Time: ""},
		{Time: "19:30"},
		{Time: "13:15"},
	}}

	sorted := PrepareWaveData(day)

	if len(sorted) != 3 {
		t.Fatalf("len = %d, meals without a time must be dropped", len(sorted))
	}
	want := []string{"19:30", "13:15", "08:00"}
	for i, m := range sorted {
		if m.Time != want[i] {
			t.Errorf("sorted[%d].Time = %q, want %q", i, m.Time, want[i])
		}
	}
}

func TestBuildWaveHistoryEmptyDay(t *testing.T) {
	o := NewOrchestrator(NewAggregator(defaultIndex(), nil), nil)

	history := o.BuildWaveHistory(models.DayRecord{Date: "2026-08-27"}, models.Profile{}, 0, 600)

	if len(history.Waves) != 0 {
		t.Errorf("Waves = %d, want none", len(history.Waves))
	}
	if history.BaseHours != 3.0 {
		t.Errorf("BaseHours = %v, want default even without meals", history.BaseHours)
	}
	if history.Date != "2026-08-27" {
		t.Errorf("Date = %q", history.Date)
	}
}

func TestBuildWaveHistoryItemlessMeal(t *testing.T) {
	o := NewOrchestrator(NewAggregator(defaultIndex(), nil), nil)

	day := models.DayRecord{
		Date:  "2026-08-27",
		Meals: []models.Meal{{Time: "08:00"}},
	}

	history := o.BuildWaveHistory(day, models.Profile{}, 0, 9*60)

	if len(history.Waves) != 1 {
		t.Fatalf("Waves = %d, want 1", len(history.Waves))
	}
	w := history.Waves[0]
	if w.Multipliers.Total != 1 {
		t.Errorf("Total = %v, an itemless meal must keep the baseline", w.Multipliers.Total)
	}
	if len(w.Multipliers.Bonuses) != 0 {
		t.Errorf("Bonuses = %+v, want none", w.Multipliers.Bonuses)
	}
	// 3h base at the morning circadian multiplier.
	if w.DurationMinutes != 153 {
		t.Errorf("DurationMinutes = %v, want 153", w.DurationMinutes)
	}
}

func TestBuildWaveHistoryChronological(t *testing.T) {
	o := NewOrchestrator(NewAggregator(defaultIndex(), nil), nil)

	day := models.DayRecord{
		Date: "2026-08-27",
		Meals: []models.Meal{
			{Time: "13:00", Items: []models.MealItem{{ProductID: "rice", Grams: 200}}},
			{Time: "08:00", Items: []models.MealItem{{ProductID: "apple", Grams: 150}}},
		},
	}

	history := o.BuildWaveHistory(day, models.Profile{}, 0, 14*60)

	if len(history.Waves) != 2 {
		t.Fatalf("Waves = %d, want 2", len(history.Waves))
	}
	if history.Waves[0].MealTime != "08:00" || history.Waves[1].MealTime != "13:00" {
		t.Errorf("waves out of chronological order: %q, %q",
			history.Waves[0].MealTime, history.Waves[1].MealTime)
	}
}

func TestBuildWaveHistoryStacking(t *testing.T) {
	o := NewOrchestrator(NewAggregator(defaultIndex(), nil), nil)

	day := models.DayRecord{
		Date: "2026-08-27",
		Meals: []models.Meal{
			{Time: "10:00", Items: []models.MealItem{{ProductID: "rice", Grams: 400}}},
			{Time: "11:00", Items: []models.MealItem{{ProductID: "rice", Grams: 300}}},
		},
	}

	history := o.BuildWaveHistory(day, models.Profile{}, 0, 12*60)

	if len(history.Waves) != 2 {
		t.Fatalf("Waves = %d, want 2", len(history.Waves))
	}
	first, second := history.Waves[0], history.Waves[1]
	if first.MealStacking.HasStacking {
		t.Error("first meal of the day cannot stack")
	}
	if second.StartMinute >= first.EndMinute {
		t.Skipf("second meal outside the first wave (end %d), scenario void", first.EndMinute)
	}
	if !second.MealStacking.HasStacking {
		t.Error("second meal inside the first wave should stack")
	}
}

func TestBuildWaveHistoryDeterministic(t *testing.T) {
	o := NewOrchestrator(NewAggregator(defaultIndex(), nil), nil)

	day := models.DayRecord{
		Date:  "2026-08-27",
		Steps: 6000,
		Meals: []models.Meal{
			{Time: "08:30", Items: []models.MealItem{{ProductID: "milk", Grams: 250}}},
			{Time: "13:00", Items: []models.MealItem{{ProductID: "rice", Grams: 250}, {ProductID: "chicken", Grams: 150}}},
		},
		Trainings: []models.Training{{Time: "14:00", DurationMin: 40, Kind: "cardio"}},
	}
	profile := models.Profile{Age: 40, Weight: 80, Height: 178, Gender: "male"}

	a := o.BuildWaveHistory(day, profile, 0, 15*60)
	b := o.BuildWaveHistory(day, profile, 0, 15*60)

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical histories")
	}
}
