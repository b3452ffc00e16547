package models

// Product is an immutable catalog entry resolved through a ProductIndex.
// Nutrient fields are per 100 grams.
type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	GI         float64 `json:"gi"`      // glycemic index
	Harm       float64 `json:"harm"`    // harm score 0-10
	Kcal100    float64 `json:"kcal100"` // kcal per 100g
	Protein100 float64 `json:"protein100"`
	Fat100     float64 `json:"fat100"`
	Carbs100   float64 `json:"carbs100"`
	Fiber100   float64 `json:"fiber100"`
}

// ProductIndex resolves a logged item reference to a product. A nil result
// means the product is unknown (deleted or renamed); callers skip the item.
type ProductIndex interface {
	Product(ref string) *Product
}

// MealItem is a logged quantity of one product.
type MealItem struct {
	ProductID string  `json:"productId"`
	Grams     float64 `json:"grams"`
}

// Meal is an ordered collection of items eaten at one wall-clock time.
type Meal struct {
	Time      string     `json:"time"` // "HH:MM", empty when not logged
	Items     []MealItem `json:"items"`
	Mood      int        `json:"mood,omitempty"`      // 0-10 subjective rating
	Wellbeing int        `json:"wellbeing,omitempty"` // 0-10
	Stress    int        `json:"stress,omitempty"`    // 0-10
	Comment   string     `json:"comment,omitempty"`
}

// Training is a logged workout within a day.
type Training struct {
	Time        string  `json:"time"` // "HH:MM" start, empty when not logged
	DurationMin float64 `json:"durationMin"`
	Kind        string  `json:"kind"` // "cardio", "strength", "hobby"
}

// DayRecord is one calendar day for one user. Mutated throughout the day,
// effectively immutable once the date has elapsed.
type DayRecord struct {
	Date      string     `json:"date"` // "YYYY-MM-DD"
	Meals     []Meal     `json:"meals"`
	Trainings []Training `json:"trainings,omitempty"`

	// Morning check-in
	Weight       float64 `json:"weight,omitempty"` // kg
	SleepStart   string  `json:"sleepStart,omitempty"`
	SleepEnd     string  `json:"sleepEnd,omitempty"`
	SleepQuality int     `json:"sleepQuality,omitempty"` // 0-10
	Steps        int     `json:"steps,omitempty"`
	Mood         int     `json:"mood,omitempty"`
	Wellbeing    int     `json:"wellbeing,omitempty"`
	Stress       int     `json:"stress,omitempty"`

	WaterMl   float64 `json:"waterMl,omitempty"`
	EatenKcal float64 `json:"eatenKcal,omitempty"` // cached day total, 0 = recompute
	DayScore  float64 `json:"dayScore,omitempty"`  // cumulative day score 0-100
}

// SleepHours returns the slept hours recorded for the day, 0 when unknown.
func (d *DayRecord) SleepHours() float64 {
	return SleepHours(d.SleepStart, d.SleepEnd)
}

// Profile holds per-user targets and physiology inputs.
type Profile struct {
	Age    int     `json:"age,omitempty"`
	Weight float64 `json:"weight,omitempty"` // kg
	Height float64 `json:"height,omitempty"` // cm
	Gender string  `json:"gender,omitempty"`

	SleepTargetHours float64 `json:"sleepTargetHours,omitempty"`
	ProteinTargetG   float64 `json:"proteinTargetG,omitempty"`
	CalorieTarget    float64 `json:"calorieTarget,omitempty"`
	WaterTargetMl    float64 `json:"waterTargetMl,omitempty"`

	// InsulinResistanceScore is an optional 0-10 self-assessment; 0 means
	// unset and contributes nothing to the personal baseline.
	InsulinResistanceScore float64 `json:"insulinResistanceScore,omitempty"`
}

// SleepTarget returns the configured sleep target with an 8h default.
func (p *Profile) SleepTarget() float64 {
	if p.SleepTargetHours > 0 {
		return p.SleepTargetHours
	}
	return 8
}

// KcalTarget returns the configured calorie target with a 2000 kcal default.
func (p *Profile) KcalTarget() float64 {
	if p.CalorieTarget > 0 {
		return p.CalorieTarget
	}
	return 2000
}

// WaterTarget returns the configured water target with a 2000 ml default.
func (p *Profile) WaterTarget() float64 {
	if p.WaterTargetMl > 0 {
		return p.WaterTargetMl
	}
	return 2000
}

// ProteinTarget returns the configured protein target with a weight-derived
// default of 1.2 g/kg (90 g when weight is unknown).
func (p *Profile) ProteinTarget() float64 {
	if p.ProteinTargetG > 0 {
		return p.ProteinTargetG
	}
	if p.Weight > 0 {
		return p.Weight * 1.2
	}
	return 90
}
