package models

// FoodForm describes the dominant physical form of a meal.
type FoodForm string

const (
	FormNone      FoodForm = ""
	FormLiquid    FoodForm = "liquid"
	FormProcessed FoodForm = "processed"
	FormWhole     FoodForm = "whole"
)

// AlcoholStrength classifies alcoholic content detected in a meal.
type AlcoholStrength string

const (
	AlcoholNone   AlcoholStrength = ""
	AlcoholWeak   AlcoholStrength = "weak"
	AlcoholMedium AlcoholStrength = "medium"
	AlcoholStrong AlcoholStrength = "strong"
)

// FoodTemperature classifies the serving temperature inferred from names.
type FoodTemperature string

const (
	TempRoom FoodTemperature = "room"
	TempHot  FoodTemperature = "hot"
	TempCold FoodTemperature = "cold"
)

// NutrientAggregate is the derived per-meal scalar summary. It is recomputed
// on every wave request; ContentHash keys any caching to the meal contents.
type NutrientAggregate struct {
	TotalGrams float64
	Kcal       float64
	Carbs      float64
	Protein    float64
	Fat        float64
	Fiber      float64

	AvgGI        float64 // gram-weighted
	AvgHarm      float64 // gram-weighted
	GlycemicLoad float64 // AvgGI * Carbs / 100

	FoodForm           FoodForm
	HasLiquid          bool
	Alcohol            AlcoholStrength
	HasCaffeine        bool
	HasSpice           bool
	Temperature        FoodTemperature
	HasResistantStarch bool
	InsulinogenicBonus float64 // strongest per-item insulin-index bonus

	ItemCount    int
	SkippedItems int // items whose product could not be resolved
	ContentHash  uint64
}

// Bonus is one itemized multiplier component, surfaced so the UI can explain
// why a wave is long or short.
type Bonus struct {
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"` // multiplicative factor, 1.0 = neutral
	Description string  `json:"description"`
}

// Multipliers is the composed duration multiplier with its components.
type Multipliers struct {
	Bonuses []Bonus `json:"bonuses"`
	Total   float64 `json:"total"`
}

// MealStackingResult describes the interaction with the previous meal's wave.
type MealStackingResult struct {
	Bonus          float64 `json:"bonus"` // >= 0, extends the combined wave
	OverlapMinutes int     `json:"overlapMinutes"`
	Description    string  `json:"description,omitempty"`
	HasStacking    bool    `json:"hasStacking"`
}

// WavePhases holds phase durations and boundary offsets in minutes from the
// meal. LipolysisStart equals the total modeled wave length.
type WavePhases struct {
	RiseMinutes    int `json:"riseMinutes"`
	PlateauMinutes int `json:"plateauMinutes"`
	DeclineMinutes int `json:"declineMinutes"`

	RiseEnd        int `json:"riseEnd"`
	PlateauEnd     int `json:"plateauEnd"`
	LipolysisStart int `json:"lipolysisStart"`
}

// CircadianData reports the time-of-day modifier applied to the wave.
type CircadianData struct {
	Multiplier  float64 `json:"multiplier"`
	Hour        int     `json:"hour"`
	Description string  `json:"description"`
}

// WaveStatus is the current phase of a meal wave. Transitions only move
// forward; lipolysis is terminal.
type WaveStatus string

const (
	StatusRise      WaveStatus = "rise"
	StatusPlateau   WaveStatus = "plateau"
	StatusDecline   WaveStatus = "decline"
	StatusLipolysis WaveStatus = "lipolysis"
)

// Label returns the presentation label for the status.
func (s WaveStatus) Label() string {
	switch s {
	case StatusRise:
		return "Rising"
	case StatusPlateau:
		return "Plateau"
	case StatusDecline:
		return "Declining"
	case StatusLipolysis:
		return "Lipolysis"
	default:
		return "Unknown"
	}
}

// Color returns the presentation color for the status.
func (s WaveStatus) Color() string {
	switch s {
	case StatusRise:
		return "#0ea5e9"
	case StatusPlateau:
		return "#8b5cf6"
	case StatusDecline:
		return "#f97316"
	case StatusLipolysis:
		return "#22c55e"
	default:
		return "#64748b"
	}
}

// WaveResult is the full derived wave picture for one meal.
type WaveResult struct {
	MealTime        string  `json:"mealTime"`
	StartMinute     int     `json:"startMinute"`
	DurationMinutes float64 `json:"durationMinutes"`
	EndMinute       int     `json:"endMinute"`

	Multipliers  Multipliers        `json:"multipliers"`
	MealStacking MealStackingResult `json:"mealStackingResult"`
	Phases       WavePhases         `json:"wavePhases"`
	Circadian    CircadianData      `json:"circadianData"`

	Status      WaveStatus `json:"status"`
	StatusLabel string     `json:"statusLabel"`
	StatusColor string     `json:"statusColor"`

	Progress         float64 `json:"progress"` // 0..1 elapsed fraction
	RemainingMinutes float64 `json:"remainingMinutes"`

	PeakMultiplier float64 `json:"peakMultiplier"`
	Formula        string  `json:"formula"`

	Aggregate NutrientAggregate `json:"-"`
}

// DayWaveHistory is the chronological list of waves for one day.
type DayWaveHistory struct {
	Date      string       `json:"date"`
	BaseHours float64      `json:"baseHours"`
	Waves     []WaveResult `json:"waves"`
}

// Active returns the most recent wave that has not reached lipolysis yet,
// or nil when the day has fully resolved.
func (h *DayWaveHistory) Active() *WaveResult {
	for i := len(h.Waves) - 1; i >= 0; i-- {
		if h.Waves[i].Status != StatusLipolysis {
			return &h.Waves[i]
		}
	}
	return nil
}
