package models

// WarningType identifies one of the known early-warning signal kinds.
type WarningType string

const (
	WarningSleepDebt          WarningType = "SLEEP_DEBT"
	WarningCaloricDebt        WarningType = "CALORIC_DEBT"
	WarningProteinDeficit     WarningType = "PROTEIN_DEFICIT"
	WarningHydrationDeficit   WarningType = "HYDRATION_DEFICIT"
	WarningStressAccumulation WarningType = "STRESS_ACCUMULATION"
	WarningMoodDecline        WarningType = "MOOD_DECLINE"
	WarningWellbeingDecline   WarningType = "WELLBEING_DECLINE"
	WarningWeightPlateau      WarningType = "WEIGHT_PLATEAU"
	WarningBingeRisk          WarningType = "BINGE_RISK"
	WarningHealthScoreDecline WarningType = "HEALTH_SCORE_DECLINE"
	WarningLateEating         WarningType = "LATE_EATING"
	WarningActivityDrop       WarningType = "ACTIVITY_DROP"
)

// AllWarningTypes lists every known warning type in a stable order.
var AllWarningTypes = []WarningType{
	WarningSleepDebt,
	WarningCaloricDebt,
	WarningProteinDeficit,
	WarningHydrationDeficit,
	WarningStressAccumulation,
	WarningMoodDecline,
	WarningWellbeingDecline,
	WarningWeightPlateau,
	WarningBingeRisk,
	WarningHealthScoreDecline,
	WarningLateEating,
	WarningActivityDrop,
}

// Severity is the fixed tier assigned by the rule that emitted a warning.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight returns the numeric weight used by priority scoring.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// healthImpact is the fixed per-type weight used by priority scoring.
// Not user-configurable.
var healthImpact = map[WarningType]float64{
	WarningSleepDebt:          3.0,
	WarningCaloricDebt:        2.2,
	WarningProteinDeficit:     2.0,
	WarningHydrationDeficit:   1.6,
	WarningStressAccumulation: 2.6,
	WarningMoodDecline:        1.8,
	WarningWellbeingDecline:   1.8,
	WarningWeightPlateau:      1.4,
	WarningBingeRisk:          2.8,
	WarningHealthScoreDecline: 2.4,
	WarningLateEating:         1.5,
	WarningActivityDrop:       1.7,
}

// HealthImpact returns the fixed health-impact weight for a warning type.
func (t WarningType) HealthImpact() float64 {
	return healthImpact[t]
}

// Warning is one activated early-warning signal. Trend and priority fields
// are filled by the TrendTracker and PriorityScorer after detection.
type Warning struct {
	ID       string      `json:"id"`
	Type     WarningType `json:"type"`
	Severity Severity    `json:"severity"`

	Message string   `json:"message"`
	Detail  string   `json:"detail"`
	Actions []string `json:"actions"`

	// Numeric context for presentation, keyed by rule-specific names.
	Metrics map[string]float64 `json:"metrics,omitempty"`

	Frequency14d float64 `json:"frequency14d"`
	Frequency30d float64 `json:"frequency30d"`
	Chronic      bool    `json:"chronic"`

	HealthImpact     float64 `json:"healthImpact"`
	PriorityScore    float64 `json:"priorityScore"`
	CriticalPriority bool    `json:"criticalPriority"`
}

// TrendEntry is one day's activation record for a warning type.
type TrendEntry struct {
	Date   string `json:"date"` // "YYYY-MM-DD"
	Active bool   `json:"active"`
}

// TrendRecord is the rolling occurrence log for one warning type,
// oldest entry first.
type TrendRecord struct {
	Type    WarningType  `json:"type"`
	Entries []TrendEntry `json:"entries"`
}
