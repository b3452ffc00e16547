package warning

import (
	"math"
	"sort"

	"github.com/nutrilog/metacore/internal/models"
)

// Matching thresholds and boosts.
const (
	minMatchRatio    = 0.5
	severityBoost    = 1.1 // two or more high-severity matches
	chronicBoost     = 1.1 // at least one chronic match
	severityBoostMin = 2
)

// DefaultChainLibrary returns the built-in causal chains. Every warning
// type appears in at least one chain.
func DefaultChainLibrary() []models.CausalChain {
	return []models.CausalChain{
		{
			ChainID:    "sleep_recovery_spiral",
			Title:      "Sleep recovery spiral",
			Nodes:      []models.WarningType{models.WarningSleepDebt, models.WarningStressAccumulation, models.WarningBingeRisk, models.WarningWeightPlateau},
			RootCause:  models.WarningSleepDebt,
			Outcome:    "stalled progress",
			Confidence: 0.8,
			Mechanism:  "Short sleep raises cortisol and ghrelin, stress drives cravings, overeating erases the calorie deficit.",
			ActionableFix: []string{
				"Fix the sleep window first, everything downstream follows",
				"Do not tighten calories while sleep-deprived",
			},
			EvidenceLevel: "strong",
		},
		{
			ChainID:    "underfueling_rebound",
			Title:      "Underfueling rebound",
			Nodes:      []models.WarningType{models.WarningCaloricDebt, models.WarningBingeRisk, models.WarningWeightPlateau},
			RootCause:  models.WarningCaloricDebt,
			Outcome:    "restrict-binge cycle",
			Confidence: 0.75,
			Mechanism:  "Aggressive restriction triggers compensatory overeating that outweighs the saved calories.",
			ActionableFix: []string{
				"Raise the daily target to a moderate deficit",
				"Schedule meals so no gap exceeds five hours",
			},
			EvidenceLevel: "strong",
		},
		{
			ChainID:    "protein_satiety_gap",
			Title:      "Protein satiety gap",
			Nodes:      []models.WarningType{models.WarningProteinDeficit, models.WarningBingeRisk, models.WarningWeightPlateau},
			RootCause:  models.WarningProteinDeficit,
			Outcome:    "snacking creep",
			Confidence: 0.7,
			Mechanism:  "Low protein weakens satiety signaling, pushing intake toward quick carbohydrate snacks.",
			ActionableFix: []string{
				"Front-load protein at breakfast",
				"Swap one snack for a protein-based one",
			},
			EvidenceLevel: "strong",
		},
		{
			ChainID:    "stress_mood_cascade",
			Title:      "Stress-mood cascade",
			Nodes:      []models.WarningType{models.WarningStressAccumulation, models.WarningMoodDecline, models.WarningWellbeingDecline, models.WarningHealthScoreDecline},
			RootCause:  models.WarningStressAccumulation,
			Outcome:    "overall decline",
			Confidence: 0.72,
			Mechanism:  "Chronic stress erodes mood, mood pulls down wellbeing, and daily scores follow within days.",
			ActionableFix: []string{
				"Address the stress source, not the symptoms",
				"Protect one fully unplugged hour per day",
			},
			EvidenceLevel: "moderate",
		},
		{
			ChainID:    "late_eating_sleep_loop",
			Title:      "Late eating sleep loop",
			Nodes:      []models.WarningType{models.WarningLateEating, models.WarningSleepDebt, models.WarningActivityDrop},
			RootCause:  models.WarningLateEating,
			Outcome:    "tired and sedentary",
			Confidence: 0.68,
			Mechanism:  "Late meals delay sleep onset, short sleep kills next-day movement, and the loop repeats.",
			ActionableFix: []string{
				"Close the kitchen three hours before bed",
				"Put the biggest meal at midday",
			},
			EvidenceLevel: "moderate",
		},
		{
			ChainID:    "dehydration_fatigue",
			Title:      "Dehydration fatigue",
			Nodes:      []models.WarningType{models.WarningHydrationDeficit, models.WarningWellbeingDecline, models.WarningActivityDrop},
			RootCause:  models.WarningHydrationDeficit,
			Outcome:    "low-energy days",
			Confidence: 0.6,
			Mechanism:  "Mild dehydration reads as fatigue, which quietly cuts daily movement.",
			ActionableFix: []string{
				"Drink a glass of water before every meal",
				"Track water for three days to calibrate",
			},
			EvidenceLevel: "moderate",
		},
		{
			ChainID:    "sedentary_plateau",
			Title:      "Sedentary plateau",
			Nodes:      []models.WarningType{models.WarningActivityDrop, models.WarningWeightPlateau, models.WarningMoodDecline},
			RootCause:  models.WarningActivityDrop,
			Outcome:    "motivation dip",
			Confidence: 0.65,
			Mechanism:  "Less movement stalls the scale, the stall dents motivation, and motivation loss cuts movement further.",
			ActionableFix: []string{
				"Commit to a daily 20-minute walk regardless of weather",
				"Judge the week by steps, not by the scale",
			},
			EvidenceLevel: "emerging",
		},
	}
}

// Matcher matches a chain library against active warning sets.
type Matcher struct {
	library []models.CausalChain
}

// NewMatcher creates a matcher. A nil library uses the built-in chains.
func NewMatcher(library []models.CausalChain) *Matcher {
	if library == nil {
		library = DefaultChainLibrary()
	}
	return &Matcher{library: library}
}

// Match returns the chains activated by the warning set, most confident
// first. A chain fires only when its root cause is active and at least half
// its nodes match; partial coverage scales the confidence down.
func (m *Matcher) Match(warnings []models.Warning) []models.DetectedChain {
	if len(warnings) == 0 {
		return nil
	}

	byType := make(map[models.WarningType]models.Warning, len(warnings))
	for _, w := range warnings {
		byType[w.Type] = w
	}

	var detected []models.DetectedChain
	for _, chain := range m.library {
		if _, ok := byType[chain.RootCause]; !ok {
			continue
		}

		var matchedNodes []models.WarningType
		var matchedWarnings []models.Warning
		highSeverity := 0
		chronic := 0
		for _, node := range chain.Nodes {
			w, ok := byType[node]
			if !ok {
				continue
			}
			matchedNodes = append(matchedNodes, node)
			matchedWarnings = append(matchedWarnings, w)
			if w.Severity == models.SeverityHigh {
				highSeverity++
			}
			if w.Chronic {
				chronic++
			}
		}

		ratio := float64(len(matchedNodes)) / float64(len(chain.Nodes))
		if ratio < minMatchRatio {
			continue
		}

		confidence := chain.Confidence
		if highSeverity >= severityBoostMin {
			confidence = math.Min(1, confidence*severityBoost)
		}
		if chronic >= 1 {
			confidence = math.Min(1, confidence*chronicBoost)
		}
		if ratio < 1 {
			confidence *= ratio
		}

		detected = append(detected, models.DetectedChain{
			Chain:              chain,
			MatchedNodes:       matchedNodes,
			MatchRatio:         math.Round(ratio*100) / 100,
			AdjustedConfidence: math.Round(confidence*100) / 100,
			Warnings:           matchedWarnings,
		})
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].AdjustedConfidence > detected[j].AdjustedConfidence
	})
	return detected
}
