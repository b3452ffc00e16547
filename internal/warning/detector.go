// Package warning implements the early-warning engine: threshold rules over
// day-record history, rolling trend tracking, causal-chain matching and
// priority scoring.
package warning

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrilog/metacore/internal/classify"
	"github.com/nutrilog/metacore/internal/models"
	"github.com/nutrilog/metacore/internal/wave"
)

// activityDropRatio flags a recent step average below this share of the
// preceding baseline.
const activityDropRatio = 0.6

// bingeOvershootRatio is the intake spike that follows restriction.
const bingeOvershootRatio = 1.3

// Result is the detector output. Available is false only when not a single
// rule had enough data to run.
type Result struct {
	Available bool
	Reason    string
	Warnings  []models.Warning
}

// Detector runs the twelve threshold rules over a day-record history.
// Detection is idempotent and never mutates its input.
type Detector struct {
	agg        *wave.Aggregator
	thresholds classify.Thresholds
	log        *zap.Logger
}

// NewDetector creates a detector. A nil logger disables logging.
func NewDetector(agg *wave.Aggregator, thresholds classify.Thresholds, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{agg: agg, thresholds: thresholds, log: log}
}

type rule struct {
	name string
	run  func(days []models.DayRecord, profile models.Profile) (*models.Warning, bool)
}

// Detect evaluates every rule against the history (oldest first). Rules
// lacking data are skipped silently; warnings come back in fixed rule order.
func (d *Detector) Detect(days []models.DayRecord, profile models.Profile) Result {
	rules := []rule{
		{"sleepDebt", d.sleepDebt},
		{"caloricDebt", d.caloricDebt},
		{"proteinDeficit", d.proteinDeficit},
		{"hydrationDeficit", d.hydrationDeficit},
		{"stressAccumulation", d.stressAccumulation},
		{"moodDecline", d.moodDecline},
		{"wellbeingDecline", d.wellbeingDecline},
		{"weightPlateau", d.weightPlateau},
		{"bingeRisk", d.bingeRisk},
		{"healthScoreDecline", d.healthScoreDecline},
		{"lateEating", d.lateEating},
		{"activityDrop", d.activityDrop},
	}

	var out Result
	anyRan := false
	for _, r := range rules {
		w, ran := r.run(days, profile)
		if !ran {
			d.log.Debug("rule skipped, insufficient data", zap.String("rule", r.name))
			continue
		}
		anyRan = true
		if w != nil {
			w.ID = warningID(w.Type, lastDate(days))
			out.Warnings = append(out.Warnings, *w)
		}
	}

	if !anyRan {
		return Result{Available: false, Reason: "insufficient data for every rule"}
	}
	out.Available = true
	return out
}

// minPoints never drops below 3: the rules index the last two to three
// collected points directly.
func (d *Detector) minPoints() int {
	if d.thresholds.MinRuleDataPoints > 3 {
		return d.thresholds.MinRuleDataPoints
	}
	return 3
}

// eatenKcal returns the day's intake, preferring the cached total and
// falling back to aggregating the meals.
func (d *Detector) eatenKcal(day models.DayRecord) float64 {
	if day.EatenKcal > 0 {
		return day.EatenKcal
	}
	var kcal float64
	for _, m := range day.Meals {
		kcal += d.agg.Aggregate(m).Kcal
	}
	return kcal
}

func (d *Detector) sleepDebt(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	hours := collect(days, func(day models.DayRecord) (float64, bool) {
		h := day.SleepHours()
		return h, h > 0
	})
	if len(hours) < d.minPoints() {
		return nil, false
	}

	window := lastN(hours, d.thresholds.SleepDebtDays)
	deficit := len(window) >= d.thresholds.SleepDebtDays
	for _, h := range window {
		if h >= d.thresholds.SleepDeficitHours {
			deficit = false
		}
	}
	if !deficit {
		return nil, true
	}

	avg := mean(window)
	return newWarning(models.WarningSleepDebt, models.SeverityHigh,
		fmt.Sprintf("Sleeping under %.0fh for %d nights in a row", d.thresholds.SleepDeficitHours, len(window)),
		fmt.Sprintf("Average %.1fh against a %.1fh target. Sleep debt raises insulin resistance within days.", avg, profile.SleepTarget()),
		[]string{
			"Move bedtime 30 minutes earlier tonight",
			"No screens for the last hour before bed",
			"Keep wake-up time fixed, even on weekends",
		},
		map[string]float64{"avgSleepHours": round1(avg), "targetHours": profile.SleepTarget()},
	), true
}

func (d *Detector) caloricDebt(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	kcals := collect(days, func(day models.DayRecord) (float64, bool) {
		k := d.eatenKcal(day)
		return k, k > 0
	})
	if len(kcals) < d.minPoints() {
		return nil, false
	}

	window := lastN(kcals, d.thresholds.CaloricDebtDays)
	debt := len(window) >= d.thresholds.CaloricDebtDays
	for _, k := range window {
		if k >= d.thresholds.CaloricDebtKcal {
			debt = false
		}
	}
	if !debt {
		return nil, true
	}

	avg := mean(window)
	return newWarning(models.WarningCaloricDebt, models.SeverityHigh,
		fmt.Sprintf("Eating under %.0f kcal for %d days", d.thresholds.CaloricDebtKcal, len(window)),
		fmt.Sprintf("Average %.0f kcal against a %.0f kcal target. Sustained restriction is the strongest binge predictor.", avg, profile.KcalTarget()),
		[]string{
			"Add a protein-rich snack today",
			"Plan tomorrow's meals in advance",
			"Do not skip breakfast",
		},
		map[string]float64{"avgKcal": math.Round(avg), "targetKcal": profile.KcalTarget()},
	), true
}

func (d *Detector) proteinDeficit(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	grams := collect(days, func(day models.DayRecord) (float64, bool) {
		if len(day.Meals) == 0 {
			return 0, false
		}
		var p float64
		for _, m := range day.Meals {
			p += d.agg.Aggregate(m).Protein
		}
		return p, p > 0
	})
	if len(grams) < d.minPoints() {
		return nil, false
	}

	window := lastN(grams, 3)
	avg := mean(window)
	target := profile.ProteinTarget()
	if avg >= d.thresholds.ProteinDeficitRatio*target {
		return nil, true
	}

	return newWarning(models.WarningProteinDeficit, models.SeverityMedium,
		fmt.Sprintf("Protein at %.0f%% of target over the last 3 days", avg/target*100),
		fmt.Sprintf("Average %.0fg against %.0fg. Low protein weakens satiety and muscle retention.", avg, target),
		[]string{
			"Anchor every meal around a protein source",
			"Keep cottage cheese or eggs ready for snacks",
		},
		map[string]float64{"avgProteinG": math.Round(avg), "targetProteinG": math.Round(target)},
	), true
}

func (d *Detector) hydrationDeficit(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	water := collect(days, func(day models.DayRecord) (float64, bool) {
		return day.WaterMl, day.WaterMl > 0
	})
	if len(water) < d.minPoints() {
		return nil, false
	}

	window := lastN(water, 3)
	avg := mean(window)
	target := profile.WaterTarget()
	if avg >= d.thresholds.HydrationRatio*target {
		return nil, true
	}

	return newWarning(models.WarningHydrationDeficit, models.SeverityLow,
		fmt.Sprintf("Drinking %.0f%% of the water target", avg/target*100),
		fmt.Sprintf("Average %.0f ml against %.0f ml. Dehydration raises cortisol and blood glucose.", avg, target),
		[]string{
			"Start the day with a full glass of water",
			"Keep a bottle within reach at your desk",
		},
		map[string]float64{"avgWaterMl": math.Round(avg), "targetWaterMl": target},
	), true
}

func (d *Detector) stressAccumulation(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	stress := collect(days, func(day models.DayRecord) (float64, bool) {
		return dayStress(day), dayStress(day) > 0
	})
	if len(stress) < d.minPoints() {
		return nil, false
	}

	window := lastN(stress, 3)
	avg := mean(window)
	if avg < d.thresholds.StressHighLevel {
		return nil, true
	}

	return newWarning(models.WarningStressAccumulation, models.SeverityHigh,
		fmt.Sprintf("Stress averaging %.1f/10 over the last 3 days", avg),
		"Sustained cortisol lengthens every insulin wave and drives cravings.",
		[]string{
			"Schedule one screen-free walk today",
			"Try a 5-minute breathing exercise before meals",
			"Cut caffeine after 14:00",
		},
		map[string]float64{"avgStress": round1(avg)},
	), true
}

func (d *Detector) moodDecline(days []models.DayRecord, _ models.Profile) (*models.Warning, bool) {
	return d.declineRule(days, models.WarningMoodDecline, "Mood",
		func(day models.DayRecord) (float64, bool) {
			return float64(day.Mood), day.Mood > 0
		}, 2,
		[]string{
			"Plan one genuinely enjoyable activity today",
			"Check sleep and protein first, they drive mood",
		})
}

func (d *Detector) wellbeingDecline(days []models.DayRecord, _ models.Profile) (*models.Warning, bool) {
	return d.declineRule(days, models.WarningWellbeingDecline, "Wellbeing",
		func(day models.DayRecord) (float64, bool) {
			return float64(day.Wellbeing), day.Wellbeing > 0
		}, 2,
		[]string{
			"Review the last days for an obvious trigger",
			"Prioritize an early night tonight",
		})
}

// declineRule fires when the metric drops monotonically across the lookback
// window by at least minDelta.
func (d *Detector) declineRule(days []models.DayRecord, typ models.WarningType, label string, pick func(models.DayRecord) (float64, bool), minDelta float64, actions []string) (*models.Warning, bool) {
	values := collect(days, pick)
	if len(values) < d.minPoints() {
		return nil, false
	}

	lookback := d.thresholds.ScoreDeclineDays
	if lookback < 2 {
		lookback = 3
	}
	window := lastN(values, lookback)
	if len(window) < lookback {
		return nil, true
	}

	for i := 1; i < len(window); i++ {
		if window[i] > window[i-1] {
			return nil, true
		}
	}
	drop := window[0] - window[len(window)-1]
	if drop < minDelta {
		return nil, true
	}

	return newWarning(typ, models.SeverityMedium,
		fmt.Sprintf("%s declining for %d days straight", label, lookback),
		fmt.Sprintf("Dropped %.0f points over the window.", drop),
		actions,
		map[string]float64{"drop": drop, "current": window[len(window)-1]},
	), true
}

func (d *Detector) weightPlateau(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	weights := collect(days, func(day models.DayRecord) (float64, bool) {
		return day.Weight, day.Weight > 0
	})
	if len(weights) < d.minPoints() {
		return nil, false
	}

	window := lastN(weights, d.thresholds.WeightPlateauDays)
	if len(window) < d.thresholds.WeightPlateauDays {
		return nil, true
	}

	lo, hi := window[0], window[0]
	for _, w := range window {
		lo = math.Min(lo, w)
		hi = math.Max(hi, w)
	}
	if hi-lo > d.thresholds.WeightPlateauBandKg {
		return nil, true
	}

	return newWarning(models.WarningWeightPlateau, models.SeverityLow,
		fmt.Sprintf("Weight flat within %.1f kg for %d days", hi-lo, len(window)),
		"Plateaus are normal adaptation. Check intake accuracy before changing anything.",
		[]string{
			"Re-weigh portions for two days, drift is common",
			"Add one extra walk per day this week",
		},
		map[string]float64{"bandKg": round1(hi - lo), "days": float64(len(window))},
	), true
}

func (d *Detector) bingeRisk(days []models.DayRecord, profile models.Profile) (*models.Warning, bool) {
	type point struct {
		kcal   float64
		stress float64
		sleep  float64
	}
	var points []point
	for _, day := range days {
		k := d.eatenKcal(day)
		if k <= 0 {
			continue
		}
		points = append(points, point{kcal: k, stress: dayStress(day), sleep: day.SleepHours()})
	}
	if len(points) < d.minPoints() {
		return nil, false
	}

	// Restriction over the last two logged days plus a stress or sleep
	// amplifier is the classic restrict-binge setup.
	recent := points[len(points)-2:]
	restricted := true
	for _, p := range recent {
		if p.kcal >= d.thresholds.CaloricDebtKcal {
			restricted = false
		}
	}
	last := points[len(points)-1]
	amplified := last.stress >= d.thresholds.StressHighLevel ||
		(last.sleep > 0 && last.sleep < d.thresholds.SleepDeficitHours)

	// An intake spike right after restriction counts on its own.
	spiked := len(points) >= 3 &&
		points[len(points)-2].kcal < d.thresholds.CaloricDebtKcal &&
		last.kcal > bingeOvershootRatio*profile.KcalTarget()

	if !(restricted && amplified) && !spiked {
		return nil, true
	}

	return newWarning(models.WarningBingeRisk, models.SeverityHigh,
		"Restriction pattern with a binge setup detected",
		"Low intake combined with stress or short sleep precedes most binge episodes.",
		[]string{
			"Eat a normal-sized meal now, do not wait for hunger to peak",
			"Remove trigger foods from sight for today",
			"Plan tomorrow at your full calorie target",
		},
		map[string]float64{"lastKcal": math.Round(last.kcal), "stress": last.stress},
	), true
}

func (d *Detector) healthScoreDecline(days []models.DayRecord, _ models.Profile) (*models.Warning, bool) {
	scores := collect(days, func(day models.DayRecord) (float64, bool) {
		return day.DayScore, day.DayScore > 0
	})
	if len(scores) < d.minPoints() {
		return nil, false
	}

	lookback := d.thresholds.ScoreDeclineDays
	if lookback < 2 {
		lookback = 3
	}
	window := lastN(scores, lookback)
	if len(window) < lookback {
		return nil, true
	}
	for i := 1; i < len(window); i++ {
		if window[i] > window[i-1] {
			return nil, true
		}
	}
	drop := window[0] - window[len(window)-1]
	if drop < d.thresholds.ScoreMinDelta {
		return nil, true
	}

	return newWarning(models.WarningHealthScoreDecline, models.SeverityMedium,
		fmt.Sprintf("Day score down %.0f points over %d days", drop, lookback),
		"A steady slide usually means several small habits degrading at once.",
		[]string{
			"Pick the single worst habit of the week and fix only that",
			"Compare this week's sleep and steps against last week",
		},
		map[string]float64{"drop": round1(drop), "current": round1(window[len(window)-1])},
	), true
}

func (d *Detector) lateEating(days []models.DayRecord, _ models.Profile) (*models.Warning, bool) {
	lastHours := collect(days, func(day models.DayRecord) (float64, bool) {
		latest := -1
		for _, m := range day.Meals {
			if m.Time == "" {
				continue
			}
			if mins := models.ClockToMinutes(m.Time); mins > latest {
				latest = mins
			}
		}
		if latest < 0 {
			return 0, false
		}
		return float64(latest / 60), true
	})
	if len(lastHours) < d.minPoints() {
		return nil, false
	}

	window := lastN(lastHours, 3)
	lateDays := 0
	for _, h := range window {
		if int(h) >= d.thresholds.LateEatingHour {
			lateDays++
		}
	}
	if lateDays < 2 {
		return nil, true
	}

	return newWarning(models.WarningLateEating, models.SeverityLow,
		fmt.Sprintf("Last meal after %d:00 on %d of the last %d days", d.thresholds.LateEatingHour, lateDays, len(window)),
		"Night-time insulin sensitivity is the lowest of the day, so late waves run long.",
		[]string{
			"Shift the last meal 60 minutes earlier",
			"Keep evening meals light on carbs",
		},
		map[string]float64{"lateDays": float64(lateDays)},
	), true
}

func (d *Detector) activityDrop(days []models.DayRecord, _ models.Profile) (*models.Warning, bool) {
	steps := collect(days, func(day models.DayRecord) (float64, bool) {
		return float64(day.Steps), day.Steps > 0
	})
	if len(steps) < d.minPoints()+2 {
		return nil, false
	}

	recent := lastN(steps, 3)
	baseline := steps[:len(steps)-len(recent)]
	baseAvg := mean(baseline)
	recentAvg := mean(recent)
	if baseAvg <= 0 || recentAvg >= activityDropRatio*baseAvg {
		return nil, true
	}

	return newWarning(models.WarningActivityDrop, models.SeverityMedium,
		fmt.Sprintf("Steps down to %.0f%% of your usual level", recentAvg/baseAvg*100),
		fmt.Sprintf("Recent average %.0f steps against a %.0f baseline.", recentAvg, baseAvg),
		[]string{
			"Take a 15-minute walk after your next meal",
			"Park or get off transport one stop earlier",
		},
		map[string]float64{"recentAvgSteps": math.Round(recentAvg), "baselineSteps": math.Round(baseAvg)},
	), true
}

// dayStress prefers the morning check-in and falls back to the meal-level
// average.
func dayStress(day models.DayRecord) float64 {
	if day.Stress > 0 {
		return float64(day.Stress)
	}
	var sum, n float64
	for _, m := range day.Meals {
		if m.Stress > 0 {
			sum += float64(m.Stress)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// warningID is content-derived so identical input yields identical output.
func warningID(typ models.WarningType, date string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(typ)+"|"+date)).String()
}

func lastDate(days []models.DayRecord) string {
	if len(days) == 0 {
		return ""
	}
	return days[len(days)-1].Date
}

func newWarning(typ models.WarningType, sev models.Severity, message, detail string, actions []string, metrics map[string]float64) *models.Warning {
	return &models.Warning{
		Type:         typ,
		Severity:     sev,
		Message:      message,
		Detail:       detail,
		Actions:      actions,
		Metrics:      metrics,
		HealthImpact: typ.HealthImpact(),
	}
}

func collect(days []models.DayRecord, pick func(models.DayRecord) (float64, bool)) []float64 {
	out := make([]float64, 0, len(days))
	for _, d := range days {
		if v, ok := pick(d); ok {
			out = append(out, v)
		}
	}
	return out
}

func lastN(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
