// Package wave implements the postprandial insulin wave model: per-meal
// nutrient aggregation, duration multipliers, phase structure and the
// day-level wave history.
package wave

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/nutrilog/metacore/internal/classify"
	"github.com/nutrilog/metacore/internal/models"
)

// Aggregator folds a meal's items into a single NutrientAggregate using a
// product catalog and a name classifier.
type Aggregator struct {
	products   models.ProductIndex
	classifier *classify.Classifier
}

// NewAggregator creates an aggregator. A nil classifier falls back to the
// built-in pattern library.
func NewAggregator(products models.ProductIndex, classifier *classify.Classifier) *Aggregator {
	if classifier == nil {
		classifier = classify.MustDefault()
	}
	return &Aggregator{products: products, classifier: classifier}
}

// Aggregate computes the scalar summary of one meal. Items whose product
// cannot be resolved are skipped and counted in SkippedItems.
func (a *Aggregator) Aggregate(meal models.Meal) models.NutrientAggregate {
	var agg models.NutrientAggregate
	agg.Temperature = models.TempRoom

	var giWeighted, harmWeighted float64
	var bestInsulinogenic float64
	var hot, cold bool
	var liquid, processed, whole bool

	hasher := fnv.New64a()
	keys := make([]string, 0, len(meal.Items))
	amounts := make(map[string]float64, len(meal.Items))
	for _, item := range meal.Items {
		keys = append(keys, item.ProductID)
		amounts[item.ProductID] += item.Grams
	}
	sort.Strings(keys)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		fmt.Fprintf(hasher, "%s=%.1f;", k, amounts[k])
	}
	agg.ContentHash = hasher.Sum64()

	for _, item := range meal.Items {
		product := a.products.Product(item.ProductID)
		if product == nil {
			agg.SkippedItems++
			continue
		}
		agg.ItemCount++

		g := item.Grams
		agg.TotalGrams += g
		agg.Kcal += product.Kcal100 * g / 100
		agg.Carbs += product.Carbs100 * g / 100
		agg.Protein += product.Protein100 * g / 100
		agg.Fat += product.Fat100 * g / 100
		agg.Fiber += product.Fiber100 * g / 100

		giWeighted += product.GI * g
		harmWeighted += product.Harm * g

		t := a.classifier.Classify(product.Name)
		liquid = liquid || t.Liquid
		processed = processed || t.Processed
		whole = whole || t.Whole
		agg.HasLiquid = agg.HasLiquid || t.Liquid
		agg.HasCaffeine = agg.HasCaffeine || t.Caffeine
		agg.HasSpice = agg.HasSpice || t.Spicy
		agg.HasResistantStarch = agg.HasResistantStarch || t.ResistantStarch

		if t.Alcohol != models.AlcoholNone && strongerAlcohol(t.Alcohol, agg.Alcohol) {
			agg.Alcohol = t.Alcohol
		}
		if t.Temperature == models.TempHot {
			hot = true
		}
		if t.Temperature == models.TempCold {
			cold = true
		}
		if b := t.Insulinogenic.Bonus(); b > bestInsulinogenic {
			bestInsulinogenic = b
		}
	}

	if agg.TotalGrams > 0 {
		agg.AvgGI = giWeighted / agg.TotalGrams
		agg.AvgHarm = harmWeighted / agg.TotalGrams
	}
	agg.GlycemicLoad = agg.AvgGI * agg.Carbs / 100
	agg.InsulinogenicBonus = bestInsulinogenic

	// Liquid dominates, then processed, then whole.
	switch {
	case liquid:
		agg.FoodForm = models.FormLiquid
	case processed:
		agg.FoodForm = models.FormProcessed
	case whole:
		agg.FoodForm = models.FormWhole
	}

	// Opposite temperature cues cancel out.
	switch {
	case hot && !cold:
		agg.Temperature = models.TempHot
	case cold && !hot:
		agg.Temperature = models.TempCold
	}

	return agg
}

func strongerAlcohol(a, b models.AlcoholStrength) bool {
	return alcoholRank(a) > alcoholRank(b)
}

func alcoholRank(a models.AlcoholStrength) int {
	switch a {
	case models.AlcoholStrong:
		return 3
	case models.AlcoholMedium:
		return 2
	case models.AlcoholWeak:
		return 1
	default:
		return 0
	}
}
