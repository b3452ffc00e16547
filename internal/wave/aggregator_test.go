package wave

import (
	"testing"

	"github.com/nutrilog/metacore/internal/models"
)

// testIndex is a fixed in-memory product catalog for wave tests.
type testIndex map[string]models.Product

func (t testIndex) Product(ref string) *models.Product {
	p, ok := t[ref]
	if !ok {
		return nil
	}
	return &p
}

func defaultIndex() testIndex {
	return testIndex{
		"rice": {
			ID: "rice", Name: "рис отварной",
			GI: 70, Kcal100: 130, Carbs100: 28, Protein100: 2.7, Fiber100: 0.4,
		},
		"chicken": {
			ID: "chicken", Name: "куриная грудка",
			GI: 0, Kcal100: 165, Protein100: 31, Fat100: 3.6,
		},
		"apple": {
			ID: "apple", Name: "яблоко свежее",
			GI: 35, Kcal100: 52, Carbs100: 14, Fiber100: 2.4,
		},
		"milk": {
			ID: "milk", Name: "молоко 2.5%",
			GI: 30, Kcal100: 52, Carbs100: 4.7, Protein100: 2.8, Fat100: 2.5,
		},
	}
}

func TestAggregateWeightedGI(t *testing.T) {
	agg := NewAggregator(testIndex{
		"a": {ID: "a", Name: "product a", GI: 50, Carbs100: 10},
		"b": {ID: "b", Name: "product b", GI: 70, Carbs100: 10},
	}, nil)

	result := agg.Aggregate(models.Meal{Items: []models.MealItem{
		{ProductID: "a", Grams: 100},
		{ProductID: "b", Grams: 100},
	}})

	if result.AvgGI != 60 {
		t.Errorf("AvgGI = %v, want gram-weighted 60", result.AvgGI)
	}
	if result.Carbs != 20 {
		t.Errorf("Carbs = %v, want 20", result.Carbs)
	}
	if result.GlycemicLoad != 12 {
		t.Errorf("GlycemicLoad = %v, want AvgGI*Carbs/100 = 12", result.GlycemicLoad)
	}
}

func TestAggregateZeroGrams(t *testing.T) {
	agg := NewAggregator(defaultIndex(), nil)

	result := agg.Aggregate(models.Meal{Items: []models.MealItem{
		{ProductID: "rice", Grams: 0},
	}})

	if result.AvgGI != 0 {
		t.Errorf("AvgGI with zero grams = %v, want 0", result.AvgGI)
	}
	if result.GlycemicLoad != 0 {
		t.Errorf("GlycemicLoad with zero grams = %v, want 0", result.GlycemicLoad)
	}
}

func TestAggregateSkipsUnknownProducts(t *testing.T) {
	agg := NewAggregator(defaultIndex(), nil)

	result := agg.Aggregate(models.Meal{Items: []models.MealItem{
		{ProductID: "rice", Grams: 150},
		{ProductID: "deleted-product", Grams: 200},
	}})

	if result.SkippedItems != 1 {
		t.Errorf("SkippedItems = %d, want 1", result.SkippedItems)
	}
	if result.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", result.ItemCount)
	}
	if result.TotalGrams != 150 {
		t.Errorf("TotalGrams = %v, unknown item must not contribute", result.TotalGrams)
	}
}

func TestAggregateFoodFormPriority(t *testing.T) {
	agg := NewAggregator(defaultIndex(), nil)

	// Milk is liquid, apple is whole: liquid dominates.
	result := agg.Aggregate(models.Meal{Items: []models.MealItem{
		{ProductID: "milk", Grams: 200},
		{ProductID: "apple", Grams: 150},
	}})

	if result.FoodForm != models.FormLiquid {
		t.Errorf("FoodForm = %q, want liquid to dominate", result.FoodForm)
	}
	if !result.HasLiquid {
		t.Error("HasLiquid should be set")
	}
}

func TestAggregateInsulinogenicMax(t *testing.T) {
	agg := NewAggregator(defaultIndex(), nil)

	// Milk (liquid dairy, 0.15) and chicken (protein, 0.08): max wins.
	result := agg.Aggregate(models.Meal{Items: []models.MealItem{
		{ProductID: "milk", Grams: 200},
		{ProductID: "chicken", Grams: 150},
	}})

	if result.InsulinogenicBonus != 0.15 {
		t.Errorf("InsulinogenicBonus = %v, want the strongest class 0.15", result.InsulinogenicBonus)
	}
}

func TestAggregateContentHashStable(t *testing.T) {
	agg := NewAggregator(defaultIndex(), nil)

	meal := models.Meal{Items: []models.MealItem{
		{ProductID: "rice", Grams: 150},
		{ProductID: "chicken", Grams: 120},
	}}
	reordered := models.Meal{Items: []models.MealItem{
		{ProductID: "chicken", Grams: 120},
		{ProductID: "rice", Grams: 150},
	}}
	changed := models.Meal{Items: []models.MealItem{
		{ProductID: "rice", Grams: 150},
		{ProductID: "chicken", Grams: 121},
	}}

	h1 := agg.Aggregate(meal).ContentHash
	h2 := agg.Aggregate(reordered).ContentHash
	h3 := agg.Aggregate(changed).ContentHash

	if h1 != h2 {
		t.Error("content hash should not depend on item order")
	}
	if h1 == h3 {
		t.Error("content hash should change when grams change")
	}
}
