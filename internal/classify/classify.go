// Package classify resolves free-text product names into wave-relevant
// traits using a versioned, explicitly-typed pattern library.
package classify

import (
	"fmt"
	"regexp"

	"github.com/nutrilog/metacore/internal/models"
)

// PatternLibrary holds the raw regex sources per bonus category. It is a
// plain data asset: loadable from JSON, testable independent of wave math.
type PatternLibrary struct {
	Liquid    []string `json:"liquid"`
	Processed []string `json:"processed"`
	Whole     []string `json:"whole"`

	AlcoholStrong []string `json:"alcoholStrong"`
	AlcoholMedium []string `json:"alcoholMedium"`
	AlcoholWeak   []string `json:"alcoholWeak"`

	Caffeine []string `json:"caffeine"`
	Spicy    []string `json:"spicy"`

	Hot  []string `json:"hot"`
	Cold []string `json:"cold"`

	ResistantStarch []string `json:"resistantStarch"`

	LiquidDairy []string `json:"liquidDairy"`
	SoftDairy   []string `json:"softDairy"`
	HardDairy   []string `json:"hardDairy"`
	ProteinFood []string `json:"proteinFood"`
}

// Thresholds are the numeric knobs of the early-warning rules. They ride in
// the same versioned config document as the pattern library.
type Thresholds struct {
	SleepDeficitHours   float64 `json:"sleepDeficitHours"`
	SleepDebtDays       int     `json:"sleepDebtDays"`
	CaloricDebtKcal     float64 `json:"caloricDebtKcal"`
	CaloricDebtDays     int     `json:"caloricDebtDays"`
	ProteinDeficitRatio float64 `json:"proteinDeficitRatio"`
	HydrationRatio      float64 `json:"hydrationRatio"`
	StressHighLevel     float64 `json:"stressHighLevel"`
	ScoreDeclineDays    int     `json:"scoreDeclineDays"`
	ScoreMinDelta       float64 `json:"scoreMinDelta"`
	WeightPlateauDays   int     `json:"weightPlateauDays"`
	WeightPlateauBandKg float64 `json:"weightPlateauBandKg"`
	LateEatingHour      int     `json:"lateEatingHour"`
	MinRuleDataPoints   int     `json:"minRuleDataPoints"`
}

// RuleConfig is the versioned configuration document consumed by the core.
// It is loaded once by a bootstrap step and injected, never read from
// ambient globals.
type RuleConfig struct {
	Version    string         `json:"version"`
	Patterns   PatternLibrary `json:"patterns"`
	Thresholds Thresholds     `json:"thresholds"`
}

// InsulinogenicClass marks foods whose insulin response outruns their GI.
type InsulinogenicClass string

const (
	InsulinogenicNone        InsulinogenicClass = ""
	InsulinogenicLiquidDairy InsulinogenicClass = "liquidDairy"
	InsulinogenicSoftDairy   InsulinogenicClass = "softDairy"
	InsulinogenicHardDairy   InsulinogenicClass = "hardDairy"
	InsulinogenicProtein     InsulinogenicClass = "protein"
)

// Bonus returns the wave-length bonus attached to the class.
// Holt 1997: dairy insulin index far exceeds its glycemic index.
func (c InsulinogenicClass) Bonus() float64 {
	switch c {
	case InsulinogenicLiquidDairy:
		return 0.15
	case InsulinogenicSoftDairy:
		return 0.10
	case InsulinogenicHardDairy:
		return 0.05
	case InsulinogenicProtein:
		return 0.08
	default:
		return 0
	}
}

// Traits are the classification results for one product name.
type Traits struct {
	Liquid    bool
	Processed bool
	Whole     bool

	Alcohol  models.AlcoholStrength
	Caffeine bool
	Spicy    bool

	Temperature     models.FoodTemperature
	ResistantStarch bool
	Insulinogenic   InsulinogenicClass
}

type patternSet struct {
	res []*regexp.Regexp
}

func compileSet(sources []string) (patternSet, error) {
	set := patternSet{res: make([]*regexp.Regexp, 0, len(sources))}
	for _, src := range sources {
		re, err := regexp.Compile("(?i)" + src)
		if err != nil {
			return patternSet{}, fmt.Errorf("compiling pattern %q: %w", src, err)
		}
		set.res = append(set.res, re)
	}
	return set, nil
}

func (s patternSet) match(name string) bool {
	for _, re := range s.res {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Classifier matches product names against a compiled pattern library.
// Compile once at construction; classification itself is allocation-free.
type Classifier struct {
	version string

	liquid    patternSet
	processed patternSet
	whole     patternSet

	alcoholStrong patternSet
	alcoholMedium patternSet
	alcoholWeak   patternSet

	caffeine patternSet
	spicy    patternSet

	hot  patternSet
	cold patternSet

	resistantStarch patternSet

	liquidDairy patternSet
	softDairy   patternSet
	hardDairy   patternSet
	proteinFood patternSet
}

// NewClassifier compiles the pattern library of the given config.
func NewClassifier(cfg RuleConfig) (*Classifier, error) {
	c := &Classifier{version: cfg.Version}
	p := cfg.Patterns

	var err error
	compile := func(dst *patternSet, sources []string) {
		if err != nil {
			return
		}
		*dst, err = compileSet(sources)
	}

	compile(&c.liquid, p.Liquid)
	compile(&c.processed, p.Processed)
	compile(&c.whole, p.Whole)
	compile(&c.alcoholStrong, p.AlcoholStrong)
	compile(&c.alcoholMedium, p.AlcoholMedium)
	compile(&c.alcoholWeak, p.AlcoholWeak)
	compile(&c.caffeine, p.Caffeine)
	compile(&c.spicy, p.Spicy)
	compile(&c.hot, p.Hot)
	compile(&c.cold, p.Cold)
	compile(&c.resistantStarch, p.ResistantStarch)
	compile(&c.liquidDairy, p.LiquidDairy)
	compile(&c.softDairy, p.SoftDairy)
	compile(&c.hardDairy, p.HardDairy)
	compile(&c.proteinFood, p.ProteinFood)

	if err != nil {
		return nil, err
	}
	return c, nil
}

// MustDefault returns a classifier compiled from the built-in defaults.
// The built-in patterns are fixed literals; a compile failure is a bug.
func MustDefault() *Classifier {
	c, err := NewClassifier(DefaultRuleConfig())
	if err != nil {
		panic(err)
	}
	return c
}

// Version reports the pattern library version the classifier was built from.
func (c *Classifier) Version() string {
	return c.version
}

// Classify resolves all traits for one product name.
func (c *Classifier) Classify(name string) Traits {
	t := Traits{Temperature: models.TempRoom}
	if name == "" {
		return t
	}

	t.Liquid = c.liquid.match(name)
	t.Processed = c.processed.match(name)
	t.Whole = c.whole.match(name)

	switch {
	case c.alcoholStrong.match(name):
		t.Alcohol = models.AlcoholStrong
	case c.alcoholMedium.match(name):
		t.Alcohol = models.AlcoholMedium
	case c.alcoholWeak.match(name):
		t.Alcohol = models.AlcoholWeak
	}

	t.Caffeine = c.caffeine.match(name)
	t.Spicy = c.spicy.match(name)

	// A name matching both temperature classes cancels out to room.
	hot := c.hot.match(name)
	cold := c.cold.match(name)
	switch {
	case hot && !cold:
		t.Temperature = models.TempHot
	case cold && !hot:
		t.Temperature = models.TempCold
	}

	t.ResistantStarch = c.resistantStarch.match(name)

	switch {
	case c.liquidDairy.match(name):
		t.Insulinogenic = InsulinogenicLiquidDairy
	case c.softDairy.match(name):
		t.Insulinogenic = InsulinogenicSoftDairy
	case c.hardDairy.match(name):
		t.Insulinogenic = InsulinogenicHardDairy
	case c.proteinFood.match(name):
		t.Insulinogenic = InsulinogenicProtein
	}

	return t
}
