package classify

import (
	"testing"

	"github.com/nutrilog/metacore/internal/models"
)

func TestClassifyTraits(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		name  string
		check func(tr Traits) bool
		desc  string
	}{
		{"молоко", func(tr Traits) bool {
			return tr.Liquid && tr.Insulinogenic == InsulinogenicLiquidDairy
		}, "liquid dairy drink"},
		{"куриная грудка", func(tr Traits) bool {
			return tr.Insulinogenic == InsulinogenicProtein
		}, "protein food"},
		{"виски", func(tr Traits) bool {
			return tr.Alcohol == models.AlcoholStrong
		}, "strong alcohol"},
		{"пиво", func(tr Traits) bool {
			return tr.Alcohol == models.AlcoholWeak
		}, "weak alcohol"},
		{"кофе американо", func(tr Traits) bool {
			return tr.Caffeine
		}, "caffeine"},
		{"соус sriracha", func(tr Traits) bool {
			return tr.Spicy
		}, "spicy"},
		{"борщ", func(tr Traits) bool {
			return tr.Temperature == models.TempHot
		}, "hot food"},
		{"мороженое", func(tr Traits) bool {
			return tr.Temperature == models.TempCold
		}, "cold food"},
		{"суши с лососем", func(tr Traits) bool {
			return tr.ResistantStarch
		}, "resistant starch"},
		{"хлопья instant", func(tr Traits) bool {
			return tr.Processed
		}, "processed"},
		{"овсянка", func(tr Traits) bool {
			return tr.Alcohol == models.AlcoholNone && !tr.Caffeine && !tr.Spicy
		}, "plain food stays neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := c.Classify(tt.name)
			if !tt.check(tr) {
				t.Errorf("Classify(%q) = %+v, expected %s", tt.name, tr, tt.desc)
			}
		})
	}
}

func TestClassifyHotColdCancel(t *testing.T) {
	c := MustDefault()
	// Mentions both a hot and a cold cue.
	tr := c.Classify("горячий суп холодный")
	if tr.Temperature != models.TempRoom {
		t.Errorf("conflicting temperature cues should cancel to room, got %q", tr.Temperature)
	}
}

func TestClassifyAlcoholPriority(t *testing.T) {
	c := MustDefault()
	// Matches both strong and weak patterns; strongest wins.
	tr := c.Classify("водка с пивом")
	if tr.Alcohol != models.AlcoholStrong {
		t.Errorf("strongest alcohol class should win, got %q", tr.Alcohol)
	}
}

func TestNewClassifierBadPattern(t *testing.T) {
	cfg := DefaultRuleConfig()
	cfg.Patterns.Liquid = []string{`(`}
	if _, err := NewClassifier(cfg); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}

func TestNormalizedFillsGaps(t *testing.T) {
	partial := RuleConfig{Version: "remote-7"}
	cfg := partial.Normalized()

	if cfg.Version != "remote-7" {
		t.Errorf("Version = %q, want remote-7", cfg.Version)
	}
	if len(cfg.Patterns.Liquid) == 0 {
		t.Error("empty pattern category should fall back to defaults")
	}
	if cfg.Thresholds.SleepDeficitHours != DefaultThresholds().SleepDeficitHours {
		t.Errorf("zero thresholds should fall back to defaults, got %v", cfg.Thresholds.SleepDeficitHours)
	}
}

func TestInsulinogenicBonusTiers(t *testing.T) {
	if InsulinogenicLiquidDairy.Bonus() <= InsulinogenicSoftDairy.Bonus() {
		t.Error("liquid dairy should carry the largest bonus")
	}
	if InsulinogenicNone.Bonus() != 0 {
		t.Errorf("no class should mean no bonus, got %v", InsulinogenicNone.Bonus())
	}
}
