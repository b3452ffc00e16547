package classify

// DefaultRuleConfig returns the built-in pattern library and rule thresholds.
// Product names in the catalog are mixed Russian/English, so both alphabets
// appear in the patterns. The loader falls back to this document whenever a
// remote config cannot be fetched.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		Version: "builtin-1",
		Patterns: PatternLibrary{
			Liquid: []string{
				`сок\b`, `смузи`, `коктейль`, `напиток`, `молоко`, `кефир`,
				`ряженка`, `айран`, `бульон`, `суп.*пюре`, `крем.*суп`,
				`кола`, `лимонад`, `газировка`, `энергетик`,
				`juice\b`, `smoothie`, `shake`, `soda`, `lemonade`, `drink`,
			},
			Processed: []string{
				`хлопья`, `мюсли.*готов`, `быстр.*каша`, `пюре.*пакет`,
				`колбаса`, `сосиск`, `чипсы`, `сухарики`, `батончик`,
				`instant`, `cereal`, `chips`, `snack.*bar`, `processed`,
			},
			Whole: []string{
				`сырой`, `свежий`, `цельнозерн`, `орех`, `семена`,
				`яблоко`, `овощ`, `фрукт`,
				`raw\b`, `fresh`, `whole.*grain`, `\bnut`, `seed`,
			},
			AlcoholStrong: []string{
				`водка`, `виски`, `whisk(e)?y`, `коньяк`, `cognac`, `\bром\b`,
				`\brum\b`, `текила`, `tequila`, `джин`, `\bgin\b`, `алкогол`,
			},
			AlcoholMedium: []string{
				`\bвино\b`, `\bwine\b`, `шампанское`, `champagne`, `просекко`,
				`мартини`, `martini`, `вермут`, `vermouth`,
			},
			AlcoholWeak: []string{
				`пиво`, `\bbeer\b`, `сидр`, `cider`, `\bэль\b`, `\bale\b`,
				`лагер`, `lager`, `ликер`, `liqueur`,
			},
			Caffeine: []string{
				`кофе`, `эспрессо`, `капучино`, `латте`, `американо`,
				`энергетик`, `черный.*чай`, `зеленый.*чай`, `матча`,
				`coffee`, `espresso`, `cappuccino`, `latte`, `energy.*drink`,
				`\btea\b`, `matcha`, `\bcola\b`, `кола`,
			},
			Spicy: []string{
				`чили`, `халапеньо`, `jalapeno`, `табаско`, `tabasco`,
				`шрирача`, `sriracha`, `карри`, `curry`, `васаби`, `wasabi`,
				`кимчи`, `kimchi`, `аджика`, `острый`, `hot.*sauce`, `spicy`,
			},
			Hot: []string{
				`\bсуп\b`, `борщ`, `горяч`, `каша`, `рагу`, `жарен`, `тушен`,
				`запечен`, `гриль`, `hot\b`, `grilled`, `roasted`, `stew`,
			},
			Cold: []string{
				`холодн`, `мороженое`, `ice.*cream`, `смузи`, `салат`,
				`окрошка`, `гаспачо`, `охлажд`, `cold\b`, `chilled`, `salad`,
			},
			ResistantStarch: []string{
				`холодн.*рис`, `рис.*холодн`, `холодн.*картофель`,
				`картофель.*холодн`, `окрошка`, `картофельный.*салат`,
				`суши`, `ролл`, `sushi`, `cold.*rice`, `potato.*salad`,
			},
			LiquidDairy: []string{
				`молоко`, `кефир`, `ряженка`, `простокваша`, `айран`,
				`\bmilk\b`,
			},
			SoftDairy: []string{
				`йогурт`, `сметана`, `сливки`, `творог`, `творожок`,
				`yogh?urt`, `cottage.*cheese`, `cream\b`,
			},
			HardDairy: []string{
				`\bсыр\b`, `пармезан`, `моцарелла`, `чеддер`,
				`cheese`, `parmesan`, `mozzarella`, `cheddar`,
			},
			ProteinFood: []string{
				`говядина`, `свинина`, `курица`, `индейка`, `рыба`, `лосось`,
				`тунец`, `треска`, `креветки`, `мясо`, `стейк`, `филе`,
				`грудка`, `фарш`, `яйц`,
				`beef`, `pork`, `chicken`, `turkey`, `fish`, `salmon`,
				`tuna`, `shrimp`, `steak`, `\begg`,
			},
		},
		Thresholds: DefaultThresholds(),
	}
}

// Normalized fills gaps in a loaded document from the built-in defaults, so
// a partial remote config never leaves a category or threshold at zero.
func (c RuleConfig) Normalized() RuleConfig {
	def := DefaultRuleConfig()

	if c.Version == "" {
		c.Version = def.Version
	}

	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&c.Patterns.Liquid, def.Patterns.Liquid)
	fill(&c.Patterns.Processed, def.Patterns.Processed)
	fill(&c.Patterns.Whole, def.Patterns.Whole)
	fill(&c.Patterns.AlcoholStrong, def.Patterns.AlcoholStrong)
	fill(&c.Patterns.AlcoholMedium, def.Patterns.AlcoholMedium)
	fill(&c.Patterns.AlcoholWeak, def.Patterns.AlcoholWeak)
	fill(&c.Patterns.Caffeine, def.Patterns.Caffeine)
	fill(&c.Patterns.Spicy, def.Patterns.Spicy)
	fill(&c.Patterns.Hot, def.Patterns.Hot)
	fill(&c.Patterns.Cold, def.Patterns.Cold)
	fill(&c.Patterns.ResistantStarch, def.Patterns.ResistantStarch)
	fill(&c.Patterns.LiquidDairy, def.Patterns.LiquidDairy)
	fill(&c.Patterns.SoftDairy, def.Patterns.SoftDairy)
	fill(&c.Patterns.HardDairy, def.Patterns.HardDairy)
	fill(&c.Patterns.ProteinFood, def.Patterns.ProteinFood)

	t := &c.Thresholds
	d := def.Thresholds
	if t.SleepDeficitHours <= 0 {
		t.SleepDeficitHours = d.SleepDeficitHours
	}
	if t.SleepDebtDays <= 0 {
		t.SleepDebtDays = d.SleepDebtDays
	}
	if t.CaloricDebtKcal <= 0 {
		t.CaloricDebtKcal = d.CaloricDebtKcal
	}
	if t.CaloricDebtDays <= 0 {
		t.CaloricDebtDays = d.CaloricDebtDays
	}
	if t.ProteinDeficitRatio <= 0 {
		t.ProteinDeficitRatio = d.ProteinDeficitRatio
	}
	if t.HydrationRatio <= 0 {
		t.HydrationRatio = d.HydrationRatio
	}
	if t.StressHighLevel <= 0 {
		t.StressHighLevel = d.StressHighLevel
	}
	if t.ScoreDeclineDays <= 0 {
		t.ScoreDeclineDays = d.ScoreDeclineDays
	}
	if t.ScoreMinDelta <= 0 {
		t.ScoreMinDelta = d.ScoreMinDelta
	}
	if t.WeightPlateauDays <= 0 {
		t.WeightPlateauDays = d.WeightPlateauDays
	}
	if t.WeightPlateauBandKg <= 0 {
		t.WeightPlateauBandKg = d.WeightPlateauBandKg
	}
	if t.LateEatingHour <= 0 {
		t.LateEatingHour = d.LateEatingHour
	}
	if t.MinRuleDataPoints <= 0 {
		t.MinRuleDataPoints = d.MinRuleDataPoints
	}

	return c
}

// DefaultThresholds returns the built-in early-warning rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SleepDeficitHours:   7,
		SleepDebtDays:       3,
		CaloricDebtKcal:     1500,
		CaloricDebtDays:     2,
		ProteinDeficitRatio: 0.75,
		HydrationRatio:      0.7,
		StressHighLevel:     7,
		ScoreDeclineDays:    3,
		ScoreMinDelta:       10,
		WeightPlateauDays:   7,
		WeightPlateauBandKg: 0.3,
		LateEatingHour:      22,
		MinRuleDataPoints:   3,
	}
}
