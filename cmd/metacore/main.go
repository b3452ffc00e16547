// Command metacore runs the metabolic core over a day-record history and
// prints the wave history, warnings and detected causal chains as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nutrilog/metacore/internal/config"
	"github.com/nutrilog/metacore/internal/models"
	"github.com/nutrilog/metacore/internal/storage"
	"github.com/nutrilog/metacore/internal/warning"
	"github.com/nutrilog/metacore/internal/wave"
)

type output struct {
	Waves    models.DayWaveHistory `json:"waves"`
	Warnings []models.Warning      `json:"warnings"`
	Chains   []models.ChainUIView  `json:"chains"`
	Reason   string                `json:"reason,omitempty"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "metacore:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		recordsPath  = flag.String("records", "", "JSON file with the day-record history (oldest first)")
		profilePath  = flag.String("profile", "", "JSON file with the user profile")
		productsPath = flag.String("products", "", "JSON file with the product catalog")
		configSource = flag.String("config", os.Getenv("METACORE_CONFIG"), "rule config source (file path or URL)")
		trendDB      = flag.String("trend-db", envDefault("METACORE_TREND_DB", "trend.db"), "SQLite trend database path")
		dsn          = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (alternative to file inputs)")
		userID       = flag.String("user", "", "user id for Postgres input")
		baseHours    = flag.Float64("base-hours", 3.0, "default base wave hours before personalization")
		nowClock     = flag.String("now", time.Now().Format("15:04"), "wall clock HH:MM for wave status")
		debug        = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	log, err := newLogger(*debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	days, profile, products, err := loadInputs(*recordsPath, *profilePath, *productsPath, *dsn, *userID, log)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return fmt.Errorf("no day records to analyze")
	}
	today := days[len(days)-1]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loader := config.NewLoader(*configSource, config.DefaultTTL, log)
	cfg := loader.Config(ctx)
	classifier := loader.Classifier(ctx)

	agg := wave.NewAggregator(products, classifier)
	orch := wave.NewOrchestrator(agg, log)
	waves := orch.BuildWaveHistory(today, profile, *baseHours, models.ClockToMinutes(*nowClock))

	detector := warning.NewDetector(agg, cfg.Thresholds, log)
	result := detector.Detect(days, profile)

	out := output{Waves: waves}
	if !result.Available {
		out.Reason = result.Reason
	} else {
		store, err := storage.NewSQLiteTrendStore(*trendDB)
		if err != nil {
			return err
		}
		defer store.Close()

		tracker := warning.NewTracker(store)
		if err := tracker.Record(today.Date, result.Warnings); err != nil {
			return err
		}
		if err := tracker.Annotate(result.Warnings, today.Date); err != nil {
			return err
		}

		out.Warnings = warning.NewScorer().Score(result.Warnings)

		for _, chain := range warning.NewMatcher(nil).Match(out.Warnings) {
			out.Chains = append(out.Chains, chain.FormatForUI())
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadInputs(recordsPath, profilePath, productsPath, dsn, userID string, log *zap.Logger) ([]models.DayRecord, models.Profile, models.ProductIndex, error) {
	if dsn != "" && userID != "" {
		return loadFromPostgres(dsn, userID, log)
	}
	if recordsPath == "" {
		return nil, models.Profile{}, nil, fmt.Errorf("either -records or -dsn with -user is required")
	}

	var days []models.DayRecord
	if err := readJSON(recordsPath, &days); err != nil {
		return nil, models.Profile{}, nil, fmt.Errorf("reading records: %w", err)
	}

	var profile models.Profile
	if profilePath != "" {
		if err := readJSON(profilePath, &profile); err != nil {
			return nil, models.Profile{}, nil, fmt.Errorf("reading profile: %w", err)
		}
	}

	products := storage.MapProductIndex{}
	if productsPath != "" {
		var list []models.Product
		if err := readJSON(productsPath, &list); err != nil {
			return nil, models.Profile{}, nil, fmt.Errorf("reading products: %w", err)
		}
		for _, p := range list {
			products[p.ID] = p
		}
	}

	return days, profile, products, nil
}

func loadFromPostgres(dsn, userID string, log *zap.Logger) ([]models.DayRecord, models.Profile, models.ProductIndex, error) {
	store, err := storage.NewPostgresStore(dsn, log)
	if err != nil {
		return nil, models.Profile{}, nil, err
	}
	defer store.Close()

	to := time.Now().Format("2006-01-02")
	from := time.Now().AddDate(0, 0, -29).Format("2006-01-02")

	days, err := store.DayRecords(userID, from, to)
	if err != nil {
		return nil, models.Profile{}, nil, err
	}
	profile, err := store.Profile(userID)
	if err != nil {
		return nil, models.Profile{}, nil, err
	}
	products, err := store.ProductIndex()
	if err != nil {
		return nil, models.Profile{}, nil, err
	}
	return days, profile, products, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
