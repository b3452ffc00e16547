package warning

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/nutrilog/metacore/internal/models"
)

// Rolling frequency windows in days.
const (
	shortWindowDays = 14
	longWindowDays  = 30
)

// chronicThreshold marks a warning chronic once it fires on at least half
// the days of the short window.
const chronicThreshold = 0.5

// TrendStore persists per-type daily activation records. Append upserts by
// date: recording the same day twice keeps a single entry.
type TrendStore interface {
	Get(typ models.WarningType) (models.TrendRecord, error)
	Append(typ models.WarningType, date string, active bool) error
}

// MemoryStore is the in-process TrendStore. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[models.WarningType]models.TrendRecord
}

// NewMemoryStore creates an empty in-memory trend store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[models.WarningType]models.TrendRecord)}
}

// Get returns the record for a type; an unknown type yields an empty record.
func (s *MemoryStore) Get(typ models.WarningType) (models.TrendRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[typ]
	if !ok {
		return models.TrendRecord{Type: typ}, nil
	}
	out := models.TrendRecord{Type: typ, Entries: make([]models.TrendEntry, len(rec.Entries))}
	copy(out.Entries, rec.Entries)
	return out, nil
}

// Append upserts one day's activation state for a type.
func (s *MemoryStore) Append(typ models.WarningType, date string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[typ]
	if !ok {
		rec = models.TrendRecord{Type: typ}
	}
	for i, e := range rec.Entries {
		if e.Date == date {
			rec.Entries[i].Active = active
			s.records[typ] = rec
			return nil
		}
	}
	rec.Entries = append(rec.Entries, models.TrendEntry{Date: date, Active: active})
	sort.Slice(rec.Entries, func(i, j int) bool {
		return rec.Entries[i].Date < rec.Entries[j].Date
	})
	s.records[typ] = rec
	return nil
}

// Tracker maintains rolling activation frequencies on top of a TrendStore
// and annotates warnings with them.
type Tracker struct {
	store TrendStore
}

// NewTracker creates a tracker over the given store.
func NewTracker(store TrendStore) *Tracker {
	return &Tracker{store: store}
}

// Record upserts today's activation state for every known type: active for
// types present in warnings, inactive for the rest. Running it twice for the
// same date leaves the store unchanged.
func (t *Tracker) Record(date string, warnings []models.Warning) error {
	active := make(map[models.WarningType]bool, len(warnings))
	for _, w := range warnings {
		active[w.Type] = true
	}
	for _, typ := range models.AllWarningTypes {
		if err := t.store.Append(typ, date, active[typ]); err != nil {
			return err
		}
	}
	return nil
}

// Frequencies returns the 14- and 30-day activation frequencies for a type
// as of the given date.
func (t *Tracker) Frequencies(typ models.WarningType, asOf string) (freq14, freq30 float64, err error) {
	rec, err := t.store.Get(typ)
	if err != nil {
		return 0, 0, err
	}
	return frequency(rec.Entries, asOf, shortWindowDays),
		frequency(rec.Entries, asOf, longWindowDays), nil
}

// Annotate fills trend and chronic fields on each warning in place.
func (t *Tracker) Annotate(warnings []models.Warning, asOf string) error {
	for i := range warnings {
		f14, f30, err := t.Frequencies(warnings[i].Type, asOf)
		if err != nil {
			return err
		}
		warnings[i].Frequency14d = f14
		warnings[i].Frequency30d = f30
		warnings[i].Chronic = f14 >= chronicThreshold
	}
	return nil
}

// frequency counts active days within the window ending at asOf, divided by
// the window length.
func frequency(entries []models.TrendEntry, asOf string, windowDays int) float64 {
	end, err := time.Parse("2006-01-02", asOf)
	if err != nil {
		return 0
	}
	start := end.AddDate(0, 0, -(windowDays - 1))

	active := 0
	for _, e := range entries {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		if e.Active && !d.Before(start) && !d.After(end) {
			active++
		}
	}
	return math.Round(float64(active)/float64(windowDays)*100) / 100
}
