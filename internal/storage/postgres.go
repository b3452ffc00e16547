package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutrilog/metacore/internal/models"
)

// dayRow is the persisted shape of a day record: a date key plus the full
// record as a JSONB payload. The core only reads these rows.
type dayRow struct {
	UserID  string `gorm:"column:user_id;primaryKey"`
	Date    string `gorm:"column:date;primaryKey"`
	Payload []byte `gorm:"column:payload;type:jsonb"`
}

func (dayRow) TableName() string { return "day_records" }

type profileRow struct {
	UserID  string `gorm:"column:user_id;primaryKey"`
	Payload []byte `gorm:"column:payload;type:jsonb"`
}

func (profileRow) TableName() string { return "profiles" }

type productRow struct {
	ID      string `gorm:"column:id;primaryKey"`
	Payload []byte `gorm:"column:payload;type:jsonb"`
}

func (productRow) TableName() string { return "products" }

// PostgresStore reads day records, profiles and the product catalog from
// the app database. All access is read-only.
type PostgresStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPostgresStore connects to the given DSN. A nil logger disables logging.
func NewPostgresStore(dsn string, log *zap.Logger) (*PostgresStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresStore{db: db, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DayRecords returns a user's day records in [from, to], oldest first.
// Rows with a malformed payload are skipped with a warning.
func (s *PostgresStore) DayRecords(userID, from, to string) ([]models.DayRecord, error) {
	var rows []dayRow
	err := s.db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query day records: %w", err)
	}

	out := make([]models.DayRecord, 0, len(rows))
	for _, row := range rows {
		var rec models.DayRecord
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			s.log.Warn("skipping malformed day record",
				zap.String("user", userID),
				zap.String("date", row.Date),
				zap.Error(err))
			continue
		}
		if rec.Date == "" {
			rec.Date = row.Date
		}
		out = append(out, rec)
	}
	return out, nil
}

// Profile returns the user's profile, or a zero profile when none is stored.
func (s *PostgresStore) Profile(userID string) (models.Profile, error) {
	var row profileRow
	err := s.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(row.Payload, &profile); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return profile, nil
}

// ProductIndex loads the full product catalog into an in-memory index.
// The catalog is small enough that per-item queries are not worth it.
func (s *PostgresStore) ProductIndex() (models.ProductIndex, error) {
	var rows []productRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	idx := make(MapProductIndex, len(rows))
	for _, row := range rows {
		var p models.Product
		if err := json.Unmarshal(row.Payload, &p); err != nil {
			s.log.Warn("skipping malformed product", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		if p.ID == "" {
			p.ID = row.ID
		}
		idx[p.ID] = p
	}
	return idx, nil
}

// MapProductIndex is the in-memory ProductIndex used by the Postgres loader
// and by tests.
type MapProductIndex map[string]models.Product

// Product resolves a product reference, nil when unknown.
func (m MapProductIndex) Product(ref string) *models.Product {
	p, ok := m[ref]
	if !ok {
		return nil
	}
	return &p
}
