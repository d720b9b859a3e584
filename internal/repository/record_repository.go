package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"momentum/internal/model"
)

// RecordRepository stores opaque values by key.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Load returns the value stored under key. ok is false when the key was never saved.
func (r *RecordRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var rec model.Record
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	switch {
	case err == nil:
		return rec.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("load record %q: %w", key, err)
	}
}

// Save inserts or replaces the value under key.
func (r *RecordRepository) Save(ctx context.Context, key string, value []byte) error {
	rec := model.Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save record %q: %w", key, err)
	}
	return nil
}
