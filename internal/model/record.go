package model

import "time"

// Record is one persisted key-value entry.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}
