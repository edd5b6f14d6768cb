// Package models contains database model definitions.
package models

import "time"

// Setting represents a named option stored in the database.
// Value holds the sanitized option value or, for binary options such as the
// uploaded app icon, the raw bytes.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique;size:191;not null"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}
