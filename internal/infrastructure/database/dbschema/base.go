package dbschema

import "time"

// BaseModel carries the surrogate key and bookkeeping timestamps shared by
// all tables.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
