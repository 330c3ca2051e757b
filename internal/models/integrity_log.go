package models

import "time"

// IntegrityLog - запись журнала проверок. Только добавление.
type IntegrityLog struct {
	ID           uint      `gorm:"primaryKey"`
	FileID       uint      `gorm:"not null;index"`
	CheckType    CheckType `gorm:"type:varchar(20);not null"`
	OriginalHash string    `gorm:"size:64;not null"`
	ComputedHash string    `gorm:"size:64;not null"`
	IsValid      bool      `gorm:"not null"`
	CheckedAt    time.Time `gorm:"not null;index"`
	IPAddress    string    `gorm:"size:45"`
	UserAgent    string    `gorm:"size:500"`
}
