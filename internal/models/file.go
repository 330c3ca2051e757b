package models

import "time"

// File - метаданные загруженного файла. SHA256Hash задается один раз при создании.
type File struct {
	BaseModel
	Filename         string     `gorm:"size:255;uniqueIndex;not null"`
	OriginalFilename string     `gorm:"size:255;not null"`
	FileSize         int64      `gorm:"not null"`
	ContentType      string     `gorm:"size:100"`
	SHA256Hash       string     `gorm:"column:sha256_hash;size:64;not null;index"`
	StoragePath      string     `gorm:"size:500;not null"`
	IsVerified       bool       `gorm:"default:true;not null"`
	UploadCount      int        `gorm:"default:1;not null"`
	DownloadCount    int        `gorm:"default:0;not null"`
	LastVerifiedAt   *time.Time `gorm:"index"`
	OwnerID          uint       `gorm:"not null;index"`

	// Relations
	Owner         *User          `gorm:"foreignKey:OwnerID"`
	IntegrityLogs []IntegrityLog `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}
