package models

type User struct {
	BaseModel
	Email          string `gorm:"size:255;uniqueIndex;not null"`
	Username       string `gorm:"size:100;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsActive       bool   `gorm:"default:true;not null"`

	// Relations
	Files []File `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
