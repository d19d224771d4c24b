package models

import "gorm.io/gorm"

// Stats holds a user's running classification totals. Every field is
// cumulative except CurrentStreak, which resets when a calendar day is
// skipped. LastActiveDate is a "2006-01-02" date string, nil until the
// user's first classification.
type Stats struct {
	TotalClassifications int     `json:"totalClassifications" gorm:"default:0"`
	EcoScore             int     `json:"ecoScore" gorm:"default:0"`
	CurrentStreak        int     `json:"currentStreak" gorm:"default:0"`
	LastActiveDate       *string `json:"lastActiveDate" gorm:"type:varchar(10)"`
	CarbonSaved          float64 `json:"carbonSaved" gorm:"default:0"`
	EnergySaved          float64 `json:"energySaved" gorm:"default:0"`
	WasteRedirected      int     `json:"wasteRedirected" gorm:"default:0"`
}

// User represents a registered user of the service.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Stats      Stats  `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
