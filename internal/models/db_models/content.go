package db_models

import "time"

// Content is the article or page that votes and feedback attach to. Its id is
// assigned by the owning system.
type Content struct {
	ID                uint   `gorm:"primaryKey;autoIncrement:false"`
	Title             string `gorm:"size:255;not null"`
	URL               string `gorm:"size:500"`
	FeedbackReceivers string `gorm:"size:1000"`
	HideFeedback      bool   `gorm:"not null;default:false"`
	HideHelpful       bool   `gorm:"not null;default:false"`
	UpdatedAt         time.Time
}

func (Content) TableName() string { return "helpful_contents" }
