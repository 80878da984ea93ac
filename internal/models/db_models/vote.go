package db_models

import "time"

type VoteStatus string

const (
	VoteNone   VoteStatus = "none"
	VotePro    VoteStatus = "pro"
	VoteContra VoteStatus = "contra"
)

type Vote struct {
	ID     uint      `gorm:"primaryKey;autoIncrement"`
	Time   time.Time `gorm:"not null"`
	User   string    `gorm:"size:191;not null;index:idx_helpful_user_post"`
	Pro    int       `gorm:"not null;default:0"`
	Contra int       `gorm:"not null;default:0"`
	PostID uint      `gorm:"not null;index:idx_helpful_user_post"`
}

func (Vote) TableName() string { return "helpful" }
