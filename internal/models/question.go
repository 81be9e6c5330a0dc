package models

import "time"

// Question is a post on the Q&A board.
type Question struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Question    string    `gorm:"type:text;not null"`
	Description *string   `gorm:"type:text"`
	UserID      string    `gorm:"type:varchar(36);not null;index"`
	User        *User     `gorm:"foreignKey:UserID"`
	Replies     []Reply   `gorm:"foreignKey:QuestionID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reply is an answer posted under a Question.
type Reply struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Body       string `gorm:"type:text;not null"`
	QuestionID string `gorm:"type:varchar(36);not null;index"`
	UserID     string `gorm:"type:varchar(36);not null"`
	User       *User  `gorm:"foreignKey:UserID"`
	CreatedAt  time.Time
}
