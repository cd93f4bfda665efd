package models

import "time"

type Answer struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	QuestionID int    `gorm:"index;not null" json:"question_id"`
	Content    string `gorm:"not null" json:"content"`
	AuthorID   int    `gorm:"index" json:"author_id"`
	User       User   `gorm:"foreignKey:AuthorID" json:"user"`

	// Score is the signed sum of all current votes on this answer.
	Score int `gorm:"default:0" json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content string `json:"content"`
}
