package models

import "time"

type Question struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `json:"content"`
	AuthorID int    `gorm:"index" json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`

	// Score is the signed sum of all current votes on this question.
	Score int `gorm:"default:0" json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
