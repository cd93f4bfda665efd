package models

import "time"

// Vote records one voter's current stance on a question or an answer.
// Exactly one of QuestionID/AnswerID is set; at most one row exists per
// (voter, content item) pair. Absence means no vote cast. Unique indexes
// tolerate the NULL side, so a voter can hold votes on many answers.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	VoterID    int       `gorm:"uniqueIndex:uq_question_vote;uniqueIndex:uq_answer_vote" json:"voter_id"`
	QuestionID *int      `gorm:"uniqueIndex:uq_question_vote" json:"question_id,omitempty"`
	AnswerID   *int      `gorm:"uniqueIndex:uq_answer_vote" json:"answer_id,omitempty"`
	Value      int       `json:"value"` // +1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type VoteRequest struct {
	Value int `json:"value" binding:"required,oneof=-1 1"`
}
