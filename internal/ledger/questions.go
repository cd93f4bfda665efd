package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/askcoin-app/backend/internal/models"
)

// CreateQuestion debits the author QuestionCost and creates the question
// in one transaction. Either both happen or neither does.
func (l *Ledger) CreateQuestion(ctx context.Context, authorID int, title, content string) (*models.Question, error) {
	question := models.Question{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	err := l.runTx(ctx, func(tx *gorm.DB) error {
		if err := debit(tx, authorID, QuestionCost); err != nil {
			return err
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// GetQuestion returns one question by ID.
func (l *Ledger) GetQuestion(ctx context.Context, questionID int) (*models.Question, error) {
	var question models.Question
	err := l.db.WithContext(ctx).Preload("User").First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateStoreError(err)
	}
	return &question, nil
}

// ListQuestions returns all questions, newest first.
func (l *Ledger) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := l.db.WithContext(ctx).Preload("User").Order("created_at desc").Find(&questions).Error
	if err != nil {
		return nil, translateStoreError(err)
	}
	return questions, nil
}

// UpdateQuestion rewrites the question's text fields. Author only; no
// economic effect. The authorization check runs in the same transaction
// as the write so a concurrent delete cannot slip between them.
func (l *Ledger) UpdateQuestion(ctx context.Context, questionID, requesterID int, title, content string) error {
	return l.runTx(ctx, func(tx *gorm.DB) error {
		var question models.Question
		if err := forUpdate(tx).First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if question.AuthorID != requesterID {
			return ErrUnauthorized
		}
		return tx.Model(&question).Updates(map[string]interface{}{
			"title":   title,
			"content": content,
		}).Error
	})
}

// DeleteQuestion removes the question together with its votes, its answers
// and the answers' votes. The creation cost is not refunded and rewards
// already paid out stay paid.
func (l *Ledger) DeleteQuestion(ctx context.Context, questionID, requesterID int) error {
	return l.runTx(ctx, func(tx *gorm.DB) error {
		// The row lock serializes this delete against concurrent answer
		// creation and voting, which lock the same row before writing
		// children; without it a child insert could commit after the
		// purge statements ran and survive as an orphan.
		var question models.Question
		if err := forUpdate(tx).First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if question.AuthorID != requesterID {
			return ErrUnauthorized
		}

		var answerIDs []int
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", questionID).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
}
