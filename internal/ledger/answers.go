package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/askcoin-app/backend/internal/models"
)

// CreateAnswer debits the author AnswerCost and creates the answer under
// its parent question in one transaction. If the parent question vanishes
// mid-flight the transaction fails with ErrNotFound instead of leaving an
// orphaned answer.
func (l *Ledger) CreateAnswer(ctx context.Context, questionID, authorID int, content string) (*models.Answer, error) {
	answer := models.Answer{
		QuestionID: questionID,
		Content:    content,
		AuthorID:   authorID,
	}
	err := l.runTx(ctx, func(tx *gorm.DB) error {
		// Lock the parent so a concurrent DeleteQuestion cannot purge
		// answers between this read and the insert below.
		var question models.Question
		if err := forUpdate(tx).First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := debit(tx, authorID, AnswerCost); err != nil {
			return err
		}
		return tx.Create(&answer).Error
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// GetAnswer returns one answer, scoped to its parent question.
func (l *Ledger) GetAnswer(ctx context.Context, questionID, answerID int) (*models.Answer, error) {
	var answer models.Answer
	err := l.db.WithContext(ctx).Preload("User").
		Where("question_id = ?", questionID).First(&answer, answerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateStoreError(err)
	}
	return &answer, nil
}

// ListAnswers returns a question's answers, newest first.
func (l *Ledger) ListAnswers(ctx context.Context, questionID int) ([]models.Answer, error) {
	var answers []models.Answer
	err := l.db.WithContext(ctx).Preload("User").
		Where("question_id = ?", questionID).Order("created_at desc").Find(&answers).Error
	if err != nil {
		return nil, translateStoreError(err)
	}
	return answers, nil
}

// AnswerCount returns how many answers a question currently has.
func (l *Ledger) AnswerCount(ctx context.Context, questionID int) (int, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Answer{}).
		Where("question_id = ?", questionID).Count(&count).Error
	if err != nil {
		return 0, translateStoreError(err)
	}
	return int(count), nil
}

// UpdateAnswer rewrites the answer's text. Author only; no economic effect.
func (l *Ledger) UpdateAnswer(ctx context.Context, questionID, answerID, requesterID int, content string) error {
	return l.runTx(ctx, func(tx *gorm.DB) error {
		var answer models.Answer
		if err := forUpdate(tx).Where("question_id = ?", questionID).First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if answer.AuthorID != requesterID {
			return ErrUnauthorized
		}
		return tx.Model(&answer).Update("content", content).Error
	})
}

// DeleteAnswer removes the answer together with its vote records. No
// refund, no reward reversal.
func (l *Ledger) DeleteAnswer(ctx context.Context, questionID, answerID, requesterID int) error {
	return l.runTx(ctx, func(tx *gorm.DB) error {
		// Locked for the same reason as DeleteQuestion: vote writers
		// lock the answer row first, so the purge cannot race them.
		var answer models.Answer
		if err := forUpdate(tx).Where("question_id = ?", questionID).First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if answer.AuthorID != requesterID {
			return ErrUnauthorized
		}
		if err := tx.Where("answer_id = ?", answerID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
}
