// Package ledger implements the coin-economy transaction engine: every
// operation that moves coins, creates paid content or records a vote runs
// as a single atomic database transaction so that balances, scores and
// vote records never drift apart.
package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/askcoin-app/backend/internal/models"
)

// Coin costs and rewards. Questions carry no downvote penalty; answers
// have a symmetric reward/penalty pair.
const (
	QuestionCost = 20
	AnswerCost   = 10

	QuestionUpvoteReward  = 5
	AnswerUpvoteReward    = 3
	AnswerDownvotePenalty = 3
)

// Ledger executes the transactional operations. The database handle is
// injected so tests can substitute their own (e.g. an in-memory SQLite DB).
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CreateProfile seeds a new account with the starting balance. A plain
// write, not a transaction: nothing else can contend for a brand-new row.
// Two registrations racing on the same username or email are decided by
// the unique constraints; the loser gets ErrAlreadyExists.
func (l *Ledger) CreateProfile(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := models.User{
		Username: username,
		Email:    email,
		Password: passwordHash,
		Coins:    models.StartingCoins,
		Level:    models.StartingLevel,
	}
	if err := l.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, translateStoreError(err)
	}
	return &user, nil
}

// GetProfile returns the account, including its current balance.
func (l *Ledger) GetProfile(ctx context.Context, accountID int) (*models.User, error) {
	var user models.User
	if err := l.db.WithContext(ctx).First(&user, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateStoreError(err)
	}
	return &user, nil
}

// CanAfford reports whether the account exists and holds at least cost
// coins. Advisory only: the authoritative check runs inside the creation
// transaction, since the balance can change between this read and the
// actual submission.
func (l *Ledger) CanAfford(ctx context.Context, accountID, cost int) (bool, error) {
	var user models.User
	if err := l.db.WithContext(ctx).First(&user, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, translateStoreError(err)
	}
	return user.Coins >= cost, nil
}

// debit subtracts cost from the account inside tx, after locking the row
// and verifying the balance covers it.
func debit(tx *gorm.DB, accountID, cost int) error {
	var account models.User
	if err := forUpdate(tx).First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if account.Coins < cost {
		return ErrInsufficientFunds
	}
	return tx.Model(&models.User{}).Where("id = ?", accountID).
		Update("coins", gorm.Expr("coins - ?", cost)).Error
}

// reward adds delta coins (possibly negative) to the account inside tx.
// Penalties by rule may push a balance below zero, matching the product's
// observed behavior.
func reward(tx *gorm.DB, accountID, delta int) error {
	return tx.Model(&models.User{}).Where("id = ?", accountID).
		Update("coins", gorm.Expr("coins + ?", delta)).Error
}
