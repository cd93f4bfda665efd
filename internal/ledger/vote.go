package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/askcoin-app/backend/internal/models"
)

// voteRules parameterizes the shared vote state machine. Questions reward
// upvotes only; answers also penalize the author on a downvote.
type voteRules struct {
	upvoteReward    int
	downvotePenalty int
}

var (
	questionVoteRules = voteRules{upvoteReward: QuestionUpvoteReward}
	answerVoteRules   = voteRules{upvoteReward: AnswerUpvoteReward, downvotePenalty: AnswerDownvotePenalty}
)

// voteMutation is the net effect of one vote transition.
type voteMutation struct {
	scoreDelta int
	coinDelta  int // applied to the content author's balance
}

// transition computes the state-machine step for one (voter, content)
// pair. prev is the voter's recorded value, 0 meaning no vote yet. The
// second return is false for the idempotent re-vote, which is a no-op.
//
// The reward magnitude depends on prev, which is why the caller must read
// the vote record and apply the mutation in the same snapshot: a stale
// prev would double-apply the reward.
func transition(prev, value int, rules voteRules) (voteMutation, bool) {
	if prev == value {
		return voteMutation{}, false
	}
	m := voteMutation{scoreDelta: value - prev}
	switch {
	case prev == 0 && value == 1:
		m.coinDelta = rules.upvoteReward
	case prev == 0 && value == -1:
		m.coinDelta = -rules.downvotePenalty
	case prev == -1 && value == 1:
		m.coinDelta = rules.upvoteReward + rules.downvotePenalty
	case prev == 1 && value == -1:
		m.coinDelta = -(rules.upvoteReward + rules.downvotePenalty)
	}
	return m, true
}

// VoteQuestion records voterID's stance on a question and settles the
// score and author-balance effects atomically.
func (l *Ledger) VoteQuestion(ctx context.Context, questionID, voterID, value int) error {
	if value != 1 && value != -1 {
		return ErrInvalidVoteValue
	}
	// Cheap pre-checks on a plain read; re-validated inside the
	// transaction by the locked re-read.
	question, err := l.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if question.AuthorID == voterID {
		return ErrSelfVote
	}

	return l.runTx(ctx, func(tx *gorm.DB) error {
		var q models.Question
		if err := forUpdate(tx).First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if q.AuthorID == voterID {
			return ErrSelfVote
		}
		return castVote(tx, castParams{
			rules:    questionVoteRules,
			authorID: q.AuthorID,
			value:    value,
			voteScope: func(db *gorm.DB) *gorm.DB {
				return db.Where("voter_id = ? AND question_id = ?", voterID, questionID)
			},
			newVote: func() models.Vote {
				return models.Vote{VoterID: voterID, QuestionID: &questionID, Value: value}
			},
			addScore: func(db *gorm.DB, delta int) error {
				return db.Model(&models.Question{}).Where("id = ?", questionID).
					Update("score", gorm.Expr("score + ?", delta)).Error
			},
		})
	})
}

// VoteAnswer is VoteQuestion for answers, with the answer reward/penalty
// rules.
func (l *Ledger) VoteAnswer(ctx context.Context, questionID, answerID, voterID, value int) error {
	if value != 1 && value != -1 {
		return ErrInvalidVoteValue
	}
	answer, err := l.GetAnswer(ctx, questionID, answerID)
	if err != nil {
		return err
	}
	if answer.AuthorID == voterID {
		return ErrSelfVote
	}

	return l.runTx(ctx, func(tx *gorm.DB) error {
		var a models.Answer
		if err := forUpdate(tx).Where("question_id = ?", questionID).First(&a, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if a.AuthorID == voterID {
			return ErrSelfVote
		}
		return castVote(tx, castParams{
			rules:    answerVoteRules,
			authorID: a.AuthorID,
			value:    value,
			voteScope: func(db *gorm.DB) *gorm.DB {
				return db.Where("voter_id = ? AND answer_id = ?", voterID, answerID)
			},
			newVote: func() models.Vote {
				return models.Vote{VoterID: voterID, AnswerID: &answerID, Value: value}
			},
			addScore: func(db *gorm.DB, delta int) error {
				return db.Model(&models.Answer{}).Where("id = ?", answerID).
					Update("score", gorm.Expr("score + ?", delta)).Error
			},
		})
	})
}

// castParams binds the shared transition to a concrete content item.
type castParams struct {
	rules     voteRules
	authorID  int
	value     int
	voteScope func(*gorm.DB) *gorm.DB
	newVote   func() models.Vote
	addScore  func(*gorm.DB, int) error
}

// castVote reads the voter's current vote record, runs the transition and
// writes the vote record, the content score and the author balance. Runs
// inside the caller's transaction so all three land on one snapshot.
func castVote(tx *gorm.DB, p castParams) error {
	prev := 0
	var existing models.Vote
	err := p.voteScope(tx).First(&existing).Error
	switch {
	case err == nil:
		prev = existing.Value
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first vote
	default:
		return err
	}

	m, changed := transition(prev, p.value, p.rules)
	if !changed {
		return nil
	}

	if prev == 0 {
		vote := p.newVote()
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Model(&existing).Update("value", p.value).Error; err != nil {
			return err
		}
	}
	if err := p.addScore(tx, m.scoreDelta); err != nil {
		return err
	}
	if m.coinDelta != 0 {
		return reward(tx, p.authorID, m.coinDelta)
	}
	return nil
}
