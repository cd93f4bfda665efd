package ledger

import "errors"

var (
	// ErrNotFound means the referenced account, question, answer or vote
	// does not exist (or a document failed to load into its entity shape).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the requester is not the content's author for
	// an author-only action.
	ErrUnauthorized = errors.New("not authorized")

	// ErrSelfVote means the voter is the content's author.
	ErrSelfVote = errors.New("cannot vote on own content")

	// ErrInsufficientFunds means the balance was below the required cost
	// at transaction time.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyExists means a profile with the same username or email
	// already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidVoteValue means a vote value other than +1/-1 was supplied.
	ErrInvalidVoteValue = errors.New("vote value must be +1 or -1")

	// ErrTransactionConflict means the store could not serialize the
	// transaction within the retry budget. Transient; safe to retry from
	// scratch.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrStoreUnavailable means the underlying database could not be
	// reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
