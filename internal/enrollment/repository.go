package enrollment

import (
	"context"
	"errors"
)

var (
	ErrLearnerNotFound  = errors.New("learner not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrCoachingNotFound = errors.New("coaching not found for this slug")
)

// LearnerRepository defines the interface for learner storage
type LearnerRepository interface {
	Get(ctx context.Context, uid string) (*Learner, error)
	// Upsert merges the learner record: enrolled_tenants grows as a set,
	// profile fields follow last-write-wins.
	Upsert(ctx context.Context, l *Learner) error
	ListByEducator(ctx context.Context, educatorID string) ([]*Learner, error)
}

// SeatRepository defines the interface for roster/seat storage
type SeatRepository interface {
	Get(ctx context.Context, educatorID, studentID string) (*Seat, error)
	// Upsert creates the seat with joined_at on first insert; subsequent
	// calls only refresh last_seen_at and re-activate the status.
	Upsert(ctx context.Context, s *Seat) error
	CountActive(ctx context.Context, educatorID string) (int, error)
	Revoke(ctx context.Context, educatorID, studentID, revokedBy string) error
}

// Stores bundles the repositories an enrollment transaction writes through.
type Stores struct {
	Learners LearnerRepository
	Seats    SeatRepository
}

// TxRunner executes fn atomically.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Stores) error) error
}
