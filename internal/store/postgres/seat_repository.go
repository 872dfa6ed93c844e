// Copyright 2026 The UNIV.LIVE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/univlive/univlive/internal/enrollment"
)

// SeatRepository implements enrollment.SeatRepository
type SeatRepository struct {
	q querier
}

// NewSeatRepository creates a new seat repository
func NewSeatRepository(db *DB) *SeatRepository {
	return &SeatRepository{q: db.pool}
}

// Get retrieves a seat by its educator/student pair
func (r *SeatRepository) Get(ctx context.Context, educatorID, studentID string) (*enrollment.Seat, error) {
	var s enrollment.Seat
	var revokedAt sql.NullTime

	err := r.q.QueryRow(ctx, `
		SELECT educator_id, student_id, status, joined_at, last_seen_at,
			revoked_at, revoked_by
		FROM seats
		WHERE educator_id = $1 AND student_id = $2
	`, educatorID, studentID).Scan(
		&s.EducatorID, &s.StudentID, &s.Status, &s.JoinedAt, &s.LastSeenAt,
		&revokedAt, &s.RevokedBy,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, enrollment.ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}

	return &s, nil
}

// Upsert creates the seat on first insert and re-activates it on repeats.
// joined_at is only written once; every call refreshes last_seen_at.
func (r *SeatRepository) Upsert(ctx context.Context, s *enrollment.Seat) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO seats (educator_id, student_id, status, joined_at, last_seen_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (educator_id, student_id) DO UPDATE SET
			status = EXCLUDED.status,
			last_seen_at = now()
	`, s.EducatorID, s.StudentID, s.Status)
	if err != nil {
		return fmt.Errorf("failed to upsert seat: %w", err)
	}

	return nil
}

// CountActive counts the seats currently in active status for an educator
func (r *SeatRepository) CountActive(ctx context.Context, educatorID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM seats
		WHERE educator_id = $1 AND status = $2
	`, educatorID, enrollment.SeatActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active seats: %w", err)
	}

	return count, nil
}

// Revoke flips a seat to inactive. The row is kept so revocation history
// survives and the seat stays re-activatable.
func (r *SeatRepository) Revoke(ctx context.Context, educatorID, studentID, revokedBy string) error {
	result, err := r.q.Exec(ctx, `
		UPDATE seats SET
			status = $3,
			revoked_at = now(),
			revoked_by = $4
		WHERE educator_id = $1 AND student_id = $2
	`, educatorID, studentID, enrollment.SeatInactive, revokedBy)
	if err != nil {
		return fmt.Errorf("failed to revoke seat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return enrollment.ErrSeatNotFound
	}

	return nil
}
