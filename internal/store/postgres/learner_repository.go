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
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/univlive/univlive/internal/enrollment"
)

// LearnerRepository implements enrollment.LearnerRepository and the
// registry's fan-out writer.
type LearnerRepository struct {
	q querier
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db *DB) *LearnerRepository {
	return &LearnerRepository{q: db.pool}
}

// Get retrieves a learner by uid
func (r *LearnerRepository) Get(ctx context.Context, uid string) (*enrollment.Learner, error) {
	var l enrollment.Learner

	err := r.q.QueryRow(ctx, `
		SELECT uid, educator_id, tenant_slug, display_name, email, role,
			enrolled_tenants, created_at, updated_at
		FROM learners
		WHERE uid = $1
	`, uid).Scan(
		&l.UID, &l.EducatorID, &l.TenantSlug, &l.DisplayName, &l.Email, &l.Role,
		&l.EnrolledTenants, &l.CreatedAt, &l.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, enrollment.ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	return &l, nil
}

// Upsert inserts or merges a learner record. The enrolled_tenants set is
// unioned rather than overwritten so a concurrent rename fan-out is never
// rolled back by an enrollment write.
func (r *LearnerRepository) Upsert(ctx context.Context, l *enrollment.Learner) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO learners (
			uid, educator_id, tenant_slug, display_name, email, role,
			enrolled_tenants, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (uid) DO UPDATE SET
			educator_id = EXCLUDED.educator_id,
			tenant_slug = EXCLUDED.tenant_slug,
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			enrolled_tenants = (
				SELECT COALESCE(array_agg(DISTINCT t ORDER BY t), '{}')
				FROM unnest(learners.enrolled_tenants || EXCLUDED.enrolled_tenants) AS t
			),
			updated_at = now()
	`,
		l.UID, l.EducatorID, l.TenantSlug, l.DisplayName, l.Email, l.Role,
		l.EnrolledTenants,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert learner: %w", err)
	}

	return nil
}

// ListByEducator retrieves all learners enrolled under an educator
func (r *LearnerRepository) ListByEducator(ctx context.Context, educatorID string) ([]*enrollment.Learner, error) {
	rows, err := r.q.Query(ctx, `
		SELECT uid, educator_id, tenant_slug, display_name, email, role,
			enrolled_tenants, created_at, updated_at
		FROM learners
		WHERE educator_id = $1
		ORDER BY uid
	`, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
	}
	defer rows.Close()

	var learners []*enrollment.Learner
	for rows.Next() {
		var l enrollment.Learner
		if err := rows.Scan(
			&l.UID, &l.EducatorID, &l.TenantSlug, &l.DisplayName, &l.Email, &l.Role,
			&l.EnrolledTenants, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan learner: %w", err)
		}
		learners = append(learners, &l)
	}

	return learners, rows.Err()
}

// AddEnrolledTenantChunk adds slug to the enrolled-tenants set of up to
// limit learners under educatorID that do not carry it yet, and refreshes
// the legacy single-value mirror on the same rows. Returns the number of
// rows touched; zero means every learner already carries the slug.
func (r *LearnerRepository) AddEnrolledTenantChunk(ctx context.Context, educatorID, slug string, limit int) (int, error) {
	result, err := r.q.Exec(ctx, `
		UPDATE learners SET
			enrolled_tenants = enrolled_tenants || $2::text,
			tenant_slug = $2,
			updated_at = now()
		WHERE uid IN (
			SELECT uid FROM learners
			WHERE educator_id = $1 AND NOT ($2 = ANY(enrolled_tenants))
			ORDER BY uid
			LIMIT $3
		)
	`, educatorID, slug, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to fan out slug: %w", err)
	}

	return int(result.RowsAffected()), nil
}
