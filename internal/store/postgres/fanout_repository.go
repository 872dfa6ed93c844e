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

	"github.com/univlive/univlive/internal/registry"
)

// FanoutRepository implements registry.FanoutRepository
type FanoutRepository struct {
	q querier
}

// NewFanoutRepository creates a new fan-out job repository
func NewFanoutRepository(db *DB) *FanoutRepository {
	return &FanoutRepository{q: db.pool}
}

// Enqueue records a pending fan-out job
func (r *FanoutRepository) Enqueue(ctx context.Context, job *registry.FanoutJob) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO slug_fanouts (
			id, educator_id, old_slug, new_slug,
			status, students_updated, attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`,
		job.ID, job.EducatorID, job.OldSlug, job.NewSlug,
		job.Status, job.StudentsUpdated, job.Attempts,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue fanout job: %w", err)
	}

	return nil
}

// ListPending retrieves up to limit pending jobs, oldest first
func (r *FanoutRepository) ListPending(ctx context.Context, limit int) ([]*registry.FanoutJob, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, educator_id, old_slug, new_slug,
			status, students_updated, attempts, created_at, updated_at
		FROM slug_fanouts
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`, registry.FanoutPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending fanout jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*registry.FanoutJob
	for rows.Next() {
		var job registry.FanoutJob
		if err := rows.Scan(
			&job.ID, &job.EducatorID, &job.OldSlug, &job.NewSlug,
			&job.Status, &job.StudentsUpdated, &job.Attempts,
			&job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fanout job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

// Update persists job progress
func (r *FanoutRepository) Update(ctx context.Context, job *registry.FanoutJob) error {
	result, err := r.q.Exec(ctx, `
		UPDATE slug_fanouts SET
			status = $2,
			students_updated = $3,
			attempts = $4,
			updated_at = now()
		WHERE id = $1
	`, job.ID, job.Status, job.StudentsUpdated, job.Attempts)
	if err != nil {
		return fmt.Errorf("failed to update fanout job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("fanout job %s not found", job.ID)
	}

	return nil
}
