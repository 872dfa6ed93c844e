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

package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/univlive/univlive/internal/audit"
	"github.com/univlive/univlive/internal/id"
	"github.com/univlive/univlive/internal/observability/logger"
)

// DefaultFanoutChunk bounds how many learner rows a single fan-out write
// touches. Kept comfortably under any per-batch write limit of the store.
const DefaultFanoutChunk = 400

// ReassignResult is returned by ReassignSlug.
type ReassignResult struct {
	OldSlug         string
	NewSlug         string
	StudentsUpdated int
}

// Service provides slug registry business logic
type Service struct {
	tenants     TenantRepository
	accounts    AccountSlugs
	learners    LearnerFanout
	fanouts     FanoutRepository
	tx          TxRunner
	auditLogger audit.Logger
	chunkSize   int
}

// NewService creates a new registry service
func NewService(
	tenants TenantRepository,
	accounts AccountSlugs,
	learners LearnerFanout,
	fanouts FanoutRepository,
	tx TxRunner,
	auditLogger audit.Logger,
	chunkSize int,
) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultFanoutChunk
	}
	return &Service{
		tenants:     tenants,
		accounts:    accounts,
		learners:    learners,
		fanouts:     fanouts,
		tx:          tx,
		auditLogger: auditLogger,
		chunkSize:   chunkSize,
	}
}

// Resolve looks up a live or alias record by slug.
func (s *Service) Resolve(ctx context.Context, slug string) (*Tenant, error) {
	return s.tenants.GetBySlug(ctx, NormalizeSlug(slug))
}

// ReassignSlug moves the educator's public identity to a new slug. The old
// slug survives as an alias so historical links keep resolving. Phase 1 (the
// rename itself plus the fan-out marker) is atomic; phase 2 (propagating the
// new slug to enrolled learners) is best-effort and retried by the fan-out
// worker if it does not complete here.
func (s *Service) ReassignSlug(ctx context.Context, educatorID, requested string) (*ReassignResult, error) {
	newSlug := NormalizeSlug(requested)
	if err := ValidateSlug(newSlug); err != nil {
		return nil, fmt.Errorf("%w: %q", err, requested)
	}

	oldSlug, err := s.accounts.CurrentSlug(ctx, educatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if oldSlug == "" {
		return nil, ErrNoCurrentSlug
	}

	if oldSlug == newSlug {
		return &ReassignResult{OldSlug: oldSlug, NewSlug: newSlug}, nil
	}

	// Pre-flight availability check. Racy by itself; re-checked inside the
	// transaction below.
	if err := s.checkAvailable(ctx, s.tenants, newSlug, educatorID); err != nil {
		return nil, err
	}

	job := &FanoutJob{
		ID:         id.NewUUIDv7(),
		EducatorID: educatorID,
		OldSlug:    oldSlug,
		NewSlug:    newSlug,
		Status:     FanoutPending,
	}

	err = s.tx.WithTx(ctx, func(st Stores) error {
		// Re-validate ownership inside the transaction: a concurrent rename
		// may have claimed the slug since the pre-flight read.
		if err := s.checkAvailable(ctx, st.Tenants, newSlug, educatorID); err != nil {
			return err
		}

		now := time.Now()
		if err := st.Tenants.Upsert(ctx, &Tenant{
			Slug:           newSlug,
			OwnerAccountID: educatorID,
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("failed to claim slug %q: %w", newSlug, err)
		}

		// The retired slug keeps its owner so alias resolution still lands
		// on the same account.
		if err := st.Tenants.Upsert(ctx, &Tenant{
			Slug:           oldSlug,
			OwnerAccountID: educatorID,
			AliasOf:        newSlug,
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("failed to retire slug %q: %w", oldSlug, err)
		}

		if err := st.Accounts.SetTenantSlug(ctx, educatorID, newSlug); err != nil {
			return fmt.Errorf("failed to update account slug: %w", err)
		}

		return st.Fanouts.Enqueue(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	// Phase 2: the rename is already durable. Fan-out failures are logged
	// and left to the worker, never surfaced as operation failure.
	updated := s.runFanout(ctx, job)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSlugChanged,
		ActorID:  educatorID,
		Resource: newSlug,
		Metadata: map[string]any{"old_slug": oldSlug, "students_updated": updated},
	})

	return &ReassignResult{OldSlug: oldSlug, NewSlug: newSlug, StudentsUpdated: updated}, nil
}

// checkAvailable enforces the "not taken by someone else" rule. An existing
// record is acceptable only when unowned or already owned by the caller.
func (s *Service) checkAvailable(ctx context.Context, tenants TenantRepository, slug, educatorID string) error {
	existing, err := tenants.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check slug availability: %w", err)
	}
	if existing.OwnerAccountID != "" && existing.OwnerAccountID != educatorID {
		return fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}
	return nil
}

// runFanout pushes the new slug into learner records in bounded chunks. Each
// chunk commits independently; a mid-run failure leaves the job pending for
// the reconciliation worker.
func (s *Service) runFanout(ctx context.Context, job *FanoutJob) int {
	updated := 0
	for {
		n, err := s.learners.AddEnrolledTenantChunk(ctx, job.EducatorID, job.NewSlug, s.chunkSize)
		if err != nil {
			slog.ErrorContext(ctx, "slug fan-out chunk failed",
				logger.Error(err),
				logger.EducatorID(job.EducatorID),
				logger.Slug(job.NewSlug),
			)
			job.Attempts++
			job.StudentsUpdated += updated
			if uerr := s.fanouts.Update(ctx, job); uerr != nil {
				slog.ErrorContext(ctx, "failed to record fan-out progress", logger.Error(uerr))
			}
			return updated
		}
		updated += n
		if n == 0 {
			break
		}
	}

	job.Attempts++
	job.StudentsUpdated += updated
	job.Status = FanoutDone
	if err := s.fanouts.Update(ctx, job); err != nil {
		slog.ErrorContext(ctx, "failed to mark fan-out done", logger.Error(err))
	}
	return updated
}

// RunPendingFanouts retries fan-out jobs that did not complete inline. Meant
// to be driven by a ticker in the process entry point.
func (s *Service) RunPendingFanouts(ctx context.Context, limit int) error {
	jobs, err := s.fanouts.ListPending(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list pending fan-outs: %w", err)
	}
	for _, job := range jobs {
		n := s.runFanout(ctx, job)
		if n > 0 || job.Status == FanoutDone {
			slog.InfoContext(ctx, "fan-out reconciled",
				logger.Slug(job.NewSlug),
				logger.EducatorID(job.EducatorID),
				slog.Int("students_updated", n),
			)
		}
	}
	return nil
}
