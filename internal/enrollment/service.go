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

package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/univlive/univlive/internal/account"
	"github.com/univlive/univlive/internal/audit"
	"github.com/univlive/univlive/internal/registry"
)

// EnrollResult is returned by Enroll.
type EnrollResult struct {
	EducatorID string
	Slug       string
}

// Service provides student enrollment business logic
type Service struct {
	tenants     registry.TenantRepository
	accounts    account.Repository
	tx          TxRunner
	auditLogger audit.Logger
}

// NewService creates a new enrollment service
func NewService(
	tenants registry.TenantRepository,
	accounts account.Repository,
	tx TxRunner,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		tenants:     tenants,
		accounts:    accounts,
		tx:          tx,
		auditLogger: auditLogger,
	}
}

// Enroll resolves slug to its owning educator and durably attaches the
// learner to it. Safe to call on every login: all writes are either set
// unions or monotonically refreshed timestamps, so repeated identical calls
// converge.
func (s *Service) Enroll(ctx context.Context, uid, slug, displayNameHint, emailHint string) (*EnrollResult, error) {
	slug = registry.NormalizeSlug(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrCoachingNotFound)
	}

	educatorID, err := s.resolveOwner(ctx, slug)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(st Stores) error {
		now := time.Now()

		learner, err := st.Learners.Get(ctx, uid)
		if err != nil {
			if !errors.Is(err, ErrLearnerNotFound) {
				return fmt.Errorf("failed to load learner: %w", err)
			}
			learner = &Learner{UID: uid}
		}

		// Hints never clobber previously stored values.
		if learner.DisplayName == "" {
			learner.DisplayName = displayNameHint
		}
		if learner.Email == "" {
			learner.Email = emailHint
		}
		learner.Role = RoleStudent
		learner.EducatorID = educatorID
		learner.TenantSlug = slug
		if !learner.Enrolled(slug) {
			learner.EnrolledTenants = append(learner.EnrolledTenants, slug)
		}
		learner.UpdatedAt = now

		if err := st.Learners.Upsert(ctx, learner); err != nil {
			return fmt.Errorf("failed to upsert learner: %w", err)
		}

		if err := st.Seats.Upsert(ctx, &Seat{
			EducatorID: educatorID,
			StudentID:  uid,
			Status:     SeatActive,
			LastSeenAt: now,
		}); err != nil {
			return fmt.Errorf("failed to upsert roster entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeStudentEnrolled,
		ActorID:  uid,
		Resource: slug,
		Metadata: map[string]any{"educator_id": educatorID},
	})

	return &EnrollResult{EducatorID: educatorID, Slug: slug}, nil
}

// resolveOwner prefers the registry over the legacy scan. Alias records
// resolve transparently because they retain the original owner.
func (s *Service) resolveOwner(ctx context.Context, slug string) (string, error) {
	t, err := s.tenants.GetBySlug(ctx, slug)
	if err == nil && t.OwnerAccountID != "" {
		return t.OwnerAccountID, nil
	}
	if err != nil && !errors.Is(err, registry.ErrTenantNotFound) {
		return "", fmt.Errorf("failed to resolve slug: %w", err)
	}

	// Accounts provisioned before the registry existed only carry the
	// legacy tenant_slug column.
	acct, err := s.accounts.GetByTenantSlug(ctx, slug)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return "", ErrCoachingNotFound
		}
		return "", fmt.Errorf("failed to scan accounts for slug: %w", err)
	}
	return acct.ID, nil
}
