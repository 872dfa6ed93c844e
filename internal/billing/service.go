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

package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/univlive/univlive/internal/account"
	"github.com/univlive/univlive/internal/audit"
	"github.com/univlive/univlive/internal/enrollment"
)

var (
	ErrNoSubscription = errors.New("no subscription on file")
	ErrMissingStudent = errors.New("studentId is required")
	ErrSeatLimit      = errors.New("quantity is below currently assigned seats")
	ErrUpstream       = errors.New("subscription provider error")
)

// SubscriptionAPI is the external billing collaborator. UpdateQuantity
// applies an immediate-effect quantity change and returns the confirmed
// subscription status.
type SubscriptionAPI interface {
	UpdateQuantity(ctx context.Context, subscriptionID string, quantity int) (status string, err error)
}

// Service guards seat quantity changes and mirrors confirmed upstream state
// back into the account record.
type Service struct {
	accounts    account.Repository
	seats       enrollment.SeatRepository
	subs        SubscriptionAPI
	auditLogger audit.Logger
}

// NewService creates a new billing service
func NewService(
	accounts account.Repository,
	seats enrollment.SeatRepository,
	subs SubscriptionAPI,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		accounts:    accounts,
		seats:       seats,
		subs:        subs,
		auditLogger: auditLogger,
	}
}

// UpdateSeatQuantity rejects a decrease below the active seat count without
// contacting the provider; otherwise it forwards the change upstream and
// persists the confirmed result.
func (s *Service) UpdateSeatQuantity(ctx context.Context, educatorID string, requested int) (int, error) {
	if requested < 1 {
		requested = 1
	}

	acct, err := s.accounts.GetByID(ctx, educatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	if acct.SubscriptionID == "" {
		return 0, ErrNoSubscription
	}

	active, err := s.seats.CountActive(ctx, educatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count active seats: %w", err)
	}
	if requested < active {
		return 0, fmt.Errorf("%w: %d seats are active, free %d first",
			ErrSeatLimit, active, active-requested)
	}

	status, err := s.subs.UpdateQuantity(ctx, acct.SubscriptionID, requested)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.accounts.UpdateSubscription(ctx, educatorID, requested, status); err != nil {
		return 0, fmt.Errorf("failed to persist confirmed quantity: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeQuantityUpdated,
		ActorID:  educatorID,
		Resource: acct.SubscriptionID,
		Metadata: map[string]any{"quantity": requested, "status": status},
	})

	return requested, nil
}

// RevokeSeat flips the seat to inactive with an audit trail. A merge update,
// never a delete: the row stays reactivatable.
func (s *Service) RevokeSeat(ctx context.Context, educatorID, studentID string) error {
	if studentID == "" {
		return ErrMissingStudent
	}

	if err := s.seats.Revoke(ctx, educatorID, studentID, educatorID); err != nil {
		return fmt.Errorf("failed to revoke seat: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSeatRevoked,
		ActorID:  educatorID,
		Resource: studentID,
	})

	return nil
}
