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
	"github.com/univlive/univlive/internal/account"
)

// AccountRepository implements account.Repository
type AccountRepository struct {
	q querier
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{q: db.pool}
}

const accountColumns = `
	id, email, display_name, tenant_slug,
	quantity, subscription_id, subscription_status,
	created_at, updated_at`

func (r *AccountRepository) scanProfile(row pgx.Row) (*account.Profile, error) {
	var p account.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.DisplayName, &p.TenantSlug,
		&p.Quantity, &p.SubscriptionID, &p.SubscriptionStatus,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &p, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Profile, error) {
	return r.scanProfile(r.q.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id))
}

// GetByTenantSlug retrieves the account whose legacy tenant_slug column
// matches. Pre-registry accounts are only reachable through this path.
func (r *AccountRepository) GetByTenantSlug(ctx context.Context, slug string) (*account.Profile, error) {
	return r.scanProfile(r.q.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE tenant_slug = $1
		LIMIT 1
	`, slug))
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, p *account.Profile) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO accounts (
			id, email, display_name, tenant_slug,
			quantity, subscription_id, subscription_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`,
		p.ID, p.Email, p.DisplayName, p.TenantSlug,
		p.Quantity, p.SubscriptionID, p.SubscriptionStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// CurrentSlug returns the account's current tenant slug
func (r *AccountRepository) CurrentSlug(ctx context.Context, id string) (string, error) {
	var slug string
	err := r.q.QueryRow(ctx, `
		SELECT tenant_slug FROM accounts WHERE id = $1
	`, id).Scan(&slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", account.ErrAccountNotFound
		}
		return "", fmt.Errorf("failed to get current slug: %w", err)
	}
	return slug, nil
}

// SetTenantSlug points the account at a new current slug
func (r *AccountRepository) SetTenantSlug(ctx context.Context, id, slug string) error {
	result, err := r.q.Exec(ctx, `
		UPDATE accounts SET tenant_slug = $2, updated_at = now()
		WHERE id = $1
	`, id, slug)
	if err != nil {
		return fmt.Errorf("failed to set tenant slug: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// UpdateSubscription merges the confirmed quantity and subscription status
func (r *AccountRepository) UpdateSubscription(ctx context.Context, id string, quantity int, status string) error {
	result, err := r.q.Exec(ctx, `
		UPDATE accounts SET
			quantity = $2,
			subscription_status = $3,
			updated_at = now()
		WHERE id = $1
	`, id, quantity, status)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}
