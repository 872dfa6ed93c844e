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
	"github.com/univlive/univlive/internal/registry"
)

// TenantRepository implements registry.TenantRepository
type TenantRepository struct {
	q querier
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{q: db.pool}
}

// GetBySlug retrieves a tenant record, live or alias, by slug
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*registry.Tenant, error) {
	var tenant registry.Tenant
	var aliasOf sql.NullString

	err := r.q.QueryRow(ctx, `
		SELECT slug, owner_account_id, alias_of, created_at, updated_at
		FROM tenants
		WHERE slug = $1
	`, slug).Scan(
		&tenant.Slug, &tenant.OwnerAccountID, &aliasOf,
		&tenant.CreatedAt, &tenant.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, registry.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if aliasOf.Valid {
		tenant.AliasOf = aliasOf.String
	}

	return &tenant, nil
}

// Upsert inserts or replaces a tenant record keyed by slug
func (r *TenantRepository) Upsert(ctx context.Context, tenant *registry.Tenant) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tenants (slug, owner_account_id, alias_of, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), now(), now())
		ON CONFLICT (slug) DO UPDATE SET
			owner_account_id = EXCLUDED.owner_account_id,
			alias_of = EXCLUDED.alias_of,
			updated_at = now()
	`, tenant.Slug, tenant.OwnerAccountID, tenant.AliasOf)
	if err != nil {
		return fmt.Errorf("failed to upsert tenant: %w", err)
	}

	return nil
}
