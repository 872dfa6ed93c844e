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

package account

import (
	"context"
	"errors"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")

// Profile represents a coaching-provider (educator) account. Exactly one
// live tenant record points here as its current slug; retired slugs keep the
// owner as aliases.
type Profile struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	DisplayName        string    `json:"display_name"`
	TenantSlug         string    `json:"tenant_slug"`
	Quantity           int       `json:"quantity"`
	SubscriptionID     string    `json:"subscription_id"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Repository defines the interface for account storage
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	// GetByTenantSlug scans the legacy tenant_slug column. Kept as a
	// resolution fallback for accounts provisioned before the registry
	// existed.
	GetByTenantSlug(ctx context.Context, slug string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	CurrentSlug(ctx context.Context, id string) (string, error)
	SetTenantSlug(ctx context.Context, id, slug string) error
	// UpdateSubscription merges the confirmed quantity and status without
	// overwriting other subscription fields.
	UpdateSubscription(ctx context.Context, id string, quantity int, status string) error
}
