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
	"time"
)

// Tenant maps a public slug to the account that serves it. A retired slug is
// never deleted on rename; it becomes an alias record pointing at its
// successor so historical links keep resolving.
type Tenant struct {
	Slug           string    `json:"slug"`
	OwnerAccountID string    `json:"owner_account_id"`
	AliasOf        string    `json:"alias_of,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAlias reports whether this record is a retired slug.
func (t *Tenant) IsAlias() bool {
	return t.AliasOf != ""
}

// FanoutJob tracks propagation of a slug change to enrolled learners. It is
// written in the same transaction as the rename so a crash between commit and
// fan-out leaves a durable marker for the reconciliation worker.
type FanoutJob struct {
	ID              string    `json:"id"`
	EducatorID      string    `json:"educator_id"`
	OldSlug         string    `json:"old_slug"`
	NewSlug         string    `json:"new_slug"`
	Status          string    `json:"status"`
	StudentsUpdated int       `json:"students_updated"`
	Attempts        int       `json:"attempts"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Fan-out job statuses
const (
	FanoutPending = "pending"
	FanoutDone    = "done"
)
