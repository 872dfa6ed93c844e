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
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/univlive/univlive/internal/enrollment"
	"github.com/univlive/univlive/internal/registry"
)

const maxTxAttempts = 3

// withSerializableTx runs fn in a SERIALIZABLE transaction, retrying up to
// maxTxAttempts times on serialization failures and deadlocks. Terminal
// errors from fn are returned on the first attempt.
func (db *DB) withSerializableTx(ctx context.Context, fn func(pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
			}
		}

		err = pgx.BeginTxFunc(ctx, db.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
	}

	return err
}

// isRetryable reports whether err is a serialization failure (40001) or a
// deadlock (40P01), the two SQLSTATEs where rerunning the transaction can
// succeed.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// RegistryTxRunner implements registry.TxRunner
type RegistryTxRunner struct {
	db *DB
}

// NewRegistryTxRunner creates a transaction runner for slug reassignment
func NewRegistryTxRunner(db *DB) *RegistryTxRunner {
	return &RegistryTxRunner{db: db}
}

// WithTx runs fn against repositories bound to one transaction
func (r *RegistryTxRunner) WithTx(ctx context.Context, fn func(registry.Stores) error) error {
	return r.db.withSerializableTx(ctx, func(tx pgx.Tx) error {
		return fn(registry.Stores{
			Tenants:  &TenantRepository{q: tx},
			Accounts: &AccountRepository{q: tx},
			Fanouts:  &FanoutRepository{q: tx},
		})
	})
}

// EnrollmentTxRunner implements enrollment.TxRunner
type EnrollmentTxRunner struct {
	db *DB
}

// NewEnrollmentTxRunner creates a transaction runner for enrollment
func NewEnrollmentTxRunner(db *DB) *EnrollmentTxRunner {
	return &EnrollmentTxRunner{db: db}
}

// WithTx runs fn against repositories bound to one transaction
func (r *EnrollmentTxRunner) WithTx(ctx context.Context, fn func(enrollment.Stores) error) error {
	return r.db.withSerializableTx(ctx, func(tx pgx.Tx) error {
		return fn(enrollment.Stores{
			Learners: &LearnerRepository{q: tx},
			Seats:    &SeatRepository{q: tx},
		})
	})
}
