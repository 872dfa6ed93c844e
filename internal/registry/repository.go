package registry

import (
	"context"
	"errors"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidSlug    = errors.New("slug must be 3-40 characters of a-z, 0-9 and hyphens")
	ErrSlugReserved   = errors.New("slug is reserved")
	ErrSlugTaken      = errors.New("slug already taken")
	ErrNoCurrentSlug  = errors.New("account has no current slug")
)

// TenantRepository defines the interface for slug registry storage
type TenantRepository interface {
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Upsert(ctx context.Context, tenant *Tenant) error
}

// FanoutRepository defines the interface for fan-out job storage
type FanoutRepository interface {
	Enqueue(ctx context.Context, job *FanoutJob) error
	ListPending(ctx context.Context, limit int) ([]*FanoutJob, error)
	Update(ctx context.Context, job *FanoutJob) error
}

// AccountSlugs is the slice of the account store the registry mutates.
type AccountSlugs interface {
	CurrentSlug(ctx context.Context, accountID string) (string, error)
	SetTenantSlug(ctx context.Context, accountID, slug string) error
}

// LearnerFanout applies one bounded chunk of the enrolled-tenants fan-out.
// The chunk both adds the slug to the append-only set and refreshes the
// legacy single-value mirror. Returns the number of learner rows touched;
// zero means the fan-out has converged.
type LearnerFanout interface {
	AddEnrolledTenantChunk(ctx context.Context, educatorID, slug string, limit int) (int, error)
}

// Stores bundles the repositories a rename transaction writes through.
type Stores struct {
	Tenants  TenantRepository
	Accounts AccountSlugs
	Fanouts  FanoutRepository
}

// TxRunner executes fn atomically. Implementations retry on store-level
// contention aborts and must not retry terminal errors returned by fn.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Stores) error) error
}
