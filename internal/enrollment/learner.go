package enrollment

import (
	"time"
)

// RoleStudent is the role stamped on every learner profile.
const RoleStudent = "STUDENT"

// Learner represents a student identity. EnrolledTenants is append-only;
// TenantSlug mirrors the most recent enrollment for legacy readers.
type Learner struct {
	UID             string    `json:"uid"`
	EducatorID      string    `json:"educator_id"`
	TenantSlug      string    `json:"tenant_slug"`
	DisplayName     string    `json:"display_name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	EnrolledTenants []string  `json:"enrolled_tenants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Enrolled reports whether the learner already carries slug.
func (l *Learner) Enrolled(slug string) bool {
	for _, s := range l.EnrolledTenants {
		if s == slug {
			return true
		}
	}
	return false
}

// Seat statuses. Revocation and re-assignment toggle freely; there is no
// terminal state.
const (
	SeatActive   = "active"
	SeatInactive = "inactive"
)

// Seat is one billing unit: a learner's access under a provider's
// subscription. Rows are merge-updated, never deleted, preserving history
// for reactivation and audit.
type Seat struct {
	EducatorID string     `json:"educator_id"`
	StudentID  string     `json:"student_id"`
	Status     string     `json:"status"`
	JoinedAt   time.Time  `json:"joined_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	RevokedBy  string     `json:"revoked_by,omitempty"`
}
