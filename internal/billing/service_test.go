package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/univlive/univlive/internal/account"
	"github.com/univlive/univlive/internal/audit"
	"github.com/univlive/univlive/internal/enrollment"
)

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*account.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *mockAccountRepo) GetByTenantSlug(ctx context.Context, slug string) (*account.Profile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, p *account.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockAccountRepo) CurrentSlug(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockAccountRepo) SetTenantSlug(ctx context.Context, id, slug string) error {
	args := m.Called(ctx, id, slug)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdateSubscription(ctx context.Context, id string, quantity int, status string) error {
	args := m.Called(ctx, id, quantity, status)
	return args.Error(0)
}

type mockSeatRepo struct {
	mock.Mock
}

func (m *mockSeatRepo) Get(ctx context.Context, educatorID, studentID string) (*enrollment.Seat, error) {
	args := m.Called(ctx, educatorID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Seat), args.Error(1)
}

func (m *mockSeatRepo) Upsert(ctx context.Context, s *enrollment.Seat) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSeatRepo) CountActive(ctx context.Context, educatorID string) (int, error) {
	args := m.Called(ctx, educatorID)
	return args.Int(0), args.Error(1)
}

func (m *mockSeatRepo) Revoke(ctx context.Context, educatorID, studentID, revokedBy string) error {
	args := m.Called(ctx, educatorID, studentID, revokedBy)
	return args.Error(0)
}

type mockSubsAPI struct {
	mock.Mock
}

func (m *mockSubsAPI) UpdateQuantity(ctx context.Context, subscriptionID string, quantity int) (string, error) {
	args := m.Called(ctx, subscriptionID, quantity)
	return args.String(0), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

// TestPurpose: Validates the seat guard: a quantity below the active seat
// count is rejected locally and the billing provider is never contacted.
// Scope: Unit Test
// Expected: ErrSeatLimit, zero calls to the subscription API, no account
// write.
// Test Case ID: BIL-01
func TestBilling_Service_UpdateSeatQuantity_BelowActiveSeats(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	auditLogger := new(mockAudit)
	service := NewService(accounts, seats, subs, auditLogger)

	ctx := context.Background()

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{
		ID:             "educator-1",
		SubscriptionID: "sub_123",
		Quantity:       5,
	}, nil)
	seats.On("CountActive", ctx, "educator-1").Return(4, nil)

	_, err := service.UpdateSeatQuantity(ctx, "educator-1", 2)

	assert.ErrorIs(t, err, ErrSeatLimit)
	subs.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPurpose: Validates the happy path: the provider confirms the change
// and the confirmed quantity and status are merged into the account.
// Scope: Unit Test
// Expected: The requested quantity is returned and persisted with the
// upstream status.
// Test Case ID: BIL-02
func TestBilling_Service_UpdateSeatQuantity_Success(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	auditLogger := new(mockAudit)
	service := NewService(accounts, seats, subs, auditLogger)

	ctx := context.Background()

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{
		ID:             "educator-1",
		SubscriptionID: "sub_123",
		Quantity:       3,
	}, nil)
	seats.On("CountActive", ctx, "educator-1").Return(3, nil)
	subs.On("UpdateQuantity", ctx, "sub_123", 5).Return("active", nil)
	accounts.On("UpdateSubscription", ctx, "educator-1", 5, "active").Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeQuantityUpdated && e.ActorID == "educator-1"
	})).Return()

	quantity, err := service.UpdateSeatQuantity(ctx, "educator-1", 5)

	assert.NoError(t, err)
	assert.Equal(t, 5, quantity)
	accounts.AssertExpectations(t)
	subs.AssertExpectations(t)
}

// A decrease to exactly the active seat count is allowed; the guard only
// rejects going below it.
func TestBilling_Service_UpdateSeatQuantity_ExactActiveCount(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	auditLogger := new(mockAudit)
	service := NewService(accounts, seats, subs, auditLogger)

	ctx := context.Background()

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{
		ID:             "educator-1",
		SubscriptionID: "sub_123",
		Quantity:       5,
	}, nil)
	seats.On("CountActive", ctx, "educator-1").Return(3, nil)
	subs.On("UpdateQuantity", ctx, "sub_123", 3).Return("active", nil)
	accounts.On("UpdateSubscription", ctx, "educator-1", 3, "active").Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	quantity, err := service.UpdateSeatQuantity(ctx, "educator-1", 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, quantity)
}

func TestBilling_Service_UpdateSeatQuantity_ClampsToOne(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	auditLogger := new(mockAudit)
	service := NewService(accounts, seats, subs, auditLogger)

	ctx := context.Background()

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{
		ID:             "educator-1",
		SubscriptionID: "sub_123",
	}, nil)
	seats.On("CountActive", ctx, "educator-1").Return(0, nil)
	subs.On("UpdateQuantity", ctx, "sub_123", 1).Return("active", nil)
	accounts.On("UpdateSubscription", ctx, "educator-1", 1, "active").Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	quantity, err := service.UpdateSeatQuantity(ctx, "educator-1", -2)

	assert.NoError(t, err)
	assert.Equal(t, 1, quantity)
}

func TestBilling_Service_UpdateSeatQuantity_NoSubscription(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	service := NewService(accounts, seats, subs, new(mockAudit))

	ctx := context.Background()

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{ID: "educator-1"}, nil)

	_, err := service.UpdateSeatQuantity(ctx, "educator-1", 5)

	assert.ErrorIs(t, err, ErrNoSubscription)
	seats.AssertNotCalled(t, "CountActive", mock.Anything, mock.Anything)
}

func TestBilling_Service_UpdateSeatQuantity_UpstreamFailure(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	service := NewService(accounts, seats, subs, new(mockAudit))

	ctx := context.Background()

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{
		ID:             "educator-1",
		SubscriptionID: "sub_123",
	}, nil)
	seats.On("CountActive", ctx, "educator-1").Return(0, nil)
	subs.On("UpdateQuantity", ctx, "sub_123", 5).Return("", assert.AnError)

	_, err := service.UpdateSeatQuantity(ctx, "educator-1", 5)

	assert.ErrorIs(t, err, ErrUpstream)
	// Nothing confirmed, nothing persisted.
	accounts.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPurpose: Validates that revoking a seat then lowering the quantity to
// the remaining active count passes the guard.
// Scope: Unit Test
// Expected: RevokeSeat marks the seat inactive; the follow-up quantity
// change to the reduced count succeeds.
// Test Case ID: BIL-03
func TestBilling_Service_RevokeThenReduce(t *testing.T) {
	accounts := new(mockAccountRepo)
	seats := new(mockSeatRepo)
	subs := new(mockSubsAPI)
	auditLogger := new(mockAudit)
	service := NewService(accounts, seats, subs, auditLogger)

	ctx := context.Background()

	seats.On("Revoke", ctx, "educator-1", "uid-9", "educator-1").Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeSeatRevoked && e.Resource == "uid-9"
	})).Return()

	assert.NoError(t, service.RevokeSeat(ctx, "educator-1", "uid-9"))

	accounts.On("GetByID", ctx, "educator-1").Return(&account.Profile{
		ID:             "educator-1",
		SubscriptionID: "sub_123",
		Quantity:       4,
	}, nil)
	seats.On("CountActive", ctx, "educator-1").Return(3, nil)
	subs.On("UpdateQuantity", ctx, "sub_123", 3).Return("active", nil)
	accounts.On("UpdateSubscription", ctx, "educator-1", 3, "active").Return(nil)
	auditLogger.On("Log", ctx, mock.Anything).Return()

	quantity, err := service.UpdateSeatQuantity(ctx, "educator-1", 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, quantity)
	seats.AssertExpectations(t)
}

func TestBilling_Service_RevokeSeat_MissingStudent(t *testing.T) {
	seats := new(mockSeatRepo)
	service := NewService(new(mockAccountRepo), seats, new(mockSubsAPI), new(mockAudit))

	err := service.RevokeSeat(context.Background(), "educator-1", "")

	assert.ErrorIs(t, err, ErrMissingStudent)
	seats.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
