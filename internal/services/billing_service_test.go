package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradementor/internal/gateway"
	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type fakeSubscriptionRepo struct {
	subs     map[uuid.UUID]*db_models.Subscription
	statuses map[uuid.UUID]db_models.SubscriptionStatus
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subs:     map[uuid.UUID]*db_models.Subscription{},
		statuses: map[uuid.UUID]db_models.SubscriptionStatus{},
	}
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *db_models.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) Save(_ context.Context, sub *db_models.Subscription) error {
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return sub, nil
}

func (f *fakeSubscriptionRepo) FindActiveByCustomerID(_ context.Context, customerID uuid.UUID) (*db_models.Subscription, error) {
	for _, sub := range f.subs {
		if sub.CustomerID == customerID && sub.Status == db_models.SubStatusActive {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) FindDueForBilling(_ context.Context, date time.Time) ([]db_models.Subscription, error) {
	var due []db_models.Subscription
	for _, sub := range f.subs {
		if sub.Status == db_models.SubStatusActive && !sub.NextBillingDate.After(date) {
			due = append(due, *sub)
		}
	}
	return due, nil
}

func (f *fakeSubscriptionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status db_models.SubscriptionStatus) error {
	f.statuses[id] = status
	if sub, ok := f.subs[id]; ok {
		sub.Status = status
	}
	return nil
}

type fakePlanRepo struct {
	active *db_models.SubscriptionPlan
}

func (f *fakePlanRepo) Create(_ context.Context, plan *db_models.SubscriptionPlan) error {
	return nil
}

func (f *fakePlanRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.SubscriptionPlan, error) {
	if f.active != nil && f.active.ID == id {
		return f.active, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakePlanRepo) FindActive(_ context.Context) (*db_models.SubscriptionPlan, error) {
	return f.active, nil
}

func (f *fakePlanRepo) GetAllPlans(_ context.Context) ([]db_models.SubscriptionPlan, error) {
	return nil, nil
}

func (f *fakePlanRepo) Activate(_ context.Context, id uuid.UUID) error {
	return nil
}

type fakePaymentRepo struct {
	payments []*db_models.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *db_models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakePaymentRepo) Save(_ context.Context, payment *db_models.Payment) error {
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Payment, error) {
	for _, p := range f.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakePaymentRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]db_models.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) List(_ context.Context, page, pageSize int) ([]db_models.Payment, int64, error) {
	return nil, 0, nil
}

type fakeMethodRepo struct {
	primary map[uuid.UUID]*db_models.PaymentMethod
	byID    map[uuid.UUID]*db_models.PaymentMethod
}

func (f *fakeMethodRepo) Create(_ context.Context, method *db_models.PaymentMethod) error {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	if f.byID == nil {
		f.byID = map[uuid.UUID]*db_models.PaymentMethod{}
	}
	f.byID[method.ID] = method
	return nil
}

func (f *fakeMethodRepo) Save(_ context.Context, method *db_models.PaymentMethod) error {
	if f.byID == nil {
		f.byID = map[uuid.UUID]*db_models.PaymentMethod{}
	}
	f.byID[method.ID] = method
	return nil
}

func (f *fakeMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.PaymentMethod, error) {
	if method, ok := f.byID[id]; ok {
		return method, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeMethodRepo) FindPrimaryByCustomerID(_ context.Context, customerID uuid.UUID) (*db_models.PaymentMethod, error) {
	if f.primary == nil {
		return nil, nil
	}
	return f.primary[customerID], nil
}

func (f *fakeMethodRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]db_models.PaymentMethod, error) {
	return nil, nil
}

func (f *fakeMethodRepo) MakePrimary(_ context.Context, customerID, methodID uuid.UUID) error {
	return nil
}

type fakeCustomerRepo struct {
	customers   map[uuid.UUID]*db_models.Customer
	memberships map[uuid.UUID]db_models.MembershipLevel
	testStatus  map[uuid.UUID]db_models.LevelTestProgress
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers:   map[uuid.UUID]*db_models.Customer{},
		memberships: map[uuid.UUID]db_models.MembershipLevel{},
		testStatus:  map[uuid.UUID]db_models.LevelTestProgress{},
	}
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *db_models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Save(_ context.Context, customer *db_models.Customer) error {
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return customer, nil
}

func (f *fakeCustomerRepo) FindByEmail(_ context.Context, email string) (*db_models.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) UpdateMembership(_ context.Context, id uuid.UUID, level db_models.MembershipLevel, expiredAt *int64) error {
	f.memberships[id] = level
	return nil
}

func (f *fakeCustomerRepo) UpdateLevelTestStatus(_ context.Context, id uuid.UUID, status db_models.LevelTestProgress) error {
	f.testStatus[id] = status
	return nil
}

func (f *fakeCustomerRepo) FindExpiredPremium(_ context.Context, now int64) ([]db_models.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) SaveAll(_ context.Context, customers []db_models.Customer) error {
	return nil
}

func (f *fakeCustomerRepo) ListByCourseStatus(_ context.Context, status db_models.CourseStatus) ([]db_models.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) PurgeDeletedBefore(_ context.Context, threshold time.Time) (int64, error) {
	return 0, nil
}

type fakeGateway struct {
	chargeResult *gateway.ChargeResult
	chargeErr    error
	failFor      map[string]error // billing key -> error
	chargeCalls  int
}

func (f *fakeGateway) RegisterBillingKey(_ context.Context, req gateway.BillingKeyRequest) (*gateway.BillingKeyResult, error) {
	return &gateway.BillingKeyResult{BillingKey: "BKEY-TEST", CardName: "TestCard", CardNoMasked: "1234-****-****-5678"}, nil
}

func (f *fakeGateway) DeleteBillingKey(_ context.Context, billingKey, orderID string) error {
	return nil
}

func (f *fakeGateway) Charge(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	f.chargeCalls++
	if err, ok := f.failFor[req.BillingKey]; ok {
		return nil, err
	}
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	if f.chargeResult != nil {
		return f.chargeResult, nil
	}
	return &gateway.ChargeResult{
		TID:           "TID-" + req.OrderID,
		AuthCode:      "000000",
		ResultCode:    "3001",
		ResultMessage: "approved",
		Amount:        req.Amount,
	}, nil
}

type fakeMail struct {
	failureNotices int
	expiredNotices int
}

func (f *fakeMail) SendPaymentFailureNotice(to, name string, failCount int) error {
	f.failureNotices++
	return nil
}

func (f *fakeMail) SendSubscriptionExpiredNotice(to, name string) error {
	f.expiredNotices++
	return nil
}

func (f *fakeMail) SendVerificationCode(to, code string) error {
	return nil
}

type billingFixture struct {
	subs      *fakeSubscriptionRepo
	plans     *fakePlanRepo
	payments  *fakePaymentRepo
	methods   *fakeMethodRepo
	customers *fakeCustomerRepo
	gw        *fakeGateway
	mail      *fakeMail
	svc       *billingService
}

func newBillingFixture(t *testing.T, now time.Time) *billingFixture {
	t.Helper()

	f := &billingFixture{
		subs:      newFakeSubscriptionRepo(),
		plans:     &fakePlanRepo{},
		payments:  &fakePaymentRepo{},
		methods:   &fakeMethodRepo{},
		customers: newFakeCustomerRepo(),
		gw:        &fakeGateway{},
		mail:      &fakeMail{},
	}
	f.plans.active = &db_models.SubscriptionPlan{
		Name:       "Monthly Coaching",
		PriceMinor: 59000,
		Currency:   "KRW",
		IsActive:   true,
	}
	f.plans.active.ID = uuid.New()

	svc := NewBillingService(
		f.subs, f.plans, f.payments, f.methods, f.customers,
		f.gw, f.mail,
		PromotionConfig{
			StartDate:     utils.DateOnly(time.Date(2025, 12, 5, 0, 0, 0, 0, utils.KST())),
			EndDate:       utils.DateOnly(time.Date(2025, 12, 17, 0, 0, 0, 0, utils.KST())),
			FreeMonths:    2,
			PaymentAmount: 0,
		},
		zap.NewNop(),
	).(*billingService)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func kstDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, utils.KST())
}

func activeSubscription(f *billingFixture, nextBilling time.Time) *db_models.Subscription {
	customer := &db_models.Customer{Email: "trader@example.com", Name: "Trader"}
	_ = f.customers.Create(context.Background(), customer)

	method := &db_models.PaymentMethod{
		CustomerID: customer.ID,
		BillingKey: "BKEY-" + uuid.NewString()[:8],
		IsPrimary:  true,
		IsActive:   true,
	}
	method.ID = uuid.New()

	last := nextBilling.AddDate(0, -1, 0)
	sub := &db_models.Subscription{
		CustomerID:         customer.ID,
		PlanID:             f.plans.active.ID,
		PaymentMethodID:    &method.ID,
		PaymentMethod:      method,
		Status:             db_models.SubStatusActive,
		CurrentPeriodStart: last,
		CurrentPeriodEnd:   nextBilling.AddDate(0, 0, -1),
		NextBillingDate:    nextBilling,
		LastBillingDate:    &last,
	}
	_ = f.subs.Create(context.Background(), sub)
	return sub
}

func TestExecutePayment_RecurringSuccess(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)
	sub.PaymentFailedCount = 2
	prevPeriodEnd := sub.CurrentPeriodEnd

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.NoError(t, err)

	require.Len(t, f.payments.payments, 1)
	payment := f.payments.payments[0]
	assert.Equal(t, db_models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, db_models.PaymentTypeRecurring, payment.PaymentType)
	assert.Equal(t, int64(59000), payment.Amount)

	// New period starts the day after the previous one ended.
	assert.True(t, sub.CurrentPeriodStart.Equal(prevPeriodEnd.AddDate(0, 0, 1)))
	assert.True(t, sub.CurrentPeriodEnd.Equal(today.AddDate(0, 1, -1)))
	assert.True(t, sub.NextBillingDate.Equal(today.AddDate(0, 1, 0)))

	// Any success clears the consecutive-failure counter.
	assert.Equal(t, 0, sub.PaymentFailedCount)
	assert.Nil(t, sub.LastPaymentFailedAt)
	require.NotNil(t, sub.LastBillingDate)
	assert.True(t, sub.LastBillingDate.Equal(today))

	assert.Equal(t, db_models.MembershipPremium, f.customers.memberships[sub.CustomerID])
}

func TestExecutePayment_FirstPaymentKeepsCreationDates(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)
	sub.LastBillingDate = nil
	sub.CurrentPeriodStart = today
	sub.CurrentPeriodEnd = today.AddDate(0, 1, -1)
	sub.NextBillingDate = today.AddDate(0, 1, 0)

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.NoError(t, err)

	require.Len(t, f.payments.payments, 1)
	assert.Equal(t, db_models.PaymentTypeInitial, f.payments.payments[0].PaymentType)

	// First charge bills the dates fixed at creation, unchanged.
	assert.True(t, sub.CurrentPeriodStart.Equal(today))
	assert.True(t, sub.CurrentPeriodEnd.Equal(today.AddDate(0, 1, -1)))
	assert.True(t, sub.NextBillingDate.Equal(today.AddDate(0, 1, 0)))
}

func TestExecutePayment_FailureBelowThreshold(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)
	f.gw.chargeErr = &gateway.Error{Code: "E001", Message: "card declined"}

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.Error(t, err)

	require.Len(t, f.payments.payments, 1)
	assert.Equal(t, db_models.PaymentStatusFailed, f.payments.payments[0].Status)

	assert.Equal(t, 1, sub.PaymentFailedCount)
	assert.NotNil(t, sub.LastPaymentFailedAt)

	// Below the threshold the subscription stays ACTIVE.
	_, changed := f.subs.statuses[sub.ID]
	assert.False(t, changed)
	assert.Equal(t, 0, f.mail.failureNotices)
}

func TestExecutePayment_ThirdFailureMovesToPaymentFailed(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)
	sub.PaymentFailedCount = 2
	f.gw.chargeErr = &gateway.Error{Code: "E001", Message: "card declined"}

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.Error(t, err)

	assert.Equal(t, 3, sub.PaymentFailedCount)
	assert.Equal(t, db_models.SubStatusPaymentFailed, f.subs.statuses[sub.ID])
	assert.Equal(t, 1, f.mail.failureNotices)
}

func TestExecutePayment_NoUsableMethodExpires(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)
	sub.PaymentMethod.IsDeleted = true

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, db_models.SubStatusExpired, f.subs.statuses[sub.ID])
	// No charge was attempted, so no payment row exists.
	assert.Empty(t, f.payments.payments)
	assert.Equal(t, 0, f.gw.chargeCalls)
	assert.Equal(t, 1, f.mail.expiredNotices)
}

func TestExecutePayment_FallsBackToPrimaryMethod(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)
	sub.PaymentMethod.IsActive = false

	fallback := &db_models.PaymentMethod{
		CustomerID: sub.CustomerID,
		BillingKey: "BKEY-FALLBACK",
		IsPrimary:  true,
		IsActive:   true,
	}
	fallback.ID = uuid.New()
	f.methods.primary = map[uuid.UUID]*db_models.PaymentMethod{sub.CustomerID: fallback}

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.NoError(t, err)

	// The fallback method is remembered on the subscription.
	require.NotNil(t, sub.PaymentMethodID)
	assert.Equal(t, fallback.ID, *sub.PaymentMethodID)
	assert.Equal(t, 1, f.gw.chargeCalls)
}

func TestExecutePayment_PromotionZeroAmountSkipsGateway(t *testing.T) {
	today := kstDate(2025, 12, 10)
	f := newBillingFixture(t, today)
	sub := activeSubscription(f, today)

	err := f.svc.ExecutePaymentForSubscription(context.Background(), sub)
	require.NoError(t, err)

	require.Len(t, f.payments.payments, 1)
	payment := f.payments.payments[0]
	assert.Equal(t, db_models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, int64(0), payment.Amount)
	assert.True(t, payment.IsPromotional)
	assert.Equal(t, 0, f.gw.chargeCalls)

	// Promotion cycles advance by FreeMonths instead of one month.
	assert.True(t, sub.NextBillingDate.Equal(today.AddDate(0, 2, 0)))
	assert.True(t, sub.CurrentPeriodEnd.Equal(today.AddDate(0, 2, -1)))
}

func TestProcessRecurringPayments_PartialFailureIsolation(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)

	good1 := activeSubscription(f, today)
	bad := activeSubscription(f, today)
	good2 := activeSubscription(f, today)

	f.gw.failFor = map[string]error{
		bad.PaymentMethod.BillingKey: &gateway.Error{Code: "E001", Message: "card declined"},
	}

	charged, err := f.svc.ProcessRecurringPayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, charged)

	// The healthy subscriptions billed despite the failing one.
	assert.Equal(t, db_models.MembershipPremium, f.customers.memberships[good1.CustomerID])
	assert.Equal(t, db_models.MembershipPremium, f.customers.memberships[good2.CustomerID])
	assert.Equal(t, 1, f.subs.subs[bad.ID].PaymentFailedCount)
}

func TestProcessRecurringPayments_SkipsNotYetDue(t *testing.T) {
	today := kstDate(2026, 3, 10)
	f := newBillingFixture(t, today)

	activeSubscription(f, today)
	activeSubscription(f, today.AddDate(0, 0, 5)) // due later

	charged, err := f.svc.ProcessRecurringPayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, charged)
	assert.Equal(t, 1, f.gw.chargeCalls)
}

func TestPromotionConfig_Contains(t *testing.T) {
	promo := DefaultPromotionConfig()

	assert.True(t, promo.Contains(kstDate(2025, 12, 5)))
	assert.True(t, promo.Contains(kstDate(2025, 12, 17)))
	assert.False(t, promo.Contains(kstDate(2025, 12, 4)))
	assert.False(t, promo.Contains(kstDate(2025, 12, 18)))
}
