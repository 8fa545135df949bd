package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking-backend/internal/config"
	bookingmodel "tourbooking-backend/internal/domains/booking/model"
	"tourbooking-backend/internal/domains/payment/gateway/nestpay"
	"tourbooking-backend/internal/domains/payment/model"
)

// =====================================================
// IN-MEMORY FAKES
// =====================================================

type fakeBookingRepo struct {
	byRef map[string]*bookingmodel.Booking
}

func newFakeBookingRepo(bookings ...*bookingmodel.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{byRef: make(map[string]*bookingmodel.Booking)}
	for _, b := range bookings {
		r.byRef[b.BookingReference] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(_ context.Context, b *bookingmodel.Booking) error {
	r.byRef[b.BookingReference] = b
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*bookingmodel.Booking, error) {
	for _, b := range r.byRef {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bookingmodel.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetByReference(_ context.Context, ref string) (*bookingmodel.Booking, error) {
	if b, ok := r.byRef[ref]; ok {
		return b, nil
	}
	return nil, bookingmodel.ErrBookingNotFound
}

// UpdatePaymentStatusTx mimics the conditional UPDATE: the write only
// lands when the stored status still matches the expected one.
func (r *fakeBookingRepo) UpdatePaymentStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, expected, newPaymentStatus, newBookingStatus string) error {
	for _, b := range r.byRef {
		if b.ID == id {
			if b.PaymentStatus != expected {
				return bookingmodel.ErrPaymentAlreadySettled
			}
			b.PaymentStatus = newPaymentStatus
			b.BookingStatus = newBookingStatus
			return nil
		}
	}
	return bookingmodel.ErrBookingNotFound
}

func (r *fakeBookingRepo) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]bookingmodel.Booking, error) {
	var stale []bookingmodel.Booking
	for _, b := range r.byRef {
		if b.PaymentStatus == bookingmodel.PaymentStatusPending && b.CreatedAt.Before(cutoff) {
			stale = append(stale, *b)
		}
		if len(stale) == limit {
			break
		}
	}
	return stale, nil
}

type fakePaymentRepo struct {
	records []*model.PaymentRecord
}

func (r *fakePaymentRepo) CreateWithTx(_ context.Context, _ pgx.Tx, record *model.PaymentRecord) error {
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *fakePaymentRepo) ListByBookingID(_ context.Context, bookingID uuid.UUID) ([]*model.PaymentRecord, error) {
	var out []*model.PaymentRecord
	for _, rec := range r.records {
		if rec.BookingID == bookingID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) List(_ context.Context, filter model.ListPaymentsFilter) ([]*model.PaymentRecord, int, error) {
	var out []*model.PaymentRecord
	for _, rec := range r.records {
		if filter.Status == "" || rec.PaymentStatus == filter.Status {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

type fakeWebhookRepo struct {
	logs       []*model.PaymentWebhookLog
	processed  map[uuid.UUID]bool
	lastErrors map[uuid.UUID]string
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{
		processed:  make(map[uuid.UUID]bool),
		lastErrors: make(map[uuid.UUID]string),
	}
}

func (r *fakeWebhookRepo) Create(_ context.Context, log *model.PaymentWebhookLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeWebhookRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.processed[id] = true
	return nil
}

func (r *fakeWebhookRepo) MarkProcessingError(_ context.Context, id uuid.UUID, processErr string) error {
	r.lastErrors[id] = processErr
	for _, l := range r.logs {
		if l.ID == id {
			l.Attempts++
		}
	}
	return nil
}

func (r *fakeWebhookRepo) ListUnprocessed(_ context.Context, limit, maxAttempts int) ([]*model.PaymentWebhookLog, error) {
	var out []*model.PaymentWebhookLog
	for _, l := range r.logs {
		if !r.processed[l.ID] && l.Attempts < maxAttempts {
			out = append(out, l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// fakeCache covers the advisory lock surface. setNXResult/setNXErr make
// contention and outages testable.
type fakeCache struct {
	setNXResult bool
	setNXErr    error
	locked      map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{setNXResult: true, locked: make(map[string]bool)}
}

func (c *fakeCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (c *fakeCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (c *fakeCache) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	if c.setNXErr != nil {
		return false, c.setNXErr
	}
	if c.setNXResult {
		c.locked[key] = true
	}
	return c.setNXResult, nil
}
func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.locked, k)
	}
	return nil
}
func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) { return c.locked[key], nil }
func (c *fakeCache) Ping(_ context.Context) error                       { return nil }

// =====================================================
// FIXTURES
// =====================================================

type serviceFixture struct {
	svc         PaymentService
	bookingRepo *fakeBookingRepo
	paymentRepo *fakePaymentRepo
	webhookRepo *fakeWebhookRepo
	cache       *fakeCache
}

const fixtureStoreKey = "TEST_STORE_KEY_123"

func newFixture(bookings ...*bookingmodel.Booking) *serviceFixture {
	bookingRepo := newFakeBookingRepo(bookings...)
	paymentRepo := &fakePaymentRepo{}
	webhookRepo := newFakeWebhookRepo()
	cache := newFakeCache()

	gateway := nestpay.NewClient(config.NestPayConfig{
		ClientID:    "merchant01",
		StoreKey:    fixtureStoreKey,
		GatewayURL:  "https://gateway.example.com/fim/est3Dgate",
		OkURL:       "https://example.com/api/v1/payments/response",
		FailURL:     "https://example.com/api/v1/payments/response",
		CallbackURL: "https://example.com/api/v1/webhooks/nestpay",
		StoreType:   "3d_pay_hosting",
		Currency:    "949",
		Lang:        "en",
		RefreshTime: "5",
	})

	return &serviceFixture{
		svc:         NewPaymentService(bookingRepo, paymentRepo, webhookRepo, &fakeTxManager{}, cache, gateway, 30),
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		webhookRepo: webhookRepo,
		cache:       cache,
	}
}

func pendingBooking(ref string, amount string) *bookingmodel.Booking {
	total, _ := decimal.NewFromString(amount)
	return &bookingmodel.Booking{
		ID:                   uuid.New(),
		BookingReference:     ref,
		TourName:             "Cappadocia Balloon Tour",
		CustomerName:         "Jane Roe",
		CustomerEmail:        "jane@example.com",
		CustomerPhone:        "+905551112233",
		SelectedDate:         time.Now().AddDate(0, 1, 0),
		NumberOfParticipants: 2,
		TotalAmount:          total,
		BookingStatus:        bookingmodel.BookingStatusPending,
		PaymentStatus:        bookingmodel.PaymentStatusPending,
		CreatedAt:            time.Now(),
	}
}

func approvedWebhook(ref string) model.WebhookRequest {
	return model.WebhookRequest{
		OrderID:  ref,
		Response: "Approved",
		MDStatus: "1",
		Amount:   "100.00",
		TransID:  "T1",
		AuthCode: "A1",
		TrxDate:  "20240115 14:30:45",
		Currency: "949",
	}
}

// =====================================================
// WEBHOOK SETTLEMENT
// =====================================================

func TestProcessWebhook_ApprovedSettlesBooking(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	ack, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "oid=BK-1&Response=Approved&mdStatus=1")
	require.NoError(t, err)

	assert.Equal(t, "BK-1", ack.BookingReference)
	assert.Equal(t, bookingmodel.PaymentStatusPaid, ack.PaymentStatus)
	assert.Equal(t, bookingmodel.BookingStatusConfirmed, ack.BookingStatus)

	assert.Equal(t, bookingmodel.PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, bookingmodel.BookingStatusConfirmed, booking.BookingStatus)

	require.Len(t, f.paymentRepo.records, 1)
	record := f.paymentRepo.records[0]
	assert.Equal(t, booking.ID, record.BookingID)
	assert.Equal(t, bookingmodel.PaymentStatusPaid, record.PaymentStatus)
	assert.Equal(t, "T1", record.TransactionID)
	assert.Equal(t, model.PaymentMethodCard, record.PaymentMethod)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("100.00")))

	// The gateway's proprietary timestamp was parsed.
	assert.Equal(t, 2024, record.PaidAt.Year())

	// The notification log was marked processed.
	require.Len(t, f.webhookRepo.logs, 1)
	assert.True(t, f.webhookRepo.processed[f.webhookRepo.logs[0].ID])
}

func TestProcessWebhook_DeclinedLeavesBookingRetryable(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	req := approvedWebhook("BK-1")
	req.Response = "Declined"
	req.MDStatus = "0"
	req.ErrCode = "51"
	req.ErrMsg = "Insufficient funds"

	ack, err := f.svc.ProcessWebhook(context.Background(), req, "raw")
	require.NoError(t, err)

	assert.Equal(t, bookingmodel.PaymentStatusFailed, ack.PaymentStatus)
	// Failure never cancels; the customer may retry.
	assert.Equal(t, bookingmodel.BookingStatusPending, ack.BookingStatus)
	assert.Equal(t, bookingmodel.BookingStatusPending, booking.BookingStatus)

	require.Len(t, f.paymentRepo.records, 1)
	record := f.paymentRepo.records[0]
	assert.Equal(t, bookingmodel.PaymentStatusFailed, record.PaymentStatus)
	require.NotNil(t, record.ResponseMsg)
	assert.Equal(t, "Insufficient funds", *record.ResponseMsg)
}

func TestProcessWebhook_StrictSuccessCondition(t *testing.T) {
	tests := []struct {
		name     string
		response string
		mdStatus string
	}{
		{"approved without 3ds authentication", "Approved", "0"},
		{"3ds authenticated but declined", "Declined", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := pendingBooking("BK-1", "100.00")
			f := newFixture(booking)

			req := approvedWebhook("BK-1")
			req.Response = tt.response
			req.MDStatus = tt.mdStatus

			ack, err := f.svc.ProcessWebhook(context.Background(), req, "raw")
			require.NoError(t, err)

			assert.Equal(t, bookingmodel.PaymentStatusFailed, ack.PaymentStatus)
			assert.Equal(t, bookingmodel.PaymentStatusFailed, booking.PaymentStatus)
		})
	}
}

func TestProcessWebhook_SecondDeliveryIsConflict(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	_, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "raw")
	require.NoError(t, err)

	_, err = f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "raw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingmodel.ErrPaymentAlreadySettled))

	// No second ledger row, booking state unchanged.
	assert.Len(t, f.paymentRepo.records, 1)
	assert.Equal(t, bookingmodel.PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, bookingmodel.BookingStatusConfirmed, booking.BookingStatus)
}

func TestProcessWebhook_MissingFieldsRejected(t *testing.T) {
	f := newFixture(pendingBooking("BK-1", "100.00"))

	req := approvedWebhook("BK-1")
	req.MDStatus = ""

	_, err := f.svc.ProcessWebhook(context.Background(), req, "raw")
	require.Error(t, err)

	var paymentErr *model.PaymentError
	require.True(t, errors.As(err, &paymentErr))
	assert.Equal(t, model.ErrCodePaymentValidation, paymentErr.Code)

	// No mutation attempted.
	assert.Empty(t, f.paymentRepo.records)
}

func TestProcessWebhook_UnknownBooking(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-MISSING"), "raw")
	require.Error(t, err)

	var paymentErr *model.PaymentError
	require.True(t, errors.As(err, &paymentErr))
	assert.Equal(t, model.ErrCodePaymentNotFound, paymentErr.Code)
}

func TestProcessWebhook_FallsBackToBookingAmount(t *testing.T) {
	booking := pendingBooking("BK-1", "250.00")
	f := newFixture(booking)

	req := approvedWebhook("BK-1")
	req.Amount = "not-a-number"

	_, err := f.svc.ProcessWebhook(context.Background(), req, "raw")
	require.NoError(t, err)

	require.Len(t, f.paymentRepo.records, 1)
	assert.True(t, f.paymentRepo.records[0].Amount.Equal(booking.TotalAmount))
}

// =====================================================
// SETTLEMENT LOCK
// =====================================================

func TestSettle_LockContention(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)
	f.cache.setNXResult = false

	_, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "raw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSettlementLocked))

	// The loser must not have written anything.
	assert.Empty(t, f.paymentRepo.records)
	assert.Equal(t, bookingmodel.PaymentStatusPending, booking.PaymentStatus)
}

func TestSettle_CacheOutageDegradesToConditionalUpdate(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)
	f.cache.setNXErr = errors.New("redis: connection refused")

	ack, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "raw")
	require.NoError(t, err)
	assert.Equal(t, bookingmodel.PaymentStatusPaid, ack.PaymentStatus)
}

func TestSettle_LockReleasedAfterSettlement(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	_, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "raw")
	require.NoError(t, err)

	assert.Empty(t, f.cache.locked)
}

// =====================================================
// REDIRECT SETTLEMENT
// =====================================================

func TestSettleSuccess(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	result, err := f.svc.SettleSuccess(context.Background(), "BK-1")
	require.NoError(t, err)

	assert.Equal(t, bookingmodel.PaymentStatusPaid, result.PaymentStatus)
	assert.Equal(t, bookingmodel.BookingStatusConfirmed, result.BookingStatus)
	require.Len(t, f.paymentRepo.records, 1)
	assert.True(t, f.paymentRepo.records[0].Amount.Equal(booking.TotalAmount))
}

func TestSettleFailure(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	result, err := f.svc.SettleFailure(context.Background(), "BK-1", "99", "General error")
	require.NoError(t, err)

	assert.Equal(t, bookingmodel.PaymentStatusFailed, result.PaymentStatus)
	assert.Equal(t, bookingmodel.BookingStatusPending, result.BookingStatus)

	require.Len(t, f.paymentRepo.records, 1)
	record := f.paymentRepo.records[0]
	require.NotNil(t, record.ResponseCode)
	assert.Equal(t, "99", *record.ResponseCode)
	require.NotNil(t, record.ResponseMsg)
	assert.Equal(t, "General error", *record.ResponseMsg)
}

func TestSettleSuccess_AlreadySettled(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	booking.PaymentStatus = bookingmodel.PaymentStatusPaid
	booking.BookingStatus = bookingmodel.BookingStatusConfirmed
	f := newFixture(booking)

	_, err := f.svc.SettleSuccess(context.Background(), "BK-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingmodel.ErrPaymentAlreadySettled))
	assert.Empty(t, f.paymentRepo.records)
}

// Webhook and redirect racing for the same booking: whoever writes first
// wins, the loser gets a conflict and writes nothing.
func TestSettle_WebhookThenRedirectRace(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	_, err := f.svc.ProcessWebhook(context.Background(), approvedWebhook("BK-1"), "raw")
	require.NoError(t, err)

	_, err = f.svc.SettleFailure(context.Background(), "BK-1", "99", "late redirect")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingmodel.ErrPaymentAlreadySettled))

	assert.Len(t, f.paymentRepo.records, 1)
	assert.Equal(t, bookingmodel.PaymentStatusPaid, booking.PaymentStatus)
}

// =====================================================
// CHECKOUT FORM
// =====================================================

func TestBuildCheckoutForm(t *testing.T) {
	booking := pendingBooking("BK-1", "1250.50")
	f := newFixture(booking)

	form, err := f.svc.BuildCheckoutForm(context.Background(), "BK-1")
	require.NoError(t, err)

	fields := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		fields[field.Name] = field.Value
	}

	assert.Equal(t, "BK-1", fields["oid"])
	assert.Equal(t, "1250.50", fields["amount"])
	assert.NotEmpty(t, fields["hash"])
}

func TestBuildCheckoutForm_SettledBookingRejected(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	booking.PaymentStatus = bookingmodel.PaymentStatusPaid
	f := newFixture(booking)

	_, err := f.svc.BuildCheckoutForm(context.Background(), "BK-1")
	require.Error(t, err)

	var paymentErr *model.PaymentError
	require.True(t, errors.As(err, &paymentErr))
	assert.Equal(t, model.ErrCodePaymentConflict, paymentErr.Code)
}

// =====================================================
// GATEWAY RETURN VERIFICATION
// =====================================================

func TestVerifyGatewayReturn_Tampered(t *testing.T) {
	f := newFixture()

	params := map[string]string{
		"oid":            "BK-1",
		"amount":         "100.00",
		"ProcReturnCode": "00",
	}
	hash := nestpay.ComputeHash(params, fixtureStoreKey, nestpay.OutboundExcludedKeys)

	// Tamper after signing.
	body := "oid=BK-1&amount=999.99&ProcReturnCode=00&hash=" + hash

	result, err := f.svc.VerifyGatewayReturn(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, model.ReturnOutcomeTampered, result.Outcome)
}

func TestVerifyGatewayReturn_Declined(t *testing.T) {
	f := newFixture()

	result, err := f.svc.VerifyGatewayReturn(context.Background(), "oid=BK-1&ProcReturnCode=99&ErrMsg=Do+not+honour")
	require.NoError(t, err)

	assert.Equal(t, model.ReturnOutcomeDeclined, result.Outcome)
	assert.Equal(t, "Do not honour", result.ErrorMessage)
}

// =====================================================
// BACKGROUND JOBS
// =====================================================

func TestExpireStalePayments(t *testing.T) {
	stale := pendingBooking("BK-STALE", "100.00")
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	fresh := pendingBooking("BK-FRESH", "100.00")
	f := newFixture(stale, fresh)

	expired, err := f.svc.ExpireStalePayments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, bookingmodel.PaymentStatusFailed, stale.PaymentStatus)
	assert.Equal(t, bookingmodel.BookingStatusPending, stale.BookingStatus)
	assert.Equal(t, bookingmodel.PaymentStatusPending, fresh.PaymentStatus)

	require.Len(t, f.paymentRepo.records, 1)
	require.NotNil(t, f.paymentRepo.records[0].ResponseCode)
	assert.Equal(t, "TIMEOUT", *f.paymentRepo.records[0].ResponseCode)
}

func TestRetryUnprocessedWebhooks(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	f := newFixture(booking)

	logEntry := &model.PaymentWebhookLog{
		ID:         uuid.New(),
		BookingRef: "BK-1",
		RawPayload: "oid=BK-1&Response=Approved&mdStatus=1&amount=100.00&TransId=T9",
		ReceivedAt: time.Now(),
	}
	require.NoError(t, f.webhookRepo.Create(context.Background(), logEntry))

	replayed, err := f.svc.RetryUnprocessedWebhooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, replayed)
	assert.Equal(t, bookingmodel.PaymentStatusPaid, booking.PaymentStatus)
	assert.True(t, f.webhookRepo.processed[logEntry.ID])
}

func TestRetryUnprocessedWebhooks_AlreadySettledMarksProcessed(t *testing.T) {
	booking := pendingBooking("BK-1", "100.00")
	booking.PaymentStatus = bookingmodel.PaymentStatusPaid
	booking.BookingStatus = bookingmodel.BookingStatusConfirmed
	f := newFixture(booking)

	logEntry := &model.PaymentWebhookLog{
		ID:         uuid.New(),
		BookingRef: "BK-1",
		RawPayload: "oid=BK-1&Response=Approved&mdStatus=1",
		ReceivedAt: time.Now(),
	}
	require.NoError(t, f.webhookRepo.Create(context.Background(), logEntry))

	replayed, err := f.svc.RetryUnprocessedWebhooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, replayed)
	assert.True(t, f.webhookRepo.processed[logEntry.ID])
}

func TestRetryUnprocessedWebhooks_MalformedPayloadRecorded(t *testing.T) {
	f := newFixture()

	logEntry := &model.PaymentWebhookLog{
		ID:         uuid.New(),
		BookingRef: "BK-1",
		RawPayload: "Response=Approved", // missing oid and mdStatus
		ReceivedAt: time.Now(),
	}
	require.NoError(t, f.webhookRepo.Create(context.Background(), logEntry))

	replayed, err := f.svc.RetryUnprocessedWebhooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, replayed)
	assert.False(t, f.webhookRepo.processed[logEntry.ID])
	assert.NotEmpty(t, f.webhookRepo.lastErrors[logEntry.ID])
	assert.Equal(t, 1, logEntry.Attempts)
}

func TestRetryUnprocessedWebhooks_AttemptCapStopsReplay(t *testing.T) {
	f := newFixture()

	logEntry := &model.PaymentWebhookLog{
		ID:         uuid.New(),
		BookingRef: "BK-1",
		RawPayload: "Response=Approved", // missing oid and mdStatus
		ReceivedAt: time.Now(),
	}
	require.NoError(t, f.webhookRepo.Create(context.Background(), logEntry))

	// Keep replaying: the malformed entry accrues one attempt per cycle
	// until the cap removes it from the batch.
	for i := 0; i < 10; i++ {
		replayed, err := f.svc.RetryUnprocessedWebhooks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, replayed)
	}

	assert.Equal(t, maxWebhookAttempts, logEntry.Attempts)
	assert.False(t, f.webhookRepo.processed[logEntry.ID])
}
