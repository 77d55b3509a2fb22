package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gatepass/config"
	kafkaMocks "gatepass/infras/kafka/mocks"
	otelMocks "gatepass/infras/otel/mocks"
	qrMocks "gatepass/infras/qr/mocks"
	bookingMocks "gatepass/internal/domains/booking/mocks"
	"gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/booking/model/dto"
	"gatepass/internal/domains/booking/service"
	grMocks "gatepass/internal/domains/guestrequest/mocks"
	pricingService "gatepass/internal/domains/pricing/service"
	pricingMocks "gatepass/internal/domains/pricing/service/mocks"
	"gatepass/shared/cache"
	cacheMocks "gatepass/shared/cache/mocks"
	gModel "gatepass/shared/model"

	"gatepass/shared/failure"
)

const (
	testBookingID = "22222222-2222-4222-8222-222222222222"
	testEventID   = "11111111-1111-4111-8111-111111111111"
	testMemberID  = "33333333-3333-4333-8333-333333333333"
)

type bookingMocksBundle struct {
	repo    *bookingMocks.MockBooking
	grRepo  *grMocks.MockGuestRequest
	pricing *pricingMocks.MockPricing
	qrCodec *qrMocks.MockQR
	cache   *cacheMocks.MockRedisCache
	kafka   *kafkaMocks.MockClient
}

func newBookingService(t *testing.T) (service.Booking, bookingMocksBundle) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := bookingMocksBundle{
		repo:    bookingMocks.NewMockBooking(ctrl),
		grRepo:  grMocks.NewMockGuestRequest(ctrl),
		pricing: pricingMocks.NewMockPricing(ctrl),
		qrCodec: qrMocks.NewMockQR(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		kafka:   kafkaMocks.NewMockClient(ctrl),
	}

	// Cache invalidation and event publishing run on detached goroutines; the
	// tests assert state transitions, not side effect timing.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.grRepo, m.pricing, m.qrCodec, cfg, m.cache, m.kafka, otelMocks.NewOtel())

	return svc, m
}

func memberBooking() model.Booking {
	return model.Booking{
		ID:       testBookingID,
		EventID:  testEventID,
		MemberID: testMemberID,
		Kind:     model.KindMember,
		TicketAllocation: model.TicketAllocation{
			MemberCount:      2,
			MemberVegCount:   2,
			GuestCount:       1,
			GuestNonVegCount: 1,
		},
		TotalAdmissibleCount: 3,
		GrossAmount:          350_00,
		FinalAmount:          350_00,
		PaymentStatus:        model.PaymentStatusPending,
		ApprovalStatus:       model.ApprovalStatusNotRequired,
		Metadata: gModel.Metadata{
			CreatedAt:  time.Now(),
			ModifiedAt: time.Now(),
			CreatedBy:  testMemberID,
			ModifiedBy: testMemberID,
		},
	}
}

func TestBookingService_Create_InvalidAllocation(t *testing.T) {
	svc, _ := newBookingService(t)

	req := dto.CreateBookingRequest{
		EventID: testEventID,
		TicketAllocation: model.TicketAllocation{
			MemberCount:    1,
			MemberVegCount: 2,
		},
	}

	_, err := svc.Create(context.Background(), req, testMemberID)

	assert.Error(t, err)
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestBookingService_Create_PricingError(t *testing.T) {
	svc, m := newBookingService(t)

	m.pricing.EXPECT().
		Price(gomock.Any(), testEventID, gomock.Any(), "").
		Return(pricingService.Quote{}, errors.New("pricing unavailable"))

	req := dto.CreateBookingRequest{
		EventID: testEventID,
		TicketAllocation: model.TicketAllocation{
			MemberCount:    1,
			MemberVegCount: 1,
		},
	}

	_, err := svc.Create(context.Background(), req, testMemberID)

	assert.Error(t, err)
}

func TestBookingService_Create_BeginTxError(t *testing.T) {
	svc, m := newBookingService(t)

	m.pricing.EXPECT().
		Price(gomock.Any(), testEventID, gomock.Any(), "").
		Return(pricingService.Quote{GrossAmount: 100_00, FinalAmount: 100_00}, nil)
	m.repo.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("connection refused"))

	req := dto.CreateBookingRequest{
		EventID: testEventID,
		TicketAllocation: model.TicketAllocation{
			MemberCount:    1,
			MemberVegCount: 1,
		},
	}

	_, err := svc.Create(context.Background(), req, testMemberID)

	assert.Error(t, err)
}

func TestBookingService_ConfirmPayment_IssuesQR(t *testing.T) {
	svc, m := newBookingService(t)

	confirmed := memberBooking()
	confirmed.PaymentStatus = model.PaymentStatusCompleted
	confirmed.PaymentRef = "UTR-001"

	m.repo.EXPECT().
		ConfirmPayment(gomock.Any(), testBookingID, "UTR-001", gomock.Any()).
		Return(true, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(confirmed, nil)
	m.qrCodec.EXPECT().
		Issue(testBookingID, confirmed.TotalAdmissibleCount).
		Return("signed-token", nil)
	m.repo.EXPECT().
		AssignQRCode(gomock.Any(), testBookingID, "signed-token", gomock.Any()).
		Return(true, nil)

	res, err := svc.ConfirmPayment(context.Background(), testBookingID, dto.ConfirmPaymentRequest{PaymentRef: "UTR-001"}, testMemberID)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, res.PaymentStatus)
	assert.Equal(t, "signed-token", res.QRCode)
	assert.Equal(t, 3, res.RemainingScans)
}

func TestBookingService_ConfirmPayment_IdempotentSameRef(t *testing.T) {
	svc, m := newBookingService(t)

	confirmed := memberBooking()
	confirmed.PaymentStatus = model.PaymentStatusCompleted
	confirmed.PaymentRef = "UTR-001"
	confirmed.QRCode = "signed-token"

	m.repo.EXPECT().
		ConfirmPayment(gomock.Any(), testBookingID, "UTR-001", gomock.Any()).
		Return(false, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(confirmed, nil)

	res, err := svc.ConfirmPayment(context.Background(), testBookingID, dto.ConfirmPaymentRequest{PaymentRef: "UTR-001"}, testMemberID)

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", res.QRCode)
}

// The first confirmation can complete the payment and then die before the
// token is written. A retry with the same reference takes the idempotent path
// and must leave the booking with its QR, not without one.
func TestBookingService_ConfirmPayment_RetryRepairsMissingQR(t *testing.T) {
	svc, m := newBookingService(t)

	confirmed := memberBooking()
	confirmed.PaymentStatus = model.PaymentStatusCompleted
	confirmed.PaymentRef = "UTR-001"

	m.repo.EXPECT().
		ConfirmPayment(gomock.Any(), testBookingID, "UTR-001", gomock.Any()).
		Return(false, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(confirmed, nil)
	m.qrCodec.EXPECT().
		Issue(testBookingID, confirmed.TotalAdmissibleCount).
		Return("signed-token", nil)
	m.repo.EXPECT().
		AssignQRCode(gomock.Any(), testBookingID, "signed-token", gomock.Any()).
		Return(true, nil)

	res, err := svc.ConfirmPayment(context.Background(), testBookingID, dto.ConfirmPaymentRequest{PaymentRef: "UTR-001"}, testMemberID)

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", res.QRCode)
	assert.Equal(t, 3, res.RemainingScans)
}

func TestBookingService_ConfirmPayment_WrongState(t *testing.T) {
	tests := []struct {
		name    string
		booking func() model.Booking
	}{
		{
			name: "still pending after rejected approval",
			booking: func() model.Booking {
				b := memberBooking()
				b.Kind = model.KindGuestReferral
				b.ApprovalStatus = model.ApprovalStatusRejected

				return b
			},
		},
		{
			name: "completed with different reference",
			booking: func() model.Booking {
				b := memberBooking()
				b.PaymentStatus = model.PaymentStatusCompleted
				b.PaymentRef = "UTR-OTHER"

				return b
			},
		},
		{
			name: "already failed",
			booking: func() model.Booking {
				b := memberBooking()
				b.PaymentStatus = model.PaymentStatusFailed

				return b
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, m := newBookingService(t)

			m.repo.EXPECT().
				ConfirmPayment(gomock.Any(), testBookingID, "UTR-001", gomock.Any()).
				Return(false, nil)
			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(test.booking(), nil)

			_, err := svc.ConfirmPayment(context.Background(), testBookingID, dto.ConfirmPaymentRequest{PaymentRef: "UTR-001"}, testMemberID)

			assert.Error(t, err)
			assert.Equal(t, 409, failure.GetCode(err))
		})
	}
}

func TestBookingService_FailPayment(t *testing.T) {
	svc, m := newBookingService(t)

	failed := memberBooking()
	failed.PaymentStatus = model.PaymentStatusFailed
	failed.FailureReason = "card declined"

	m.repo.EXPECT().
		FailPayment(gomock.Any(), testBookingID, "card declined", gomock.Any()).
		Return(true, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(failed, nil)

	res, err := svc.FailPayment(context.Background(), testBookingID, dto.FailPaymentRequest{Reason: "card declined"}, testMemberID)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, res.PaymentStatus)
	assert.Equal(t, "card declined", res.FailureReason)
}

func TestBookingService_FailPayment_Conflict(t *testing.T) {
	svc, m := newBookingService(t)

	completed := memberBooking()
	completed.PaymentStatus = model.PaymentStatusCompleted

	m.repo.EXPECT().
		FailPayment(gomock.Any(), testBookingID, "too late", gomock.Any()).
		Return(false, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(completed, nil)

	_, err := svc.FailPayment(context.Background(), testBookingID, dto.FailPaymentRequest{Reason: "too late"}, testMemberID)

	assert.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestBookingService_RetryPayment(t *testing.T) {
	svc, m := newBookingService(t)

	retried := memberBooking()

	m.repo.EXPECT().
		RetryPayment(gomock.Any(), testBookingID, gomock.Any()).
		Return(true, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(retried, nil)

	res, err := svc.RetryPayment(context.Background(), testBookingID, testMemberID)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
	assert.Empty(t, res.FailureReason)
}

func TestBookingService_RetryPayment_Conflict(t *testing.T) {
	svc, m := newBookingService(t)

	m.repo.EXPECT().
		RetryPayment(gomock.Any(), testBookingID, gomock.Any()).
		Return(false, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(memberBooking(), nil)

	_, err := svc.RetryPayment(context.Background(), testBookingID, testMemberID)

	assert.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestBookingService_Get_NotFound(t *testing.T) {
	svc, m := newBookingService(t)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Booking{}, nil)

	_, err := svc.Get(context.Background(), testBookingID)

	assert.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestBookingService_Get(t *testing.T) {
	svc, m := newBookingService(t)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(memberBooking(), nil)

	res, err := svc.Get(context.Background(), testBookingID)

	assert.NoError(t, err)
	assert.Equal(t, testBookingID, res.ID)
	assert.Equal(t, 3, res.TotalAdmissibleCount)
}

func TestBookingService_EnsureQRIssued_AlreadyIssued(t *testing.T) {
	svc, m := newBookingService(t)

	issued := memberBooking()
	issued.PaymentStatus = model.PaymentStatusCompleted
	issued.QRCode = "signed-token"

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(issued, nil)

	err := svc.EnsureQRIssued(context.Background(), testBookingID)

	assert.NoError(t, err)
}

func TestBookingService_EnsureQRIssued_NotAdmissible(t *testing.T) {
	svc, m := newBookingService(t)

	pending := memberBooking()
	pending.Kind = model.KindGuestReferral
	pending.PaymentStatus = model.PaymentStatusCompleted
	pending.ApprovalStatus = model.ApprovalStatusPending

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pending, nil)

	err := svc.EnsureQRIssued(context.Background(), testBookingID)

	assert.NoError(t, err)
}

func TestBookingService_EnsureQRIssued_LostRace(t *testing.T) {
	svc, m := newBookingService(t)

	admissible := memberBooking()
	admissible.PaymentStatus = model.PaymentStatusCompleted

	winner := admissible
	winner.QRCode = "winner-token"

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(admissible, nil)
	m.qrCodec.EXPECT().
		Issue(testBookingID, admissible.TotalAdmissibleCount).
		Return("loser-token", nil)
	m.repo.EXPECT().
		AssignQRCode(gomock.Any(), testBookingID, "loser-token", gomock.Any()).
		Return(false, nil)
	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(winner, nil)

	err := svc.EnsureQRIssued(context.Background(), testBookingID)

	assert.NoError(t, err)
}
