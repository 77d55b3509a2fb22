package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gatepass/config"
	kafkaMocks "gatepass/infras/kafka/mocks"
	otelMocks "gatepass/infras/otel/mocks"
	bookingSvcMocks "gatepass/internal/domains/booking/service/mocks"
	grMocks "gatepass/internal/domains/guestrequest/mocks"
	"gatepass/internal/domains/guestrequest/model"
	"gatepass/internal/domains/guestrequest/model/dto"
	"gatepass/internal/domains/guestrequest/service"
	"gatepass/shared"
	cacheMocks "gatepass/shared/cache/mocks"
	gDto "gatepass/shared/dto"
	"gatepass/shared/failure"
)

const (
	testRequestID = "55555555-5555-4555-8555-555555555555"
	testBookingID = "22222222-2222-4222-8222-222222222222"
	testSponsorID = "33333333-3333-4333-8333-333333333333"
)

func newGuestRequestService(t *testing.T) (service.GuestRequest, *grMocks.MockGuestRequest, *bookingSvcMocks.MockBooking) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := grMocks.NewMockGuestRequest(ctrl)
	mockBooking := bookingSvcMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)

	// Cache invalidation and event publishing run on detached goroutines; the
	// tests assert resolution outcomes, not side effect timing.
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockBooking, cfg, mockCache, mockKafka, otelMocks.NewOtel())

	return svc, mockRepo, mockBooking
}

func pendingRequest() model.GuestRequest {
	return model.GuestRequest{
		ID:                 testRequestID,
		BookingID:          testBookingID,
		SponsoringMemberID: testSponsorID,
		GuestName:          "A Guest",
		SeatCount:          2,
		Status:             model.StatusPending,
	}
}

func TestGuestRequestService_Approve(t *testing.T) {
	svc, mockRepo, mockBooking := newGuestRequestService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingRequest(), nil)
	mockRepo.EXPECT().
		Resolve(gomock.Any(), testRequestID, testBookingID, model.StatusApproved, testSponsorID, "welcome", gomock.Any()).
		Return(true, nil)
	mockBooking.EXPECT().
		EnsureQRIssued(gomock.Any(), testBookingID).
		Return(nil)

	res, err := svc.Approve(context.Background(), testRequestID, dto.ResolveRequest{Reason: "welcome"}, testSponsorID)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, res.Status)
	assert.Equal(t, testSponsorID, res.ResolvedBy)
}

func TestGuestRequestService_Reject(t *testing.T) {
	svc, mockRepo, _ := newGuestRequestService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingRequest(), nil)
	mockRepo.EXPECT().
		Resolve(gomock.Any(), testRequestID, testBookingID, model.StatusRejected, testSponsorID, "unknown guest", gomock.Any()).
		Return(true, nil)

	res, err := svc.Reject(context.Background(), testRequestID, dto.ResolveRequest{Reason: "unknown guest"}, testSponsorID)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, res.Status)
	assert.Equal(t, "unknown guest", res.ResolutionReason)
}

// Rejection writes approval_status on the linked bookings row, so the cached
// booking read must be dropped or it keeps reporting pending_approval for the
// cache TTL.
func TestGuestRequestService_Reject_DropsCachedBooking(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := grMocks.NewMockGuestRequest(ctrl)
	mockBooking := bookingSvcMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)

	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	deleted := make(chan string, 1)

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			deleted <- key

			return nil
		})

	cfg := &config.Config{}
	svc := service.New(mockRepo, mockBooking, cfg, mockCache, mockKafka, otelMocks.NewOtel())

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingRequest(), nil)
	mockRepo.EXPECT().
		Resolve(gomock.Any(), testRequestID, testBookingID, model.StatusRejected, testSponsorID, "unknown guest", gomock.Any()).
		Return(true, nil)

	_, err := svc.Reject(context.Background(), testRequestID, dto.ResolveRequest{Reason: "unknown guest"}, testSponsorID)
	assert.NoError(t, err)

	select {
	case key := <-deleted:
		assert.Equal(t, shared.BuildCacheKey("booking:get", testBookingID), key)
	case <-time.After(time.Second):
		t.Fatal("expected the cached booking to be dropped after rejection")
	}
}

func TestGuestRequestService_Resolve_NotSponsor(t *testing.T) {
	svc, mockRepo, _ := newGuestRequestService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingRequest(), nil)

	_, err := svc.Approve(context.Background(), testRequestID, dto.ResolveRequest{}, "someone-else")

	assert.Error(t, err)
	assert.Equal(t, 403, failure.GetCode(err))
}

func TestGuestRequestService_Resolve_AlreadyResolved(t *testing.T) {
	tests := []string{model.StatusApproved, model.StatusRejected}

	for _, status := range tests {
		t.Run(status, func(t *testing.T) {
			svc, mockRepo, _ := newGuestRequestService(t)

			resolved := pendingRequest()
			resolved.Status = status

			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(resolved, nil)

			_, err := svc.Reject(context.Background(), testRequestID, dto.ResolveRequest{}, testSponsorID)

			assert.Error(t, err)
			assert.Equal(t, 409, failure.GetCode(err))
		})
	}
}

func TestGuestRequestService_Resolve_LostRace(t *testing.T) {
	svc, mockRepo, _ := newGuestRequestService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingRequest(), nil)
	mockRepo.EXPECT().
		Resolve(gomock.Any(), testRequestID, testBookingID, model.StatusApproved, testSponsorID, "", gomock.Any()).
		Return(false, nil)

	_, err := svc.Approve(context.Background(), testRequestID, dto.ResolveRequest{}, testSponsorID)

	assert.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestGuestRequestService_Get_NotFound(t *testing.T) {
	svc, mockRepo, _ := newGuestRequestService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.GuestRequest{}, nil)

	_, err := svc.Get(context.Background(), testRequestID)

	assert.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestGuestRequestService_GetAll(t *testing.T) {
	svc, mockRepo, _ := newGuestRequestService(t)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.GuestRequest{pendingRequest()}, nil)
	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Requests, 1)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
}
