package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gatepass/config"
	otelMocks "gatepass/infras/otel/mocks"
	bookingModel "gatepass/internal/domains/booking/model"
	pricingMocks "gatepass/internal/domains/pricing/mocks"
	"gatepass/internal/domains/pricing/model"
	"gatepass/internal/domains/pricing/service"
	"gatepass/shared/cache"
	cacheMocks "gatepass/shared/cache/mocks"
	"gatepass/shared/failure"
	"gatepass/shared/timezone"
)

const testEventID = "11111111-1111-4111-8111-111111111111"

func newPricingService(t *testing.T) (service.Pricing, *pricingMocks.MockPricing, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := pricingMocks.NewMockPricing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func eventPrice() model.EventPrice {
	return model.EventPrice{
		EventID:     testEventID,
		MemberPrice: 100_00,
		GuestPrice:  150_00,
		KidPrice:    50_00,
	}
}

func allocation() bookingModel.TicketAllocation {
	return bookingModel.TicketAllocation{
		MemberCount:      2,
		MemberVegCount:   2,
		GuestCount:       1,
		GuestNonVegCount: 1,
		KidCount:         1,
		KidVegCount:      1,
		KidNonVegCount:   0,
	}
}

func TestPricingService_Price_NoDiscount(t *testing.T) {
	svc, mockRepo, mockCache := newPricingService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetEventPrice(gomock.Any(), testEventID).Return(eventPrice(), nil)

	quote, err := svc.Price(context.Background(), testEventID, allocation(), "")

	assert.NoError(t, err)
	// 2 members + 1 guest + 1 kid
	assert.Equal(t, int64(2*100_00+150_00+50_00), quote.GrossAmount)
	assert.Equal(t, quote.GrossAmount, quote.FinalAmount)
	assert.False(t, quote.DiscountApplied)
	assert.False(t, quote.DiscountIgnored)
}

func TestPricingService_Price_UnknownCodeIgnored(t *testing.T) {
	svc, mockRepo, mockCache := newPricingService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetEventPrice(gomock.Any(), testEventID).Return(eventPrice(), nil)
	mockRepo.EXPECT().GetDiscountCode(gomock.Any(), "NOPE", testEventID).Return(model.DiscountCode{}, nil)

	quote, err := svc.Price(context.Background(), testEventID, allocation(), "NOPE")

	assert.NoError(t, err)
	assert.True(t, quote.DiscountIgnored)
	assert.False(t, quote.DiscountApplied)
	assert.Equal(t, quote.GrossAmount, quote.FinalAmount)
}

func TestPricingService_Price_ExpiredCodeIgnored(t *testing.T) {
	svc, mockRepo, mockCache := newPricingService(t)

	expired := model.DiscountCode{
		Code:       "LATE",
		EventID:    testEventID,
		PercentOff: 10,
		ValidFrom:  timezone.Now().Add(-48 * time.Hour),
		ValidUntil: timezone.Now().Add(-24 * time.Hour),
		Active:     true,
	}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetEventPrice(gomock.Any(), testEventID).Return(eventPrice(), nil)
	mockRepo.EXPECT().GetDiscountCode(gomock.Any(), "LATE", testEventID).Return(expired, nil)

	quote, err := svc.Price(context.Background(), testEventID, allocation(), "LATE")

	assert.NoError(t, err)
	assert.True(t, quote.DiscountIgnored)
	assert.Equal(t, quote.GrossAmount, quote.FinalAmount)
}

func TestPricingService_Price_PercentAndFlat(t *testing.T) {
	svc, mockRepo, mockCache := newPricingService(t)

	code := model.DiscountCode{
		Code:       "COMBO",
		EventID:    testEventID,
		PercentOff: 10,
		FlatOff:    25_00,
		ValidFrom:  timezone.Now().Add(-time.Hour),
		ValidUntil: timezone.Now().Add(time.Hour),
		Active:     true,
	}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetEventPrice(gomock.Any(), testEventID).Return(eventPrice(), nil)
	mockRepo.EXPECT().GetDiscountCode(gomock.Any(), "COMBO", testEventID).Return(code, nil)

	quote, err := svc.Price(context.Background(), testEventID, allocation(), "COMBO")

	assert.NoError(t, err)
	assert.True(t, quote.DiscountApplied)

	gross := quote.GrossAmount
	assert.Equal(t, gross-gross*10/100-25_00, quote.FinalAmount)
}

func TestPricingService_Price_DiscountNeverNegative(t *testing.T) {
	svc, mockRepo, mockCache := newPricingService(t)

	code := model.DiscountCode{
		Code:       "ALL",
		EventID:    testEventID,
		PercentOff: 100,
		FlatOff:    10_000_00,
		ValidFrom:  timezone.Now().Add(-time.Hour),
		ValidUntil: timezone.Now().Add(time.Hour),
		Active:     true,
	}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockRepo.EXPECT().GetEventPrice(gomock.Any(), testEventID).Return(eventPrice(), nil)
	mockRepo.EXPECT().GetDiscountCode(gomock.Any(), "ALL", testEventID).Return(code, nil)

	quote, err := svc.Price(context.Background(), testEventID, allocation(), "ALL")

	assert.NoError(t, err)
	assert.Equal(t, int64(0), quote.FinalAmount)
}

func TestPricingService_Price_NoPriceConfigured(t *testing.T) {
	svc, mockRepo, mockCache := newPricingService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockRepo.EXPECT().GetEventPrice(gomock.Any(), testEventID).Return(model.EventPrice{}, nil)

	_, err := svc.Price(context.Background(), testEventID, allocation(), "")

	assert.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestPricingService_Price_CachedPrice(t *testing.T) {
	svc, _, mockCache := newPricingService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			cached := []byte(`{"member_price":10000,"guest_price":15000,"kid_price":5000}`)

			return json.Unmarshal(cached, value)
		})

	quote, err := svc.Price(context.Background(), testEventID, allocation(), "")

	assert.NoError(t, err)
	assert.Equal(t, int64(2*100_00+150_00+50_00), quote.GrossAmount)
}
