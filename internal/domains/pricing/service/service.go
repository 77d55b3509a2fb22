package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"gatepass/config"
	"gatepass/infras/otel"
	bookingModel "gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/pricing/repository"
	"gatepass/shared"
	"gatepass/shared/cache"
	"gatepass/shared/constant"
	"gatepass/shared/failure"
	"gatepass/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetEventPrice = "pricing:event"
)

// Quote is the priced outcome for one allocation. Re-pricing the same
// allocation and code always yields the same amounts, which reconciliation
// and export rely on.
type Quote struct {
	GrossAmount     int64
	FinalAmount     int64
	DiscountCode    string
	DiscountApplied bool
	// DiscountIgnored is set when a code was supplied but unknown, expired,
	// or inactive. Checkout proceeds at the gross amount; a bad code never
	// blocks a booking.
	DiscountIgnored bool
}

type Pricing interface {
	Price(ctx context.Context, eventID string, allocation bookingModel.TicketAllocation, discountCode string) (Quote, error)
}

type serviceImpl struct {
	repo  repository.Pricing
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Pricing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Pricing {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Price(ctx context.Context, eventID string, allocation bookingModel.TicketAllocation, discountCode string) (res Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Price")
	defer scope.End()
	defer scope.TraceIfError(err)

	price, err := s.eventPrice(ctx, eventID)
	if err != nil {
		return res, err
	}

	gross := int64(allocation.MemberCount)*price.MemberPrice +
		int64(allocation.GuestCount)*price.GuestPrice +
		int64(allocation.KidCount)*price.KidPrice

	res = Quote{
		GrossAmount: gross,
		FinalAmount: gross,
	}

	if discountCode == "" {
		return res, nil
	}

	res.DiscountCode = discountCode

	code, err := s.repo.GetDiscountCode(ctx, discountCode, eventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get discount code")

		return res, fmt.Errorf("failed to get discount code: %w", err)
	}

	if !code.Usable(timezone.Now()) {
		log.Info().Str("code", discountCode).Str("eventID", eventID).Msg("discount code ignored")

		res.DiscountIgnored = true

		return res, nil
	}

	discount := gross*int64(code.PercentOff)/100 + code.FlatOff

	final := gross - discount
	if final < 0 {
		final = 0
	}

	res.FinalAmount = final
	res.DiscountApplied = true

	return res, nil
}

func (s *serviceImpl) eventPrice(ctx context.Context, eventID string) (price pricingPrice, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetEventPrice, eventID)

	err = s.cache.Get(ctx, cacheKey, &price)
	if err == nil {
		return price, nil
	}

	mod, err := s.repo.GetEventPrice(ctx, eventID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get event price")

		return price, fmt.Errorf("failed to get event price: %w", err)
	}

	if mod.EventID == constant.Empty {
		return price, failure.NotFound("event has no price configuration") // nolint:wrapcheck
	}

	price = pricingPrice{
		MemberPrice: mod.MemberPrice,
		GuestPrice:  mod.GuestPrice,
		KidPrice:    mod.KidPrice,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, price, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save event price to cache")
		}
	}()

	return price, nil
}

type pricingPrice struct {
	MemberPrice int64 `json:"member_price"`
	GuestPrice  int64 `json:"guest_price"`
	KidPrice    int64 `json:"kid_price"`
}
