package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"gatepass/config"
	"gatepass/infras/kafka"
	"gatepass/infras/otel"
	"gatepass/infras/qr"
	"gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/booking/model/dto"
	"gatepass/internal/domains/booking/repository"
	grDto "gatepass/internal/domains/guestrequest/model/dto"
	grRepository "gatepass/internal/domains/guestrequest/repository"
	pricingService "gatepass/internal/domains/pricing/service"
	"gatepass/shared"
	"gatepass/shared/cache"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/failure"
	"gatepass/shared/logger"
	"gatepass/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking   = "booking:get"
	cacheGetBookings  = "booking:gets"
	cacheCountBooking = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, user string) (dto.CreateBookingResponse, error)
	ConfirmPayment(ctx context.Context, id string, req dto.ConfirmPaymentRequest, user string) (dto.BookingResponse, error)
	FailPayment(ctx context.Context, id string, req dto.FailPaymentRequest, user string) (dto.BookingResponse, error)
	RetryPayment(ctx context.Context, id, user string) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	EnsureQRIssued(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Booking
	grRepo  grRepository.GuestRequest
	pricing pricingService.Pricing
	qrCodec qr.QR
	cfg     *config.Config
	cache   cache.RedisCache
	kafka   kafka.Client
	otel    otel.Otel
}

func New(
	repo repository.Booking,
	grRepo grRepository.GuestRequest,
	pricing pricingService.Pricing,
	qrCodec qr.QR,
	cfg *config.Config,
	cache cache.RedisCache,
	kafkaClient kafka.Client,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:    repo,
		grRepo:  grRepo,
		pricing: pricing,
		qrCodec: qrCodec,
		cfg:     cfg,
		cache:   cache,
		kafka:   kafkaClient,
		otel:    otel,
	}
}

// Create composes the ticket allocation, prices it, and persists the booking
// in payment_status pending. A guest-referral booking also gets its pending
// guest request row, written in the same transaction so neither can exist
// without the other.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, user string) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	allocation, err := model.Compose(req.TicketAllocation)
	if err != nil {
		return res, err
	}

	quote, err := s.pricing.Price(ctx, req.EventID, allocation, req.DiscountCode)
	if err != nil {
		return res, err
	}

	if quote.DiscountIgnored {
		req.DiscountCode = constant.Empty
	}

	booking := req.ToModel(user, allocation, quote.GrossAmount, quote.FinalAmount)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return res, err
	}

	committed := false

	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
		return res, err
	}

	if req.ApprovalRequired {
		request := grDto.NewGuestRequest(booking.ID, req.SponsoringMemberID, req.GuestName, req.GuestPhone, user, allocation.TotalAdmissible())

		if err = s.grRepo.InsertTx(ctx, tx, request); err != nil {
			return res, err
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to commit booking (%s): %w", model.EntityName, err)
	}

	committed = true

	s.invalidateListings(ctx)

	res = dto.CreateBookingResponse{
		BookingID:        booking.ID,
		GrossAmount:      quote.GrossAmount,
		FinalAmount:      quote.FinalAmount,
		DiscountApplied:  quote.DiscountApplied,
		DiscountIgnored:  quote.DiscountIgnored,
		PaymentRequired:  quote.FinalAmount > 0,
		ApprovalStatus:   booking.ApprovalStatus,
		ApprovalRequired: req.ApprovalRequired,
	}

	return res, nil
}

// ConfirmPayment completes a pending payment. Confirming twice with the same
// payment reference is a no-op; confirming from any other state is a conflict.
// A rejected guest-referral booking can never be confirmed.
func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string, req dto.ConfirmPaymentRequest, user string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	confirmed, err := s.repo.ConfirmPayment(ctx, id, req.PaymentRef, timezone.Now())
	if err != nil {
		return res, err
	}

	booking, err := s.booking(ctx, id)
	if err != nil {
		return res, err
	}

	if !confirmed {
		if booking.PaymentStatus != model.PaymentStatusCompleted || booking.PaymentRef != req.PaymentRef {
			return res, failure.Conflict("payment cannot be confirmed from its current state") //nolint:wrapcheck
		}

		// Same reference landed earlier; treat the retry as a success. The
		// retry also repairs a token issuance that failed after the original
		// confirmation, so an admissible booking never stays without a QR.
		if booking.Admissible() && booking.QRCode == constant.Empty {
			if booking, err = s.ensureQRIssued(ctx, booking); err != nil {
				return res, err
			}

			s.invalidate(ctx, id)
		}

		res.FromModel(booking)

		return res, nil
	}

	if booking.Admissible() {
		if booking, err = s.ensureQRIssued(ctx, booking); err != nil {
			return res, err
		}
	}

	s.publishEvent(ctx, s.cfg.Kafka.Topic.BookingConfirmed, booking)
	s.invalidate(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// FailPayment moves a pending payment to failed with the operator's reason.
func (s *serviceImpl) FailPayment(ctx context.Context, id string, req dto.FailPaymentRequest, user string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FailPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	failed, err := s.repo.FailPayment(ctx, id, req.Reason, timezone.Now())
	if err != nil {
		return res, err
	}

	booking, err := s.booking(ctx, id)
	if err != nil {
		return res, err
	}

	if !failed {
		return res, failure.Conflict("payment cannot be failed from its current state") //nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// RetryPayment returns a failed payment to pending and clears the failure
// reason, so the member can attempt payment again.
func (s *serviceImpl) RetryPayment(ctx context.Context, id, user string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RetryPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	retried, err := s.repo.RetryPayment(ctx, id, timezone.Now())
	if err != nil {
		return res, err
	}

	booking, err := s.booking(ctx, id)
	if err != nil {
		return res, err
	}

	if !retried {
		return res, failure.Conflict("payment can only be retried after a failure") //nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	booking, err := s.booking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// GetAll is the reporting listing behind the export surface. Filters are
// assembled by the handler; results are cached per filter and page.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetBookings, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// EnsureQRIssued issues the booking's QR token if the booking is admissible
// and no token has been assigned yet. Safe to call repeatedly; the token is
// written at most once and never changes afterwards.
func (s *serviceImpl) EnsureQRIssued(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureQRIssued")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.booking(ctx, id)
	if err != nil {
		return err
	}

	if _, err = s.ensureQRIssued(ctx, booking); err != nil {
		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) ensureQRIssued(ctx context.Context, booking model.Booking) (model.Booking, error) {
	if !booking.Admissible() || booking.QRCode != constant.Empty {
		return booking, nil
	}

	token, err := s.qrCodec.Issue(booking.ID, booking.TotalAdmissibleCount)
	if err != nil {
		logger.ErrorWithStack(err)

		return booking, fmt.Errorf("failed to issue qr token (%s): %w", model.EntityName, err)
	}

	assigned, err := s.repo.AssignQRCode(ctx, booking.ID, token, timezone.Now())
	if err != nil {
		return booking, err
	}

	if !assigned {
		// A concurrent writer assigned first; re-read so callers see the
		// stable token.
		return s.booking(ctx, booking.ID)
	}

	booking.QRCode = token

	return booking, nil
}

func (s *serviceImpl) booking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return booking, err
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, topic string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, topic, kafka.Message{
			Key:   booking.ID,
			Value: booking,
		})
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to publish booking event")
		}
	}()
}

// InvalidateCaches drops the cached single-booking read and the listing
// caches for one booking. Any domain that mutates a bookings row follows its
// write with this, so reads never serve stale state for the cache TTL.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := redisCache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, redisCache, cacheGetBookings)
		shared.InvalidateCaches(c, redisCache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	InvalidateCaches(ctx, s.cache, id)
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetBookings)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
