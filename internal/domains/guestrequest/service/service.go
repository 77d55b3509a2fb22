package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"gatepass/config"
	"gatepass/infras/kafka"
	"gatepass/infras/otel"
	bookingService "gatepass/internal/domains/booking/service"
	"gatepass/internal/domains/guestrequest/model"
	"gatepass/internal/domains/guestrequest/model/dto"
	"gatepass/internal/domains/guestrequest/repository"
	"gatepass/shared"
	"gatepass/shared/cache"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/failure"
	"gatepass/shared/timezone"

	"github.com/rs/zerolog/log"
)

type GuestRequest interface {
	Approve(ctx context.Context, id string, req dto.ResolveRequest, user string) (dto.GuestRequestResponse, error)
	Reject(ctx context.Context, id string, req dto.ResolveRequest, user string) (dto.GuestRequestResponse, error)
	Get(ctx context.Context, id string) (dto.GuestRequestResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetGuestRequestsResponse, error)
}

type serviceImpl struct {
	repo    repository.GuestRequest
	booking bookingService.Booking
	cfg     *config.Config
	cache   cache.RedisCache
	kafka   kafka.Client
	otel    otel.Otel
}

func New(
	repo repository.GuestRequest,
	booking bookingService.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	kafkaClient kafka.Client,
	otel otel.Otel,
) GuestRequest {
	return &serviceImpl{
		repo:    repo,
		booking: booking,
		cfg:     cfg,
		cache:   cache,
		kafka:   kafkaClient,
		otel:    otel,
	}
}

// Approve resolves a pending request in the guest's favor. Only the
// sponsoring member may resolve it; a request that already reached a terminal
// state stays as it is. When the linked booking is already paid, approval
// makes it admissible and its QR token is issued.
func (s *serviceImpl) Approve(ctx context.Context, id string, req dto.ResolveRequest, user string) (res dto.GuestRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.resolve(ctx, id, model.StatusApproved, req.Reason, user)
	if err != nil {
		return res, err
	}

	if err = s.booking.EnsureQRIssued(ctx, request.BookingID); err != nil {
		return res, err
	}

	s.publishEvent(ctx, request)

	res.FromModel(request)

	return res, nil
}

// Reject resolves a pending request against the guest. Rejection is terminal
// and permanently blocks the linked booking from becoming admissible.
func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.ResolveRequest, user string) (res dto.GuestRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.resolve(ctx, id, model.StatusRejected, req.Reason, user)
	if err != nil {
		return res, err
	}

	s.publishEvent(ctx, request)

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) resolve(ctx context.Context, id, status, reason, user string) (model.GuestRequest, error) {
	request, err := s.request(ctx, id)
	if err != nil {
		return request, err
	}

	if request.SponsoringMemberID != user {
		return request, failure.Forbidden("only the sponsoring member can resolve this request") //nolint:wrapcheck
	}

	if request.Terminal() {
		return request, failure.Conflict("guest request has already been resolved") //nolint:wrapcheck
	}

	now := timezone.Now()

	resolved, err := s.repo.Resolve(ctx, request.ID, request.BookingID, status, user, reason, now)
	if err != nil {
		return request, err
	}

	if !resolved {
		// Lost the race with a concurrent resolution.
		return request, failure.Conflict("guest request has already been resolved") //nolint:wrapcheck
	}

	// Resolution wrote approval_status on the linked bookings row.
	bookingService.InvalidateCaches(ctx, s.cache, request.BookingID)

	request.Status = status
	request.ResolvedBy = user
	request.ResolutionReason = reason
	request.ModifiedAt = now
	request.ModifiedBy = user

	return request, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.GuestRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.request(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetGuestRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	requests, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	res.FromModels(requests, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) request(ctx context.Context, id string) (model.GuestRequest, error) {
	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return request, err
	}

	if request.ID == constant.Empty {
		return request, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return request, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, request model.GuestRequest) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.GuestRequestResolved, kafka.Message{
			Key:   request.BookingID,
			Value: request,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to publish guest request event")
		}
	}()
}
