package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"gatepass/config"
	"gatepass/infras/kafka"
	"gatepass/infras/otel"
	"gatepass/infras/qr"
	bookingModel "gatepass/internal/domains/booking/model"
	bookingRepository "gatepass/internal/domains/booking/repository"
	bookingService "gatepass/internal/domains/booking/service"
	"gatepass/internal/domains/checkin/model"
	"gatepass/internal/domains/checkin/model/dto"
	"gatepass/internal/domains/checkin/repository"
	"gatepass/shared"
	"gatepass/shared/cache"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/failure"
	"gatepass/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CheckIn interface {
	Scan(ctx context.Context, req dto.ScanRequest, scanner string) (dto.ScanResponse, error)
	GetRecords(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetScanRecordsResponse, error)
}

type serviceImpl struct {
	repo        repository.CheckIn
	bookingRepo bookingRepository.Booking
	qrCodec     qr.QR
	cfg         *config.Config
	cache       cache.RedisCache
	kafka       kafka.Client
	otel        otel.Otel
}

func New(
	repo repository.CheckIn,
	bookingRepo bookingRepository.Booking,
	qrCodec qr.QR,
	cfg *config.Config,
	cache cache.RedisCache,
	kafkaClient kafka.Client,
	otel otel.Otel,
) CheckIn {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		qrCodec:     qrCodec,
		cfg:         cfg,
		cache:       cache,
		kafka:       kafkaClient,
		otel:        otel,
	}
}

// Scan admits people at the gate. The token is verified, the booking's
// admissibility is checked, and the requested count is consumed atomically;
// when fewer units remain than requested, the scan admits the remainder
// rather than failing. Every successful scan appends a ledger record.
func (s *serviceImpl) Scan(ctx context.Context, req dto.ScanRequest, scanner string) (res dto.ScanResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Scan")
	defer scope.End()
	defer scope.TraceIfError(err)

	payload, err := s.qrCodec.Decode(req.QRToken)
	if err != nil {
		if errors.Is(err, qr.ErrInvalidSignature) {
			return res, failure.Unauthorized("qr token signature is invalid") //nolint:wrapcheck
		}

		return res, err
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(payload.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		return res, err
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(bookingModel.EntityName) //nolint:wrapcheck
	}

	if !booking.Admissible() {
		return res, failure.Forbidden("booking is not admissible") //nolint:wrapcheck
	}

	requested := req.RequestedAdmitCount
	if requested < 1 {
		requested = 1
	}

	record := model.ScanRecord{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		ScannedBy: scanner,
		ScannedAt: timezone.Now(),
	}

	outcome, err := s.repo.RecordScan(ctx, record, requested)
	if errors.Is(err, repository.ErrFullyRedeemed) {
		return res, failure.Conflict("booking is already fully redeemed") //nolint:wrapcheck
	}

	if err != nil {
		return res, err
	}

	record.AdmittedCount = outcome.AdmittedCount
	s.publishEvent(ctx, record)

	// The scan moved qr_scan_count, so the cached booking read is stale.
	bookingService.InvalidateCaches(ctx, s.cache, booking.ID)

	res = dto.ScanResponse{
		BookingID:      booking.ID,
		AdmittedCount:  outcome.AdmittedCount,
		RemainingScans: outcome.TotalAdmissibleCount - outcome.QRScanCount,
	}

	return res, nil
}

func (s *serviceImpl) GetRecords(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetScanRecordsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetRecords")
	defer scope.End()
	defer scope.TraceIfError(err)

	records, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		return res, err
	}

	res.FromModels(records)

	return res, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, record model.ScanRecord) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.CheckInScanned, kafka.Message{
			Key:   record.BookingID,
			Value: record,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to publish scan event")
		}
	}()
}
