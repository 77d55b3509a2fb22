package checkin

import (
	"gatepass/infras/otel"
	"gatepass/internal/domains/checkin/model"
	"gatepass/internal/domains/checkin/model/dto"
	"gatepass/internal/domains/checkin/service"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/failure"
	"gatepass/shared/validator"
	"gatepass/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.CheckIn
	otel    otel.Otel
}

func New(service service.CheckIn, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/checkins", func(routerGroup chi.Router) {
		routerGroup.Post("/scan", handler.Scan)
		routerGroup.Get("/records", handler.GetRecords)
	})
}

// Scan verifies a QR token and admits people at the gate.
// @Summary Scan a QR token
// @Description Verify a booking's QR token and consume up to the requested admit count. Admits the remainder when fewer units remain.
// @Tags CheckIn
// @Accept json
// @Produce json
// @Param request body dto.ScanRequest true "Scan Request"
// @Success 200 {object} response.Data[dto.ScanResponse] "Scan recorded"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins/scan [post]
// @Security BearerAuth
func (handler *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Scan")
	defer scope.End()

	scanner, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || scanner == "" {
		log.Error().Msg("failed to get scanner ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.ScanRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Scan(ctx, req, scanner)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record scan")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Scan recorded successfully by scanner " + scanner)

	response.WithJSON(w, http.StatusOK, res)
}

// GetRecords retrieves scan records for auditing.
// @Summary Get scan records
// @Description Retrieve the append-only scan ledger, optionally filtered by booking.
// @Tags CheckIn
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param booking_id query string false "Filter by booking ID"
// @Success 200 {object} response.Data[dto.GetScanRecordsResponse] "List of scan records"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins/records [get]
// @Security BearerAuth
func (handler *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRecords")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if bookingID := r.URL.Query().Get(model.FieldBookingID); bookingID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldBookingID,
			Operator: gDto.FilterOperatorEq,
			Value:    bookingID,
			Table:    model.TableName,
		})
	}

	records, err := handler.service.GetRecords(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get scan records")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Scan records retrieved successfully")

	response.WithJSON(w, http.StatusOK, records)
}
