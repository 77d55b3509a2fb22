package booking

import (
	"gatepass/infras/otel"
	"gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/booking/model/dto"
	"gatepass/internal/domains/booking/service"
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
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mybookings", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/confirm-payment", handler.ConfirmPayment)
		routerGroup.Post("/{id}/fail-payment", handler.FailPayment)
		routerGroup.Post("/{id}/retry-payment", handler.RetryPayment)
	})
}

// CreateBooking composes, prices, and persists a new booking.
// @Summary Create a new booking
// @Description Create a booking for an event with a ticket allocation, and optionally a discount code or a guest referral.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.CreateBookingResponse] "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// ConfirmPayment marks a pending booking payment as completed.
// @Summary Confirm a booking payment
// @Description Mark a pending payment completed with its external payment reference. Idempotent for the same reference.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ConfirmPaymentRequest true "Confirm Payment Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Payment confirmed"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/confirm-payment [post]
// @Security BearerAuth
func (handler *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.ConfirmPaymentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ConfirmPayment(ctx, id, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment confirmed successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// FailPayment marks a pending booking payment as failed.
// @Summary Fail a booking payment
// @Description Mark a pending payment failed with an optional reason. The booking can still retry.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.FailPaymentRequest true "Fail Payment Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Payment marked failed"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/fail-payment [post]
// @Security BearerAuth
func (handler *Handler) FailPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".FailPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.FailPaymentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.FailPayment(ctx, id, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to fail payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment marked failed by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// RetryPayment returns a failed booking payment to pending.
// @Summary Retry a booking payment
// @Description Return a failed payment to pending so the member can attempt payment again.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Payment returned to pending"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/retry-payment [post]
// @Security BearerAuth
func (handler *Handler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RetryPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	res, err := handler.service.RetryPayment(ctx, id, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to retry payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment returned to pending by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookings retrieves bookings for reporting and export.
// @Summary Get all bookings
// @Description Retrieve bookings with optional filtering and pagination. This is the reporting projection used by exports.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param event_id query string false "Filter by event ID"
// @Param member_id query string false "Filter by member ID"
// @Param payment_status query string false "Filter by payment status (pending, completed, failed)"
// @Param approval_status query string false "Filter by approval status"
// @Param created_from query string false "Filter by creation time lower bound (RFC3339)"
// @Param created_until query string false "Filter by creation time upper bound (RFC3339)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.listingFilter(r)

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings retrieves the authenticated member's bookings.
// @Summary Get my bookings
// @Description Retrieve the authenticated member's bookings with optional filtering and pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param event_id query string false "Filter by event ID"
// @Param payment_status query string false "Filter by payment status (pending, completed, failed)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of the member's bookings"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.listingFilter(r)
	filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
		Field:    model.FieldMemberID,
		Operator: gDto.FilterOperatorEq,
		Value:    userID,
		Table:    model.TableName,
	})

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User bookings retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Retrieve a booking by its unique identifier, including its QR token once issued.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

func (handler *Handler) listingFilter(r *http.Request) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	equalities := []string{
		model.FieldEventID,
		model.FieldMemberID,
		model.FieldPaymentStatus,
		model.FieldApprovalStatus,
	}

	for _, field := range equalities {
		value := r.URL.Query().Get(field)
		if value == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	if from := r.URL.Query().Get(constant.RequestParamCreatedFrom); from != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  constant.RequestParamCreatedFrom,
			Field:    model.FieldCreatedAt,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    from,
			Table:    model.TableName,
		})
	}

	if until := r.URL.Query().Get(constant.RequestParamCreatedUntil); until != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  constant.RequestParamCreatedUntil,
			Field:    model.FieldCreatedAt,
			Operator: gDto.FilterOperatorLessEq,
			Value:    until,
			Table:    model.TableName,
		})
	}

	return filterGroup
}
