package guestrequest

import (
	"context"
	"gatepass/infras/otel"
	"gatepass/internal/domains/guestrequest/model"
	"gatepass/internal/domains/guestrequest/model/dto"
	"gatepass/internal/domains/guestrequest/service"
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
	service service.GuestRequest
	otel    otel.Otel
}

func New(service service.GuestRequest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guest-requests", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetGuestRequests)
		routerGroup.Get("/{id}", handler.GetGuestRequestByID)
		routerGroup.Post("/{id}/approve", handler.ApproveGuestRequest)
		routerGroup.Post("/{id}/reject", handler.RejectGuestRequest)
	})
}

// ApproveGuestRequest resolves a pending guest request in the guest's favor.
// @Summary Approve a guest request
// @Description Approve a pending guest request. Only the sponsoring member may approve; resolution is terminal.
// @Tags GuestRequest
// @Accept json
// @Produce json
// @Param id path string true "Guest Request ID"
// @Param request body dto.ResolveRequest true "Resolve Request"
// @Success 200 {object} response.Data[dto.GuestRequestResponse] "Guest request approved"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guest-requests/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveGuestRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveGuestRequest")
	defer scope.End()

	handler.resolve(ctx, w, r, handler.service.Approve, "Guest request approved successfully")
	scope.AddEvent("Guest request approval handled")
}

// RejectGuestRequest resolves a pending guest request against the guest.
// @Summary Reject a guest request
// @Description Reject a pending guest request. Rejection permanently blocks the linked booking from admission.
// @Tags GuestRequest
// @Accept json
// @Produce json
// @Param id path string true "Guest Request ID"
// @Param request body dto.ResolveRequest true "Resolve Request"
// @Success 200 {object} response.Data[dto.GuestRequestResponse] "Guest request rejected"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guest-requests/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectGuestRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectGuestRequest")
	defer scope.End()

	handler.resolve(ctx, w, r, handler.service.Reject, "Guest request rejected successfully")
	scope.AddEvent("Guest request rejection handled")
}

type resolveFunc func(ctx context.Context, id string, req dto.ResolveRequest, user string) (dto.GuestRequestResponse, error)

func (handler *Handler) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request, fn resolveFunc, event string) {
	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ResolveRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := fn(ctx, id, req, user)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to resolve guest request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetGuestRequestByID retrieves a guest request by its ID.
// @Summary Get a guest request by ID
// @Description Retrieve a guest request by its unique identifier.
// @Tags GuestRequest
// @Accept json
// @Produce json
// @Param id path string true "Guest Request ID"
// @Success 200 {object} response.Data[dto.GuestRequestResponse] "Guest request details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guest-requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetGuestRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guest request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest request retrieved successfully")

	response.WithJSON(w, http.StatusOK, request)
}

// GetGuestRequests retrieves guest requests addressed to the authenticated member.
// @Summary Get guest requests
// @Description Retrieve the authenticated member's incoming guest requests with optional status filtering and pagination.
// @Tags GuestRequest
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending_approval, approved, rejected)"
// @Success 200 {object} response.Data[dto.GetGuestRequestsResponse] "List of guest requests"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guest-requests [get]
// @Security BearerAuth
func (handler *Handler) GetGuestRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestRequests")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldSponsoringMemberID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guest requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest requests retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, requests)
}
