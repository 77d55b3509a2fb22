package router

import (
	"gatepass/internal/handlers/booking"
	"gatepass/internal/handlers/checkin"
	"gatepass/internal/handlers/guestrequest"
	"gatepass/internal/handlers/health"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health       health.Handler
	Booking      booking.Handler
	CheckIn      checkin.Handler
	GuestRequest guestrequest.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.CheckIn.Router(routerGroup)
		r.DomainHandlers.GuestRequest.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
