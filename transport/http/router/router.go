package router

import (
	"hostel/internal/handlers/activity"
	"hostel/internal/handlers/desk"
	"hostel/internal/handlers/reference"
	"hostel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Desk      desk.Handler
	Reference reference.Handler
	Activity  activity.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Desk.Router(routerGroup)
		r.DomainHandlers.Reference.Router(routerGroup)
		r.DomainHandlers.Activity.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
