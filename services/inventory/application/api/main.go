package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shelfaware/pkg/app"
	"github.com/ghuser/shelfaware/pkg/auth"
	"github.com/ghuser/shelfaware/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
)

// InventoryRoutes registers inventory endpoints on the provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a)
}

// Mount registers the endpoints on explicit services. Reads are public;
// writes require a session when the config asks for it.
func Mount(r chi.Router, svcs *appsvcs.Services, a *app.Application) {
	prod := a.IsProduction()
	items := handlers.NewItemHandler(svcs, prod)
	events := handlers.NewEventHandler(svcs, prod)
	scans := handlers.NewScanHandler(svcs, prod)
	presence := handlers.NewPresenceHandler(svcs, prod)
	tags := handlers.NewTagHandler(svcs, prod)
	images := handlers.NewImageHandler(svcs, prod)
	types := handlers.NewItemTypeHandler(svcs, prod)
	session := handlers.NewSessionHandler()

	write := func(h http.HandlerFunc) http.Handler { return h }
	if a.Config != nil && a.Config.AuthRequired && a.SessionStore != nil {
		requireAuth := auth.RequireAuth(a.SessionStore, a.Logger)
		write = func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
	}

	r.Route("/items", func(r chi.Router) {
		r.Get("/", items.List)
		r.Method(http.MethodPost, "/", write(items.Create))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", items.Get)
			r.Method(http.MethodPatch, "/", write(items.Update))
			r.Method(http.MethodDelete, "/", write(items.Delete))
			r.Get("/events", items.Events)
			r.Get("/state", items.State)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", events.Feed)
		r.Method(http.MethodPost, "/", write(events.Record))
	})
	r.Method(http.MethodPost, "/scans", write(scans.Ingest))
	r.Get("/presence", presence.At)

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", tags.List)
		r.Method(http.MethodPost, "/", write(tags.Create))
		r.Method(http.MethodPut, "/attachment", write(tags.SetItem))
		r.Get("/{id}", tags.Get)
	})

	r.Route("/images", func(r chi.Router) {
		r.Method(http.MethodPost, "/", write(images.Create))
		r.Get("/{id}/history", images.History)
		r.Method(http.MethodPost, "/{id}/replace", write(images.Replace))
	})

	r.Method(http.MethodGet, "/session", write(session.Whoami))

	r.Route("/item-types", func(r chi.Router) {
		r.Get("/", types.List)
		r.Method(http.MethodPost, "/", write(types.Create))
		r.Get("/tree", types.Tree)
		r.Method(http.MethodPatch, "/{id}", write(types.Update))
	})
}
