package api

import (
	"net/http"
	"time"

	"stonefire/internal/auth"
	"stonefire/internal/db"
	"stonefire/internal/model"
	"stonefire/internal/pubsub"
	"stonefire/internal/service"
	"stonefire/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Dependencies struct {
	DB          *db.Pool
	Bus         *pubsub.Bus
	Hub         *ws.Hub
	Log         *zap.Logger
	JWT         *auth.JWTConfig
	Schemas     *service.SchemaService
	Submissions *service.SubmissionService
	Locations   *service.LocationService
	Users       *service.UserService
}

func Routes(d Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// WebSocket upgrades must not be wrapped by the timeout middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Upgrade") == "websocket" {
				next.ServeHTTP(w, req)
				return
			}
			middleware.Timeout(30 * time.Second)(next).ServeHTTP(w, req)
		})
	})
	r.Use(RequestLogger(d.Log))
	r.Use(d.JWT.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1", func(r chi.Router) {
		// Public site endpoints
		r.Get("/locations", d.listPublicLocations)
		r.Get("/forms/{form}", d.getForm)
		r.Post("/forms/{form}/render", d.renderForm)
		r.Post("/forms/{form}/submissions", d.createSubmission)

		r.Post("/auth/login", d.login)

		// Admin endpoints; role checks that depend on the {form} URL param
		// happen inside the handlers.
		r.Route("/admin", func(r chi.Router) {
			r.Get("/ws", d.wsHandler)

			r.Get("/forms/{form}/schema", d.getSchema)
			r.Put("/forms/{form}/schema", d.putSchema)
			r.Post("/forms/{form}/schema/reset", d.resetSchema)
			r.Post("/forms/{form}/schema/reorder", d.reorderSchema)

			r.Get("/forms/{form}/submissions", d.listSubmissions)
			r.Get("/submissions/{id}", d.getSubmission)
			r.Post("/submissions/{id}/status", d.updateSubmissionStatus)
			r.Delete("/submissions/{id}", d.deleteSubmission)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.ResourceUsers))
				r.Get("/users", d.listUsers)
				r.Post("/users", d.createUser)
				r.Patch("/users/{id}/role", d.updateUserRole)

				r.Get("/locations", d.listLocations)
				r.Post("/locations", d.createLocation)
				r.Patch("/locations/{id}", d.updateLocation)
				r.Delete("/locations/{id}", d.deleteLocation)
			})
		})
	})

	return r
}

// formParam resolves the {form} URL parameter to a known form name
func formParam(r *http.Request) (model.FormName, bool) {
	switch name := model.FormName(chi.URLParam(r, "form")); name {
	case model.FormJobApplication, model.FormCateringRequest:
		return name, true
	default:
		return "", false
	}
}

func resourceFor(form model.FormName) model.Resource {
	if form == model.FormJobApplication {
		return model.ResourceJobs
	}
	return model.ResourceCatering
}

// requireFormAccess enforces the per-form role gate for handlers whose
// resource depends on the {form} URL parameter.
func (d Dependencies) requireFormAccess(w http.ResponseWriter, r *http.Request, form model.FormName) bool {
	role, ok := auth.GetRole(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", d.Log)
		return false
	}
	if !role.HasAccess(resourceFor(form)) {
		WriteError(w, http.StatusForbidden, "forbidden", "Insufficient role", d.Log)
		return false
	}
	return true
}
