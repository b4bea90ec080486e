package router

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medbook_backend/config"
	"github.com/Alijeyrad/medbook_backend/internal/api/http/handler"
	"github.com/Alijeyrad/medbook_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/internal/service/appointment"
	"github.com/Alijeyrad/medbook_backend/internal/service/auth"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Store          repo.Store
	AppointmentSvc appointment.Service
	AuthSvc        auth.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.AuthSvc, r.p.Cfg.Server.Cookie.Name)

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc, handler.CookieSettings{
		Name:   r.p.Cfg.Server.Cookie.Name,
		Domain: r.p.Cfg.Server.Cookie.Domain,
		Secure: strings.EqualFold(r.p.Cfg.Server.Environment, "production"),
	})
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerAppointmentRoutes(api, appointmentH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("API is running...")
	})

	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			return r.p.Store.Ping(ctx) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
