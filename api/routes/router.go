package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avaldez-dev/tillpoint/api/controllers"
	"github.com/avaldez-dev/tillpoint/api/middleware"
	"github.com/avaldez-dev/tillpoint/internal/catalog"
	"github.com/avaldez-dev/tillpoint/internal/held"
	"github.com/avaldez-dev/tillpoint/internal/register"
	"github.com/avaldez-dev/tillpoint/internal/settlement"
	"github.com/avaldez-dev/tillpoint/pkg/config"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	pkgredis "github.com/avaldez-dev/tillpoint/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Idem      pkgredis.IdempotencyStore
	Registers *register.Store
	Catalog   catalog.Repository
	Engine    settlement.Engine
	Held      held.Service
	Probes    map[string]controllers.Pinger
	Metrics   http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Probes))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/registers/{registerID}", func(r chi.Router) {
			r.Use(middleware.RegisterContext())
			if deps.Idem != nil {
				r.Use(middleware.Idempotency(deps.Idem, logg))
			}

			r.Route("/cart", func(r chi.Router) {
				r.Post("/", controllers.OpenCart(deps.Registers, logg))
				r.Get("/", controllers.GetCart(deps.Registers, logg))
				r.Put("/tax", controllers.SetCartTax(deps.Registers, logg))
				r.Put("/customer", controllers.SetCartCustomer(deps.Registers, logg))
				r.Route("/lines", func(r chi.Router) {
					r.Post("/", controllers.AddCartLine(deps.Registers, deps.Catalog, logg))
					r.Patch("/{productID}", controllers.SetCartLineQuantity(deps.Registers, deps.Catalog, logg))
					r.Delete("/{productID}", controllers.RemoveCartLine(deps.Registers, logg))
				})
			})

			r.Post("/checkout", controllers.Checkout(deps.Registers, deps.Engine, logg))
			r.Post("/settle", controllers.Settle(deps.Registers, deps.Engine, logg))
			r.Post("/cancel", controllers.CancelCart(deps.Registers, deps.Engine, logg))
			r.Post("/hold", controllers.HoldCart(deps.Registers, deps.Engine, logg))
			r.Post("/resume", controllers.ResumeCart(deps.Registers, deps.Engine, logg))
		})

		r.Get("/held", controllers.ListHeld(deps.Held, logg))

		r.Route("/settlements", func(r chi.Router) {
			r.Get("/", controllers.ListSettlements(deps.Engine, logg))
			r.Get("/invoice/{invoiceNumber}", controllers.GetSettlementByInvoice(deps.Engine, logg))
			r.Get("/{settlementID}", controllers.GetSettlement(deps.Engine, logg))
		})
	})

	return r
}
