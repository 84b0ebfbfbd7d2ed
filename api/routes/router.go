package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockroomhq/stockroom-backend/api/controllers"
	"github.com/stockroomhq/stockroom-backend/api/middleware"
	"github.com/stockroomhq/stockroom-backend/internal/employees"
	"github.com/stockroomhq/stockroom-backend/internal/fulfillment"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    controllers.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics

	Items       inventory.Service
	Areas       controllers.AreaDirectory
	Orders      controllers.OrderReader
	Fulfillment fulfillment.Service
	Employees   employees.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Middleware())
	}
	if deps.Redis != nil {
		r.Use(middleware.Idempotency(deps.Redis, logg))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks(deps)))
	})
	r.Get("/ping", controllers.Ping())
	if deps.HTTPMetrics != nil {
		r.Handle("/metrics", deps.HTTPMetrics.Handler())
	}

	r.Route("/items", func(r chi.Router) {
		r.Get("/", controllers.GetItem(deps.Items, logg))
		r.Post("/", controllers.ReceiveItem(deps.Items, logg))
		r.Put("/", controllers.UpdateItem(deps.Items, logg))
		r.Get("/areas", controllers.ListAreas(deps.Areas, logg))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", controllers.ListOrders(deps.Orders, logg))
		r.Post("/", controllers.CreateOrder(deps.Fulfillment, logg))
		r.Get("/by-locations", controllers.SelectOrderForAreas(deps.Fulfillment, logg))
		r.Post("/cleanup-user-progress", controllers.CleanupUserProgress(deps.Fulfillment, logg))
		r.Post("/areas/lookup", controllers.LookupAreas(deps.Areas, logg))
		r.Get("/employee-logs/{employeeID}", controllers.EmployeeLog(deps.Fulfillment, logg))

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/items", controllers.OrderLineDetail(deps.Orders, logg))
			r.Put("/items/{barcodeID}", controllers.RecordPick(deps.Fulfillment, logg))
			r.Post("/items/{barcodeID}/claim", controllers.ClaimLine(deps.Fulfillment, logg))
			r.Put("/reset", controllers.ResetOrder(deps.Fulfillment, logg))
		})
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", controllers.ListEmployees(deps.Employees, logg))
		r.Put("/{accountID}", controllers.UpdateEmployee(deps.Employees, logg))
	})

	return r
}

func readyChecks(deps Deps) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{
		"database": deps.DBPinger,
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	return checks
}
