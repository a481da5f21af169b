package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/threadline/threadline-backend/api/controllers"
	ordercontrollers "github.com/threadline/threadline-backend/api/controllers/orders"
	"github.com/threadline/threadline-backend/api/middleware"
	"github.com/threadline/threadline-backend/internal/notifications"
	"github.com/threadline/threadline-backend/internal/orders"
	"github.com/threadline/threadline-backend/internal/payments"
	"github.com/threadline/threadline-backend/pkg/config"
	"github.com/threadline/threadline-backend/pkg/db"
	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/redis"
)

// NewRouter mounts the health, metrics and authenticated ledger routes.
// optional holds readiness checks for dependencies that may be disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	optional map[string]controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	metricsHandler http.Handler,
	ordersSvc orders.Service,
	paymentsSvc payments.Service,
	notificationsSvc notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readiness := map[string]controllers.Pinger{"db": dbP}
	for name, pinger := range optional {
		if pinger != nil {
			readiness[name] = pinger
		}
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.App.IdempotencyTTL, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersSvc, logg))
			r.Post("/", ordercontrollers.Create(ordersSvc, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", ordercontrollers.Detail(ordersSvc, logg))
				r.Patch("/", ordercontrollers.UpdateDetails(ordersSvc, logg))
				r.Delete("/", ordercontrollers.Delete(ordersSvc, logg))
				r.Patch("/status", ordercontrollers.UpdateStatus(ordersSvc, logg))
				r.Get("/payments", ordercontrollers.ListPayments(paymentsSvc, logg))
				r.Post("/payments", ordercontrollers.AddPayment(paymentsSvc, logg))
			})
		})

		r.Delete("/payments/{paymentId}", ordercontrollers.DeletePayment(paymentsSvc, logg))
		r.Get("/clients/{clientId}/orders", ordercontrollers.ListByClient(ordersSvc, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsSvc, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsSvc, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsSvc, logg))
		})
	})

	return r
}
