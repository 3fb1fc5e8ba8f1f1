package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/dinein/internal/config"
	"github.com/kiwari-pos/dinein/internal/handler"
	"github.com/kiwari-pos/dinein/internal/metrics"
	mw "github.com/kiwari-pos/dinein/internal/middleware"
	"github.com/kiwari-pos/dinein/internal/ws"
	"go.uber.org/zap"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Auth     handler.AuthStore
	Orders   handler.OrderServicer
	Reassign handler.TableChanger
	Floor    handler.FloorServicer
	Active   handler.ActiveOrderLister
	History  handler.TableChangeLister
	Hub      *ws.Hub
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// New creates a Chi router with all application routes wired up.
// Applies authentication, restaurant scoping, and role-based middleware as needed.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Event-Source"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method("GET", "/metrics", d.Metrics.Handler())

	handler.NewAuthHandler(d.Auth, cfg.JWTSecret, d.Logger).RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/restaurants/{rid}/floor", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, cfg.JWTSecret, w, r)
	})

	// Restaurant-scoped routes
	r.Route("/restaurants/{rid}", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRestaurant)

		orderHandler := handler.NewOrderHandler(d.Orders, d.Reassign, d.Active, d.Logger)
		r.Route("/orders", orderHandler.RegisterRoutes)

		handler.NewFloorHandler(d.Floor, d.Logger).RegisterRoutes(r)
		handler.NewHistoryHandler(d.History, d.Logger).RegisterRoutes(r)
	})

	d.Logger.Info("router initialized")
	return r
}
