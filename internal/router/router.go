package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pedidos/orders-api/internal/handlers"
	"github.com/pedidos/orders-api/internal/middleware"
)

// Deps are the handlers and settings the router is assembled from.
type Deps struct {
	Orders         *handlers.OrderHandler
	Health         http.Handler
	AllowedOrigins []string
	Logger         *zap.Logger
}

// New builds the HTTP router with middleware and all order routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	notFound := handlers.NotFound(d.Logger)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Method(http.MethodGet, "/health", d.Health)

	r.Route("/order", func(r chi.Router) {
		r.Post("/", d.Orders.CreateOrder)
		// static segment wins over the {orderId} pattern
		r.Get("/list", d.Orders.ListOrders)
		r.Get("/{orderId}", d.Orders.GetOrder)
		r.Put("/{orderId}", d.Orders.UpdateOrder)
		r.Delete("/{orderId}", d.Orders.DeleteOrder)
	})

	return r
}
