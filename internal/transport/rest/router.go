package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/expensepro/internal/auth"
	"github.com/frahmantamala/expensepro/internal/category"
	"github.com/frahmantamala/expensepro/internal/expense"
	"github.com/frahmantamala/expensepro/internal/transport/middleware"
	"github.com/frahmantamala/expensepro/internal/transport/swagger"
	"github.com/frahmantamala/expensepro/internal/user"
)

// RouterDeps carries everything the route table needs wired in.
type RouterDeps struct {
	DB              *sql.DB
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	ExpenseHandler  *expense.Handler
	CategoryHandler *category.Handler
	OpenAPIPath     string
	Logger          *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))

	// Serve OpenAPI spec at root (outside API prefix)
	openAPIPath := deps.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if deps.AuthHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", deps.AuthHandler.Login)
				sr.Post("/refresh", deps.AuthHandler.RefreshToken)
				sr.Post("/logout", deps.AuthHandler.Logout)
			})
		}

		// Public categories route (no auth required)
		if deps.CategoryHandler != nil {
			r.Get("/categories", deps.CategoryHandler.GetCategories)
		}

		if deps.AuthHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(deps.AuthHandler.AuthMiddleware)

				if deps.UserHandler != nil {
					pr.Get("/users/me", deps.UserHandler.GetCurrentUser)

					// Directory listing is admin-only
					pr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin())
						ar.Get("/users", deps.UserHandler.ListUsers)
					})
				}

				if deps.ExpenseHandler != nil {
					// The dashboard is the single read model: the viewer's
					// own submissions plus whatever the role policy lets
					// them see.
					pr.Get("/dashboard", deps.ExpenseHandler.Dashboard)

					pr.Route("/expenses", func(er chi.Router) {
						er.Post("/", deps.ExpenseHandler.SubmitExpense)
						er.Get("/", deps.ExpenseHandler.ListOwnExpenses)
						er.Get("/{id}", deps.ExpenseHandler.GetExpense)

						// Approval routes: the service enforces the role
						// hierarchy per expense; the middleware only keeps
						// plain employees out.
						er.Group(func(mr chi.Router) {
							mr.Use(deps.ExpenseHandler.RequireApprover())
							mr.Patch("/{id}/approve", deps.ExpenseHandler.ApproveExpense)
							mr.Patch("/{id}/reject", deps.ExpenseHandler.RejectExpense)
						})
					})
				}
			})
		}
	})
}
