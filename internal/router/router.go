// Package router builds the echo instance: global middleware in order,
// system routes, and the business route groups.
package router

import (
	"net/http"

	"github.com/deppfellow/income-api/internal/handler"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/deppfellow/income-api/internal/service"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, services.Auth)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: tracing must exist before the context enhancer reads
	// trace ids, and metrics wrap everything that can return an error.
	router.Use(
		middlewares.Metrics.Collect(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h, middlewares)

	api := router.Group("")
	registerAuthRoutes(api, h, middlewares)
	registerIncomeCategoryRoutes(api, h, middlewares)
	registerIncomeRoutes(api, h, middlewares)
	registerCurrencyRoutes(api, h, middlewares)

	return router
}

func registerAuthRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	auth := r.Group("/auth", m.RateLimit.Limit())

	auth.POST("/register", handler.Handle(h.Auth.Handler, h.Auth.Register, handler.Payload[model.RegisterPayload]))
	auth.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, handler.Payload[model.LoginPayload]))
	auth.GET("/verify-email", handler.Handle(h.Auth.Handler, h.Auth.VerifyEmail, handler.Payload[model.VerifyEmailPayload]))
	auth.POST("/password/forgot", handler.Handle(h.Auth.Handler, h.Auth.ForgotPassword, handler.Payload[model.ForgotPasswordPayload]))
	auth.POST("/password/reset", handler.Handle(h.Auth.Handler, h.Auth.ResetPassword, handler.Payload[model.ResetPasswordPayload]))

	auth.POST("/logout", handler.Handle(h.Auth.Handler, h.Auth.Logout, handler.Payload[model.LogoutPayload]), m.Auth.RequireAuth)
	auth.POST("/email/resend", handler.Handle(h.Auth.Handler, h.Auth.ResendEmail, handler.Payload[model.ResendEmailPayload]), m.Auth.RequireAuth)
}

// registerIncomeCategoryRoutes mounts the category endpoints. PATCH is
// routed to the form on purpose so it answers 405 from the handler.
func registerIncomeCategoryRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	categories := r.Group("/income-categories", m.Auth.RequireAuth)

	form := handler.Handle(h.IncomeCategory.Handler, h.IncomeCategory.Form, handler.Payload[model.IncomeCategoryFormPayload])

	categories.GET("", handler.Handle(h.IncomeCategory.Handler, h.IncomeCategory.Index, handler.Payload[model.GetIncomeCategoriesPayload]))
	categories.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, "", form)
	categories.DELETE("", handler.Handle(h.IncomeCategory.Handler, h.IncomeCategory.Delete, handler.Payload[model.DeleteIncomeCategoryPayload]))
}

func registerIncomeRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	incomes := r.Group("/incomes", m.Auth.RequireAuth)

	incomes.GET("", handler.Handle(h.Income.Handler, h.Income.Index, handler.Payload[model.GetIncomesPayload]))
	incomes.POST("", handler.Handle(h.Income.Handler, h.Income.Form, handler.Payload[model.IncomeFormPayload]))
	incomes.GET("/export", handler.HandleFile(
		h.Income.Handler,
		h.Income.Export,
		http.StatusOK,
		handler.Payload[model.ExportIncomesPayload],
		"incomes.csv",
		"text/csv",
	))
}

func registerCurrencyRoutes(r *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/currencies", handler.Handle(h.Currency.Handler, h.Currency.List, handler.Payload[handler.ListCurrenciesPayload]), m.Auth.RequireAuth)
}
