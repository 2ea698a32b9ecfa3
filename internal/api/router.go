package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propdata/property-api/internal/api/handler"
	"github.com/propdata/property-api/internal/api/middleware"
	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
	"github.com/propdata/property-api/internal/core/service"
	"github.com/propdata/property-api/internal/ratelimit"
)

// Dependencies carries everything the router needs, behind interfaces so
// tests can swap in stubs without Mongo or Redis running.
type Dependencies struct {
	Users      ports.UserRepository
	Properties ports.PropertyRepository
	Cache      ports.ResultCache // nil disables result caching
	Tokens     ports.TokenService
	Limiter    *ratelimit.Limiter
	Queue      handler.Enqueuer

	// Mongo and Redis are only consulted by the readiness probe; either may
	// be nil.
	Mongo *mongo.Database
	Redis *redis.Client

	// SearchRatePolicy overrides the default "30/minute" on /api/search.
	SearchRatePolicy string

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with the full request pipeline:
// rate limit → bearer auth (protected routes) → RBAC → handler, with the
// security headers stamped on every response. Misdeclared routes and
// malformed rate policies fail here, at startup.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.SecureHeaders())

	// Request metrics live in a registry owned by this router, so building
	// a second router (tests) cannot collide with the default registry.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "property_api",
		Registerer: reg,
	}))

	// --- Services and handlers ---
	authService := service.NewAuthService(deps.Users, deps.Tokens)
	authHandler := handler.NewAuthHandler(authService)
	searchService := service.NewSearchService(deps.Properties, deps.Cache, deps.Log)
	searchHandler := handler.NewSearchHandler(searchService)
	ingestHandler := handler.NewIngestHandler(deps.Queue)
	profileHandler := handler.NewProfileHandler()

	searchPolicy := deps.SearchRatePolicy
	if searchPolicy == "" {
		searchPolicy = "30/minute"
	}

	// --- Route registry ---
	searchRoute, err := domain.NewProtectedRoute("POST /api/search", searchPolicy,
		domain.RoleAdmin, domain.RoleManager, domain.RoleAgent)
	if err != nil {
		return nil, err
	}
	profileRoute, err := domain.NewProtectedRoute("GET /api/profile", "60/minute", domain.RoleUser)
	if err != nil {
		return nil, err
	}
	roleRoute, err := domain.NewProtectedRoute("PUT /admin/update-role", "5/minute", domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	dataLoadRoute, err := domain.NewProtectedRoute("POST /api/data-load", "10/minute", domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	routes := []struct {
		method      string
		path        string
		handler     echo.HandlerFunc
		requirement domain.RouteRequirement
	}{
		{"POST", "/login", authHandler.Login, domain.NewPublicRoute("POST /login", "5/minute")},
		{"POST", "/registration", authHandler.Register, domain.NewPublicRoute("POST /registration", "5/minute")},
		{"PUT", "/admin/update-role", authHandler.UpdateRole, roleRoute},
		{"POST", "/api/search", searchHandler.Search, searchRoute},
		{"GET", "/api/profile", profileHandler.Profile, profileRoute},
		{"POST", "/api/data-load", ingestHandler.DataLoad, dataLoadRoute},
	}

	for _, r := range routes {
		policy, err := ratelimit.ParsePolicy(r.requirement.RatePolicy)
		if err != nil {
			return nil, err
		}

		mws := []echo.MiddlewareFunc{middleware.RateLimit(deps.Limiter, r.requirement, policy)}
		if r.requirement.Protected() {
			mws = append(mws, middleware.Auth(deps.Tokens), middleware.RBAC(r.requirement))
		}

		e.Add(r.method, r.path, r.handler, mws...)
	}

	// --- Health probes and metrics (public, unthrottled) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	return e, nil
}
