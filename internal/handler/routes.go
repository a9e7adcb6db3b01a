package handler

import (
	"net/http"

	"github.com/msomdec/relief-supply/internal/service"
)

// Deps bundles what the router needs.
type Deps struct {
	Auth   *service.AuthService
	Supply *service.ResourceService
	Goods  *service.ResourceService
	DB     Pinger

	// RequireAuth guards every supply and goods route with a bearer token.
	RequireAuth bool
	// LoginLimiter throttles register and login per client IP when set.
	LoginLimiter Limiter
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, deps Deps) {
	authHandler := NewAuthHandler(deps.Auth)
	supplyHandler := NewSupplyHandler(deps.Supply)
	goodsHandler := NewGoodsHandler(deps.Goods)

	throttle := func(h http.HandlerFunc) http.Handler {
		if deps.LoginLimiter == nil {
			return h
		}
		return RateLimit(deps.LoginLimiter, h)
	}
	guard := func(h http.HandlerFunc) http.Handler {
		if !deps.RequireAuth {
			return h
		}
		return RequireAuth(deps.Auth, h)
	}

	mux.HandleFunc("GET /{$}", HandleHome)
	mux.HandleFunc("GET /healthz", HandleHealthz(deps.DB))

	// Auth.
	mux.Handle("POST /api/v1/register", throttle(authHandler.HandleRegister))
	mux.Handle("POST /api/v1/login", throttle(authHandler.HandleLogin))

	// Supply.
	mux.Handle("POST /api/v1/create-supply", guard(supplyHandler.HandleCreate))
	mux.Handle("GET /api/v1/get-supply", guard(supplyHandler.HandleList))
	mux.Handle("GET /api/v1/get-single-supply/{id}", guard(supplyHandler.HandleGet))
	mux.Handle("PUT /api/v1/update-supply/{id}", guard(supplyHandler.HandleUpdate))
	mux.Handle("DELETE /api/v1/delete-supply/{id}", guard(supplyHandler.HandleDelete))

	// Goods.
	mux.Handle("GET /api/v1/get-goods", guard(goodsHandler.HandleList))
	mux.Handle("GET /api/v1/get-goods-detail/{id}", guard(goodsHandler.HandleGet))

	mux.HandleFunc("/", HandleNotFound)
}

// Chain wraps h with the standard middleware stack, outermost first:
// recovery, request logging, security headers and CORS.
func Chain(h http.Handler, allowedOrigins []string) http.Handler {
	h = CORS(allowedOrigins, h)
	h = SecurityHeaders(h)
	h = RequestLogger(h)
	return Recoverer(h)
}
