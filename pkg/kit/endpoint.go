package kit

import (
	"context"
	"time"

	"github.com/robinjoseph08/golib/logger"
)

// Endpoint is a transport-agnostic action function.
// Each action (normalize, classify, compile) is an Endpoint.
// HTTP handlers, MCP tools and CLI commands all dispatch to the same Endpoints.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Middleware wraps an Endpoint with cross-cutting concerns (request IDs, logging).
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first is outermost.
// Chain(a, b, c)(endpoint) == a(b(c(endpoint)))
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}

// RequestID gives calls that arrive without a request ID a fresh one.
func RequestID() Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			if GetRequestID(ctx) == "" {
				ctx = WithRequestID(ctx, NewRequestID())
			}
			return next(ctx, request)
		}
	}
}

// Logging logs every call of the named endpoint with the logger carried by
// the context. Failed calls log at warn level.
func Logging(name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)

			log := logger.FromContext(ctx)
			data := logger.Data{
				"endpoint":    name,
				"transport":   GetTransport(ctx),
				"request_id":  GetRequestID(ctx),
				"duration_us": time.Since(start).Microseconds(),
			}
			if err != nil {
				log.Err(err).Warn("endpoint failed", data)
			} else {
				log.Debug("endpoint called", data)
			}
			return resp, err
		}
	}
}
