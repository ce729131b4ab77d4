package server

import (
	"context"
	"ctchen222/booklist/internal/api/response"
	"ctchen222/booklist/internal/feed"
	"ctchen222/booklist/internal/graph"
	"ctchen222/booklist/internal/identity"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type Server struct {
	engine *gin.Engine
	checks map[string]HealthCheck
}

// NewServer wires the graph, feed and health endpoints behind the identity middleware.
// feedHandler may be nil to disable the websocket feed.
func NewServer(builder *identity.Builder, graphHandler *graph.Handler, feedHandler *feed.Handler, checks map[string]HealthCheck) *Server {
	s := &Server{
		engine: gin.New(),
		checks: checks,
	}

	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/", s.handleWelcome)
	s.engine.GET("/healthz", s.handleHealth)

	authed := s.engine.Group("/", builder.Middleware())
	authed.POST("/graphql", graphHandler.ServePost)
	authed.GET("/graphql", graphHandler.ServeGet)
	if feedHandler != nil {
		authed.GET("/ws/feed", feedHandler.ServeWS)
	}

	return s
}

// Engine returns the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleWelcome(c *gin.Context) {
	response.SuccessResponseContent(c, "booklist GraphQL API: POST /graphql")
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "check", name, "error", err)
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	response.HealthResponse(c, results)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(), trace.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.url", c.Request.URL.Path),
		))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		slog.DebugContext(ctx, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	}
}
