package graph

import (
	"context"
	"ctchen222/booklist/internal/api/response"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Request is the GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler serves a schema over HTTP.
type Handler struct {
	schema     graphql.Schema
	operations metric.Int64Counter
}

// NewHandler creates a Handler for schema.
func NewHandler(schema graphql.Schema) *Handler {
	counter, err := otel.Meter("graph").Int64Counter(
		"graphql.operations",
		metric.WithDescription("GraphQL operations executed"),
	)
	if err != nil {
		slog.Error("failed to create graphql operation counter", "error", err)
	}
	return &Handler{schema: schema, operations: counter}
}

// Execute runs a request against the schema using the identity in ctx.
func (h *Handler) Execute(ctx context.Context, req Request) *graphql.Result {
	ctx, span := tracer.Start(ctx, "graphql.execute", trace.WithAttributes(
		attribute.String("graphql.operation.name", req.OperationName),
	))
	defer span.End()

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	status := "ok"
	if result.HasErrors() {
		status = "error"
		span.SetAttributes(attribute.Int("graphql.errors", len(result.Errors)))
	}
	if h.operations != nil {
		h.operations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
	return result
}

// ServePost handles POST /graphql with a JSON body.
func (h *Handler) ServePost(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.serve(c, req)
}

// ServeGet handles GET /graphql?query=...&variables=...&operationName=...
// Mutations are only accepted over POST.
func (h *Handler) ServeGet(c *gin.Context) {
	req := Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "variables must be a JSON object")
			return
		}
	}
	if isMutation(req.Query, req.OperationName) {
		response.ErrorResponse(c, http.StatusMethodNotAllowed, "mutations require POST")
		return
	}
	h.serve(c, req)
}

func (h *Handler) serve(c *gin.Context, req Request) {
	if req.Query == "" {
		response.ErrorResponse(c, http.StatusBadRequest, "Must provide query string.")
		return
	}
	c.JSON(http.StatusOK, h.Execute(c.Request.Context(), req))
}

func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}
