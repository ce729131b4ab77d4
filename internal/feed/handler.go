package feed

import (
	"ctchen222/booklist/internal/api/response"
	"ctchen222/booklist/internal/identity"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Handler upgrades authenticated requests to feed connections.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler. checkOrigin may be nil to accept any origin.
func NewHandler(h *Hub, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeWS handles GET /ws/feed. Only authenticated readers may connect, and
// each receives the events of its own books.
func (h *Handler) ServeWS(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "feed.ServeWS")
	defer span.End()

	readerID, err := identity.FromContext(ctx).Require()
	if err != nil {
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}
	span.SetAttributes(attribute.String("reader.id", readerID))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade feed connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		return
	}

	if !h.hub.Attach(NewClient(readerID, conn)) {
		span.SetStatus(codes.Error, "feed hub stopped")
	}
}
