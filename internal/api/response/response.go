package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponseContent returns a JSON response with a success message and content
func SuccessResponseContent(c *gin.Context, content string) {
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			map[string]any{
				"content": content,
			},
		))
}

// SuccessResponse returns a JSON response with a success message with no type limitation
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			extras,
		))
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(
		code,
		NewResponse(
			false,
			code,
			map[string]any{
				"message": message,
			},
		))
}

// Health is the body of the health endpoint. Checks maps a dependency to
// "ok" or its failure message.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthResponse writes 200 when every check passed and 503 otherwise.
func HealthResponse(c *gin.Context, checks map[string]string) {
	health := Health{Status: "ok", Checks: checks}
	code := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			health.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(code, NewResponse(code == http.StatusOK, code, health))
}
