package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblem = "application/problem+json"

const (
	TypeValidation = "https://api.taxcal/errors/validation"
	TypeNotFound   = "https://api.taxcal/errors/not-found"
	TypeInternal   = "https://api.taxcal/errors/internal"
)

// Problem is the error body returned by every endpoint (RFC 7807 shape)
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Validation returns a 400 problem for bad client input
func Validation(detail string) Problem {
	return Problem{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

// NotFound returns a 404 problem
func NotFound(detail string) Problem {
	return Problem{
		Type:   TypeNotFound,
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: detail,
	}
}

// Internal returns a 500 problem. The detail is generic; the cause belongs in the logs.
func Internal() Problem {
	return Problem{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: "an unexpected error occurred",
	}
}

// Abort writes p with the problem content type and stops the handler chain
func Abort(c *gin.Context, p Problem) {
	c.Header("Content-Type", ContentTypeProblem)
	c.AbortWithStatusJSON(p.Status, p)
}
