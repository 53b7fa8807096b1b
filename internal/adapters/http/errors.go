package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-ingest/internal/adapters/http/dto"
)

// RespondWithError writes an error response to the gin.Context.
// It maps domain errors to HTTP responses and includes the trace ID if available.
func RespondWithError(c *gin.Context, err error) {
	dto.HandleError(c, err)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors (e.g., validation, bad request) that
// don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message)

	if traceID := dto.GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.JSON(dto.HTTPStatusFromCode(code), errResp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := dto.NewErrorResponseWithDetails(
		dto.ErrorCodeValidation,
		"request validation failed",
		fieldErrors,
	)

	if traceID := dto.GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.JSON(dto.HTTPStatusFromCode(dto.ErrorCodeValidation), errResp)
}

// AbortWithError aborts the request chain and writes an error response.
// Use this in middleware when you want to stop further processing.
func AbortWithError(c *gin.Context, err error) {
	status, errResp := dto.MapDomainError(err)

	if traceID := dto.GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.AbortWithStatusJSON(status, errResp)
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message)

	if traceID := dto.GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.AbortWithStatusJSON(dto.HTTPStatusFromCode(code), errResp)
}
