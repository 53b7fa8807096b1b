package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-ingest/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-ingest/internal/app"
)

// IngestHandler handles ingestion HTTP endpoints.
type IngestHandler struct {
	service *app.IngestService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(service *app.IngestService) *IngestHandler {
	return &IngestHandler{
		service: service,
	}
}

// IngestRequest is the request body for POST /api/v1/ingest.
// Exactly one of Path or URL must be set.
type IngestRequest struct {
	// Path is a file on the server's filesystem.
	Path string `json:"path" validate:"omitempty,notempty"`

	// URL is a remote file to download and ingest.
	URL string `json:"url" validate:"omitempty,url"`
}

// IngestResponse reports one ingested source.
type IngestResponse struct {
	Source string `json:"source"`
	Quotes int    `json:"quotes"`
}

// BatchIngestRequest is the request body for POST /api/v1/ingest/batch.
type BatchIngestRequest struct {
	// Dir is a directory on the server's filesystem. Every file under it
	// with a supported extension is ingested.
	Dir string `json:"dir" validate:"required,notempty"`
}

// FailedSourceResponse reports one source that could not be ingested.
type FailedSourceResponse struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// BatchIngestResponse reports the outcome of a directory ingestion.
type BatchIngestResponse struct {
	Ingested []IngestResponse       `json:"ingested"`
	Failed   []FailedSourceResponse `json:"failed"`
	Quotes   int                    `json:"quotes"`
}

// FormatsResponse lists the extensions the service can ingest.
type FormatsResponse struct {
	Extensions []string `json:"extensions"`
}

// Ingest handles POST /api/v1/ingest
// Parses one source (local path or URL) and stores its quotes. The operation
// is all-or-nothing: a malformed record anywhere in the source stores nothing.
//
// @Summary Ingest one quote source
// @Description Parses a local file or remote URL and stores its quotes
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body IngestRequest true "Source to ingest"
// @Success 200 {object} IngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/ingest [post]
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req IngestRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		if fieldErrors := dto.ValidationErrors(err); len(fieldErrors) > 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
				dto.ErrorCodeValidation,
				"request validation failed",
				fieldErrors,
			).WithTraceID(dto.GetTraceID(c)))

			return
		}

		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid request body",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	if (req.Path == "") == (req.URL == "") {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeValidation,
			"exactly one of path or url must be set",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	var report app.IngestReport

	if req.Path != "" {
		report, err = h.service.IngestFile(c.Request.Context(), req.Path)
	} else {
		report, err = h.service.IngestURL(c.Request.Context(), req.URL)
	}

	if err != nil {
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, IngestResponse{
		Source: report.Source,
		Quotes: report.Quotes,
	})
}

// IngestBatch handles POST /api/v1/ingest/batch
// Ingests every supported file under a directory. Files succeed or fail
// independently; the response reports both sets.
//
// @Summary Ingest a directory of quote sources
// @Description Ingests every supported file under a directory
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body BatchIngestRequest true "Directory to ingest"
// @Success 200 {object} BatchIngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/ingest/batch [post]
func (h *IngestHandler) IngestBatch(c *gin.Context) {
	var req BatchIngestRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeValidation,
			"dir is required",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	batch, err := h.service.IngestDirectory(c.Request.Context(), req.Dir)
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	resp := BatchIngestResponse{
		Ingested: make([]IngestResponse, len(batch.Ingested)),
		Failed:   make([]FailedSourceResponse, len(batch.Failed)),
		Quotes:   batch.TotalQuotes(),
	}

	for i, report := range batch.Ingested {
		resp.Ingested[i] = IngestResponse{Source: report.Source, Quotes: report.Quotes}
	}

	for i, failed := range batch.Failed {
		resp.Failed[i] = FailedSourceResponse{Source: failed.Source, Error: failed.Err.Error()}
	}

	c.JSON(http.StatusOK, resp)
}

// ListFormats handles GET /api/v1/ingest/formats
// Returns the file extensions the dispatcher can route.
//
// @Summary List supported formats
// @Tags ingest
// @Produce json
// @Success 200 {object} FormatsResponse
// @Router /api/v1/ingest/formats [get]
func (h *IngestHandler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, FormatsResponse{
		Extensions: h.service.SupportedExtensions(),
	})
}

// RegisterIngestRoutes registers ingestion routes on the given router group.
func (h *IngestHandler) RegisterIngestRoutes(rg *gin.RouterGroup) {
	ingest := rg.Group("/ingest")
	ingest.POST("", h.Ingest)
	ingest.POST("/batch", h.IngestBatch)
	ingest.GET("/formats", h.ListFormats)
}
