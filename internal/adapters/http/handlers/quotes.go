package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-ingest/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-ingest/internal/app"
	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// cursorField names the single sort order quotes support: insertion order.
const cursorField = "offset"

// QuoteHandler handles quote-serving HTTP endpoints.
type QuoteHandler struct {
	service *app.IngestService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.IngestService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	Body   string `json:"body"`
	Author string `json:"author"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Body:   q.Body,
		Author: q.Author,
	}
}

// ListQuotes handles GET /api/v1/quotes
// Returns stored quotes in insertion order with cursor pagination.
//
// @Summary List stored quotes
// @Description Returns a page of ingested quotes in insertion order
// @Tags quotes
// @Produce json
// @Param cursor query string false "Cursor from a previous response"
// @Param limit query int false "Page size (1-100, default 20)"
// @Success 200 {object} dto.PaginatedResponse[QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var page dto.PaginationRequest

	err := dto.BindQueryAndValidate(c, &page)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid pagination parameters",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	offset, err := offsetFromCursor(&page)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid cursor",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	limit := page.GetLimit()

	// Fetch one extra row to detect whether another page exists.
	quotes, _, err := h.service.ListQuotes(c.Request.Context(), offset, limit+1)
	if err != nil {
		dto.HandleError(c, err)

		return
	}

	items := make([]QuoteResponse, len(quotes))
	for i, quote := range quotes {
		items[i] = toQuoteResponse(quote)
	}

	resp := dto.NewPaginatedResponse(items, limit, func(QuoteResponse) *dto.CursorData {
		return dto.NewCursor(cursorField, strconv.Itoa(offset+limit), "")
	})

	c.JSON(http.StatusOK, resp)
}

// offsetFromCursor recovers the list offset encoded in the request cursor.
// An absent cursor means the first page.
func offsetFromCursor(page *dto.PaginationRequest) (int, error) {
	cursor, err := page.DecodeCursor()
	if err != nil {
		if errors.Is(err, dto.ErrNoCursor) {
			return 0, nil
		}

		return 0, err
	}

	if cursor.Field != cursorField {
		return 0, dto.ErrInvalidCursor
	}

	offset, err := strconv.Atoi(cursor.Value)
	if err != nil || offset < 0 {
		return 0, dto.ErrInvalidCursor
	}

	return offset, nil
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Returns one stored quote chosen uniformly at random.
//
// @Summary Get a random quote
// @Description Returns a random quote from the ingested set
// @Tags quotes
// @Produce json
// @Success 200 {object} QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.service.RandomQuote(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/random", h.GetRandomQuote)
}
