package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
)

// SearchHandler handles property search requests.
type SearchHandler struct {
	service ports.SearchService
}

func NewSearchHandler(service ports.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

type searchRequest struct {
	Query    string `json:"query" validate:"required"`
	Page     int    `json:"page"  validate:"omitempty,min=1"`
	Size     int    `json:"size"  validate:"omitempty,min=1,max=100"`
	UseCache *bool  `json:"use_cache"`
}

type searchPerformance struct {
	TotalTimeMS float64 `json:"total_time_ms"`
	Method      string  `json:"method"`
}

type searchResponse struct {
	Query       string            `json:"query"`
	Total       int64             `json:"total"`
	Page        int               `json:"page"`
	Size        int               `json:"size"`
	Properties  []domain.Property `json:"properties"`
	FromCache   bool              `json:"from_cache"`
	Performance searchPerformance `json:"performance"`
}

// Search runs a property search with result caching.
//
// @Summary      Property search
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        body  body      searchRequest  true  "Search parameters"
// @Success      200   {object}  searchResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/search [post]
func (h *SearchHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	useCache := true
	if req.UseCache != nil {
		useCache = *req.UseCache
	}
	page := req.Page
	if page == 0 {
		page = 1
	}
	size := req.Size
	if size == 0 {
		size = 20
	}

	result, err := h.service.Search(c.Request().Context(), ports.SearchInput{
		Query:    req.Query,
		Page:     page,
		Size:     size,
		UseCache: useCache,
	})
	if err != nil {
		return err
	}

	method := "repository"
	if result.FromCache {
		method = "cached"
	}
	properties := result.Properties
	if properties == nil {
		properties = []domain.Property{}
	}

	return c.JSON(http.StatusOK, searchResponse{
		Query:      req.Query,
		Total:      result.Total,
		Page:       page,
		Size:       size,
		Properties: properties,
		FromCache:  result.FromCache,
		Performance: searchPerformance{
			TotalTimeMS: result.TookMS,
			Method:      method,
		},
	})
}
