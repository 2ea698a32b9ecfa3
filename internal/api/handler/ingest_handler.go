package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
)

// Enqueuer is the slice of the dispatcher the handler needs.
type Enqueuer interface {
	EnqueueBatch(listings []ports.PropertyInput)
}

// IngestHandler accepts batches of listings for asynchronous indexing.
type IngestHandler struct {
	queue Enqueuer
}

func NewIngestHandler(queue Enqueuer) *IngestHandler {
	return &IngestHandler{queue: queue}
}

type listingRequest struct {
	ListingID   string                 `json:"listing_id" validate:"required"`
	Address     domain.PropertyAddress `json:"address"`
	Details     domain.PropertyDetails `json:"details"`
	Price       float64                `json:"price"       validate:"omitempty,gt=0"`
	Status      string                 `json:"status"      validate:"required"`
	Description string                 `json:"description"`
}

type dataLoadRequest struct {
	Properties []listingRequest `json:"properties" validate:"required,min=1,dive"`
}

type dataLoadResponse struct {
	Accepted int `json:"accepted"`
}

// DataLoad enqueues listings for indexing and returns immediately.
//
// @Summary      Load and index properties
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      dataLoadRequest  true  "Listings to index"
// @Success      202   {object}  dataLoadResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/data-load [post]
func (h *IngestHandler) DataLoad(c echo.Context) error {
	var req dataLoadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inputs := make([]ports.PropertyInput, 0, len(req.Properties))
	for _, l := range req.Properties {
		inputs = append(inputs, ports.PropertyInput{
			ListingID:   l.ListingID,
			Address:     l.Address,
			Details:     l.Details,
			Price:       l.Price,
			Status:      l.Status,
			Description: l.Description,
		})
	}

	h.queue.EnqueueBatch(inputs)

	return c.JSON(http.StatusAccepted, dataLoadResponse{Accepted: len(inputs)})
}
