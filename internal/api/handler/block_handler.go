package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/api/metrics"
	"github.com/bookline/booking-gateway/internal/core/service"
)

// BlockHandler exposes staff time-off blocking.
type BlockHandler struct {
	blocks *service.BlockCreator
	log    zerolog.Logger
}

func NewBlockHandler(blocks *service.BlockCreator, log zerolog.Logger) *BlockHandler {
	return &BlockHandler{blocks: blocks, log: log}
}

type blockRequest struct {
	ProfessionalID string `json:"professional_id"`
	Date           string `json:"date"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

// Create books an unavailability block for a professional.
func (h *BlockHandler) Create(c echo.Context) error {
	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.blocks.Create(c.Request().Context(), service.BlockInput{
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Start:          req.Start,
		End:            req.End,
	})
	if err != nil {
		return err
	}

	metrics.BlocksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, map[string]string{"status": "created"})
}
