package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/vagon"
)

// SeatHandler exposes the seat record backing a machine.
type SeatHandler struct {
	client *vagon.Client
}

func NewSeatHandler(client *vagon.Client) *SeatHandler {
	return &SeatHandler{client: client}
}

// Get returns the raw seat record.
func (h *SeatHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.client.GetSeat(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
