package api

import (
	"net/http"

	resdto "ticket-booking/internal/handler/dto/response"
	"ticket-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SeatHandler struct {
	seatQueries queries.SeatQueries
}

func NewSeatHandler(seatQueries queries.SeatQueries) *SeatHandler {
	return &SeatHandler{seatQueries: seatQueries}
}

// @Summary List event seats
// @Description List all seats of an event with current availability
// @Tags seats
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} resdto.SeatResponse
// @Failure 400 {object} map[string]string
// @Router /events/{id}/seats [get]
func (h *SeatHandler) ListEventSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event ID format",
		})
		return
	}

	seats, err := h.seatQueries.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SeatResponse, len(seats))
	for i, s := range seats {
		response[i] = resdto.FromSeatView(s)
	}

	c.JSON(http.StatusOK, response)
}
