package handlers

import (
	"net/http"

	"dog-sitter-api/models"
	"dog-sitter-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and database reachability
func (h *Handler) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("health check: database unreachable")
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "Dog Sitting Marketplace API",
	})
}

// GetStateMachineInfo returns the booking lifecycle for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	nexts := make(map[models.BookingStatus][]models.BookingStatus, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		nexts[s] = statemachine.ValidTransitionsFrom(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"states":          models.AllStatuses,
		"initial_state":   models.StatusPending,
		"terminal_states": statemachine.TerminalStates(),
		"transitions":     statemachine.GetAllTransitions(),
		"next_states":     nexts,
		"endpoints": gin.H{
			"confirm":  "POST /api/bookings/:id/confirm (sitter)",
			"complete": "POST /api/bookings/:id/complete (sitter)",
			"cancel":   "POST /api/bookings/:id/cancel (client)",
		},
	})
}
