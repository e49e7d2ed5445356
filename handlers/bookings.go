package handlers

import (
	"context"
	"net/http"

	"dog-sitter-api/middleware"
	"dog-sitter-api/models"
	"dog-sitter-api/services"

	"github.com/gin-gonic/gin"
)

type listBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingInput
	if !h.bindJSON(c, &req) {
		return
	}
	booking, err := h.svc.Bookings.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ListBookings returns the caller's bookings with a per-status summary
func (h *Handler) ListBookings(c *gin.Context) {
	var q listBookingsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	list, err := h.svc.Bookings.List(c.Request.Context(), middleware.GetPrincipal(c), models.BookingStatus(q.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBooking(c *gin.Context) {
	booking, err := h.svc.Bookings.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type transitionFunc func(ctx context.Context, p services.Principal, bookingID string) (*models.Booking, error)

// transition adapts one lifecycle operation to a POST /bookings/:id/<action> route
func (h *Handler) transition(apply transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := apply(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

func (h *Handler) ConfirmBooking() gin.HandlerFunc  { return h.transition(h.svc.Bookings.Confirm) }
func (h *Handler) CompleteBooking() gin.HandlerFunc { return h.transition(h.svc.Bookings.Complete) }
func (h *Handler) CancelBooking() gin.HandlerFunc   { return h.transition(h.svc.Bookings.Cancel) }
