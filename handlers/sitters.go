package handlers

import (
	"net/http"

	"dog-sitter-api/middleware"
	"dog-sitter-api/services"

	"github.com/gin-gonic/gin"
)

type listSittersQuery struct {
	City    string   `form:"city"`
	State   string   `form:"state"`
	MaxRate *float64 `form:"maxRate" binding:"omitempty,gte=0"`
}

// ListSitters is the public directory with optional city, state and rate filters
func (h *Handler) ListSitters(c *gin.Context) {
	var q listSittersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	sitters, err := h.svc.Sitters.List(c.Request.Context(), services.SitterFilter{
		City:    q.City,
		State:   q.State,
		MaxRate: q.MaxRate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sitters), "sitters": sitters})
}

// GetSitter returns the public profile with recent completed bookings
func (h *Handler) GetSitter(c *gin.Context) {
	detail, err := h.svc.Sitters.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) GetMySitterProfile(c *gin.Context) {
	sitter, err := h.svc.Sitters.GetMine(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sitter": sitter})
}

func (h *Handler) UpdateSitterProfile(c *gin.Context) {
	var req services.SitterProfileInput
	if !h.bindJSON(c, &req) {
		return
	}
	sitter, err := h.svc.Sitters.UpdateProfile(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sitter": sitter})
}
