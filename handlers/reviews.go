package handlers

import (
	"net/http"

	"dog-sitter-api/middleware"
	"dog-sitter-api/services"

	"github.com/gin-gonic/gin"
)

// CreateReview lets the client rate a completed booking once
func (h *Handler) CreateReview(c *gin.Context) {
	var req services.CreateReviewInput
	if !h.bindJSON(c, &req) {
		return
	}
	review, err := h.svc.Reviews.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}
