package handlers

import (
	"net/http"

	"dog-sitter-api/middleware"
	"dog-sitter-api/services"

	"github.com/gin-gonic/gin"
)

// ListDogs returns the caller's dogs
func (h *Handler) ListDogs(c *gin.Context) {
	dogs, err := h.svc.Dogs.ListByOwner(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(dogs), "dogs": dogs})
}

func (h *Handler) GetDog(c *gin.Context) {
	dog, err := h.svc.Dogs.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog": dog})
}

func (h *Handler) CreateDog(c *gin.Context) {
	var req services.DogInput
	if !h.bindJSON(c, &req) {
		return
	}
	dog, err := h.svc.Dogs.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dog": dog})
}

// UpdateDog replaces the dog's fields with the request body
func (h *Handler) UpdateDog(c *gin.Context) {
	var req services.DogInput
	if !h.bindJSON(c, &req) {
		return
	}
	dog, err := h.svc.Dogs.Update(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog": dog})
}

func (h *Handler) DeleteDog(c *gin.Context) {
	if err := h.svc.Dogs.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
