package handlers

import (
	"net/http"

	"dog-sitter-api/apperror"
	"dog-sitter-api/middleware"
	"dog-sitter-api/models"
	"dog-sitter-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		h.respondError(c, apperror.Internal(err))
		return
	}
	c.JSON(status, gin.H{"user": user, "token": token})
}

// Signup creates a new account and logs it in
func (h *Handler) Signup(c *gin.Context) {
	var req services.SignupInput
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account created")
	h.respondWithToken(c, http.StatusCreated, user)
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// Me returns the authenticated user's account
func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.Auth.Me(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	var req services.UpdateAccountInput
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Auth.UpdateAccount(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteAccount removes the caller with all their dogs, bookings and reviews
func (h *Handler) DeleteAccount(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if err := h.svc.Auth.DeleteAccount(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info().Str("user_id", p.UserID).Msg("account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
