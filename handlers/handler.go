package handlers

import (
	"errors"
	"reflect"
	"strings"

	"dog-sitter-api/apperror"
	"dog-sitter-api/logger"
	"dog-sitter-api/middleware"
	"dog-sitter-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Handler serves every API route over the domain services
type Handler struct {
	svc    *services.Services
	tokens *middleware.TokenManager
	log    *logger.Logger
}

func New(svc *services.Services, tokens *middleware.TokenManager, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, tokens: tokens, log: log}
}

func init() {
	// binding errors report query and JSON names, not Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// respondError writes the error body for any service or binding failure
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal {
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["details"] = appErr.Fields
	}
	c.AbortWithStatusJSON(appErr.Status(), body)
}

// bindError turns a gin binding failure into a validation error
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.Validation("invalid request data", services.FieldErrors(verrs))
	}
	return apperror.Validation("invalid request body", nil)
}

func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, bindError(err))
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.respondError(c, bindError(err))
		return false
	}
	return true
}
