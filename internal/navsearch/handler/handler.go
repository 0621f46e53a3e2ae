package handler

import (
	"net/http"

	"serveon_backend/internal/navsearch/service"
	"serveon_backend/internal/navsearch/transport"
	"serveon_backend/platform/httpkit"
	"serveon_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/suggestions", h.Suggestions)
	rg.POST("/commit", h.Commit)
	rg.DELETE("/history", h.ClearHistory)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	httpkit.OK(c, h.svc.Search(c.Request.Context(), identity.StorageScope(), req))
}

func (h *Handler) Suggestions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	httpkit.OK(c, h.svc.Suggestions(c.Request.Context(), identity.StorageScope()))
}

func (h *Handler) Commit(c *gin.Context) {
	var req transport.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Commit(c.Request.Context(), identity.StorageScope(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ClearHistory(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	h.svc.ClearHistory(c.Request.Context(), identity.StorageScope())
	httpkit.NoContent(c)
}
