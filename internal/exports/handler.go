package exports

import (
	"net/http"

	"serveon_backend/platform/httpkit"
	"serveon_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type listRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

// Handler serves the export log.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) ListRecent(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.Fields(err))
		return
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	entries, err := h.svc.Recent(c.Request.Context(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": entries})
}
