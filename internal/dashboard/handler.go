package dashboard

import (
	"serveon_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), identity.StorageScope())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, summary)
}
