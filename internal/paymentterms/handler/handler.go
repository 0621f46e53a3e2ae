package handler

import (
	"fmt"
	"net/http"

	"serveon_backend/internal/paymentterms/schedule"
	"serveon_backend/internal/paymentterms/transport"
	"serveon_backend/platform/httpkit"
	"serveon_backend/platform/money"
	"serveon_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	val *validator.Validator
}

func New(val *validator.Validator) *Handler {
	return &Handler{val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/preview", h.Preview)
}

func (h *Handler) Preview(c *gin.Context) {
	var req transport.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	firstPct := schedule.DefaultFirstPct
	if req.FirstPct != nil {
		firstPct = *req.FirstPct
	}
	interval := schedule.DefaultIntervalDays
	if req.IntervalDays != nil {
		interval = *req.IntervalDays
	}

	plan, err := schedule.Distribute(req.Installments, firstPct, interval)
	if httpkit.HandleError(c, err) {
		return
	}

	payments := schedule.Apply(req.TotalCents, plan)
	lines := make([]transport.InstallmentLine, 0, len(payments))
	for _, p := range payments {
		lines = append(lines, transport.InstallmentLine{
			Number:      p.Number,
			Percent:     p.Percent(),
			Days:        p.Days,
			AmountCents: p.AmountCents,
			Amount:      money.FormatBRL(p.AmountCents),
		})
	}

	httpkit.OK(c, transport.PreviewResponse{
		Summary:      summary(len(plan)),
		Installments: lines,
		TotalCents:   req.TotalCents,
		Total:        money.FormatBRL(req.TotalCents),
	})
}

func summary(installments int) string {
	if installments == 1 {
		return "À vista"
	}
	return fmt.Sprintf("Entrada + %dx", installments-1)
}
