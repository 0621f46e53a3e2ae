package transport

type PreviewRequest struct {
	TotalCents   int64    `json:"totalCents" validate:"gte=0"`
	Installments int      `json:"installments" validate:"required,min=1,max=48"`
	FirstPct     *float64 `json:"firstPct,omitempty" validate:"omitempty,gte=0,lte=100"`
	IntervalDays *int     `json:"intervalDays,omitempty" validate:"omitempty,gte=0,lte=365"`
}

type InstallmentLine struct {
	Number      int     `json:"number"`
	Percent     float64 `json:"percent"`
	Days        int     `json:"days"`
	AmountCents int64   `json:"amountCents"`
	Amount      string  `json:"amount"`
}

type PreviewResponse struct {
	Summary      string            `json:"summary"`
	Installments []InstallmentLine `json:"installments"`
	TotalCents   int64             `json:"totalCents"`
	Total        string            `json:"total"`
}
