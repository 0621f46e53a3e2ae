// Package schedule previews how a payment condition ("entrada + parcelas")
// splits an amount across installments.
package schedule

import (
	"serveon_backend/platform/apperr"
)

const (
	// DefaultFirstPct is the down payment share when none is configured.
	DefaultFirstPct = 50.0
	// DefaultIntervalDays separates consecutive installments.
	DefaultIntervalDays = 30
	// MaxInstallments bounds a single condition.
	MaxInstallments = 48

	wholeHundredths = 10000
)

// Installment is one share of a payment condition. Percentages are kept in
// hundredths of a percent so that a plan always adds up to exactly 100.00.
type Installment struct {
	Number     int
	Hundredths int
	Days       int
}

// Percent returns the share as a percentage with two decimals.
func (i Installment) Percent() float64 {
	return float64(i.Hundredths) / 100
}

// Payment is an installment resolved against an amount.
type Payment struct {
	Installment
	AmountCents int64
}

// Distribute gives the first installment firstPct and splits the rest equally.
// The last installment absorbs rounding.
func Distribute(installments int, firstPct float64, intervalDays int) ([]Installment, error) {
	if installments < 1 || installments > MaxInstallments {
		return nil, apperr.Validation("installments must be between 1 and 48").WithOp("schedule.Distribute")
	}
	if firstPct < 0 || firstPct > 100 {
		return nil, apperr.Validation("first installment percentage must be between 0 and 100").WithOp("schedule.Distribute")
	}
	if intervalDays < 0 {
		return nil, apperr.Validation("interval must not be negative").WithOp("schedule.Distribute")
	}

	plan := make([]Installment, installments)
	for i := range plan {
		plan[i] = Installment{Number: i + 1, Days: i * intervalDays}
	}
	if installments == 1 {
		plan[0].Hundredths = wholeHundredths
		return plan, nil
	}

	first := int(firstPct*100 + 0.5)
	rest := wholeHundredths - first
	each := rest / (installments - 1)

	plan[0].Hundredths = first
	for i := 1; i < installments-1; i++ {
		plan[i].Hundredths = each
	}
	plan[installments-1].Hundredths = rest - each*(installments-2)
	return plan, nil
}

// Schedule splits totalCents into equal installments; the last absorbs the
// remainder so the amounts sum to the total.
func Schedule(totalCents int64, installments, intervalDays int) ([]Payment, error) {
	if totalCents < 0 {
		return nil, apperr.Validation("total must not be negative").WithOp("schedule.Schedule")
	}
	if installments < 1 || installments > MaxInstallments {
		return nil, apperr.Validation("installments must be between 1 and 48").WithOp("schedule.Schedule")
	}

	plan := make([]Installment, installments)
	base := wholeHundredths / installments
	for i := range plan {
		plan[i] = Installment{Number: i + 1, Hundredths: base, Days: i * intervalDays}
	}
	plan[installments-1].Hundredths = wholeHundredths - base*(installments-1)

	payments := make([]Payment, installments)
	each := totalCents / int64(installments)
	for i, inst := range plan {
		payments[i] = Payment{Installment: inst, AmountCents: each}
	}
	payments[installments-1].AmountCents = totalCents - each*int64(installments-1)
	return payments, nil
}

// Apply resolves a plan against totalCents. The last installment absorbs
// rounding so the amounts sum to the total.
func Apply(totalCents int64, plan []Installment) []Payment {
	payments := make([]Payment, len(plan))
	var assigned int64
	for i, inst := range plan {
		amount := totalCents * int64(inst.Hundredths) / wholeHundredths
		if i == len(plan)-1 {
			amount = totalCents - assigned
		}
		payments[i] = Payment{Installment: inst, AmountCents: amount}
		assigned += amount
	}
	return payments
}
