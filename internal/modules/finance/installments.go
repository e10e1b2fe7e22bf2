package finance

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInconsistentTotals is returned when an installment plan does not add up
// to the amount it was generated from.
var ErrInconsistentTotals = errors.New("installments do not sum to total")

// Installment is one share of a split total, before it becomes a payable or
// receivable row.
type Installment struct {
	Number  int       `json:"number"`
	Value   float64   `json:"value"`
	DueDate time.Time `json:"due_date"`
}

// GenerateInstallments splits total into count shares due 30 days apart,
// starting 30 days after startDate. The split is computed in integer cents
// and any remainder lands on the first installment, so the shares always sum
// to total exactly.
func GenerateInstallments(total float64, count int, startDate time.Time) ([]Installment, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: installment count must be positive", ErrValidation)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: total must not be negative", ErrValidation)
	}

	cents := int64(math.Round(total * 100))
	share := cents / int64(count)
	remainder := cents - share*int64(count)

	out := make([]Installment, count)
	for i := 0; i < count; i++ {
		v := share
		if i == 0 {
			v += remainder
		}
		out[i] = Installment{
			Number:  i + 1,
			Value:   float64(v) / 100,
			DueDate: startDate.AddDate(0, 0, 30*(i+1)),
		}
	}
	return out, nil
}

// InstallmentsTotal sums the share values in cents to avoid float drift.
func InstallmentsTotal(installments []Installment) float64 {
	var cents int64
	for _, in := range installments {
		cents += int64(math.Round(in.Value * 100))
	}
	return float64(cents) / 100
}

// CheckTotals verifies an installment plan against its source total within a
// one-cent epsilon.
func CheckTotals(total float64, installments []Installment) error {
	if math.Abs(InstallmentsTotal(installments)-total) > 0.01 {
		return fmt.Errorf("%w: got %.2f, want %.2f",
			ErrInconsistentTotals, InstallmentsTotal(installments), total)
	}
	return nil
}
