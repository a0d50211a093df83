package writer

import (
	"github.com/shopspring/decimal"

	"github.com/maherduit/statement-parser/internal/models"
)

// Summarize computes aggregate statistics over a record list. Zero
// records produce an empty summary, not an error.
func Summarize(txns []models.Transaction) models.Summary {
	if len(txns) == 0 {
		return models.Summary{}
	}

	var credits, debits decimal.Decimal
	creditCount, debitCount := 0, 0
	minDate, maxDate := txns[0].Date, txns[0].Date

	for _, t := range txns {
		switch t.Type {
		case models.Credit:
			creditCount++
			credits = credits.Add(t.Amount)
		case models.Debit:
			debitCount++
			debits = debits.Add(t.Amount)
		}
		if t.Date.Before(minDate.Time) {
			minDate = t.Date
		}
		if t.Date.After(maxDate.Time) {
			maxDate = t.Date
		}
	}

	credits = credits.Round(2)
	debits = debits.Round(2)

	return models.Summary{
		TotalTransactions: len(txns),
		CreditCount:       creditCount,
		DebitCount:        debitCount,
		TotalCredits:      credits,
		TotalDebits:       debits,
		NetAmount:         credits.Sub(debits).Round(2),
		DateRange:         &models.DateRange{StartDate: minDate, EndDate: maxDate},
	}
}
