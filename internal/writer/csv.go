package writer

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/maherduit/statement-parser/internal/models"
)

// column is one projected CSV column: its header, whether any record in
// the batch actually carries it, and how to render it for a record.
type column struct {
	name    string
	present func([]models.Transaction) bool
	value   func(models.Transaction) string
}

func always([]models.Transaction) bool { return true }

var accountColumns = []column{
	{"date", always, func(t models.Transaction) string { return t.Date.String() }},
	{"description", always, func(t models.Transaction) string { return t.Description }},
	{"amount", always, func(t models.Transaction) string { return t.Amount.StringFixed(2) }},
	{
		"balance",
		func(txns []models.Transaction) bool {
			for _, t := range txns {
				if t.Balance != nil {
					return true
				}
			}
			return false
		},
		func(t models.Transaction) string {
			if t.Balance == nil {
				return ""
			}
			return t.Balance.StringFixed(2)
		},
	},
	{"transaction_type", always, func(t models.Transaction) string { return string(t.Type) }},
}

var creditCardColumns = []column{
	{
		"posting_date",
		func(txns []models.Transaction) bool {
			for _, t := range txns {
				if t.PostingDate != nil {
					return true
				}
			}
			return false
		},
		func(t models.Transaction) string {
			if t.PostingDate == nil {
				return ""
			}
			return t.PostingDate.String()
		},
	},
	{"date", always, func(t models.Transaction) string { return t.Date.String() }},
	{"description", always, func(t models.Transaction) string { return t.Description }},
	{"amount", always, func(t models.Transaction) string { return t.Amount.StringFixed(2) }},
	{"transaction_type", always, func(t models.Transaction) string { return string(t.Type) }},
	{"card_type", anyString(func(t models.Transaction) string { return t.CardType }),
		func(t models.Transaction) string { return t.CardType }},
	{"card_number", anyString(func(t models.Transaction) string { return t.CardNumber }),
		func(t models.Transaction) string { return t.CardNumber }},
	{"notes", anyString(func(t models.Transaction) string { return t.Notes }),
		func(t models.Transaction) string { return t.Notes }},
	{"statement_date", anyString(func(t models.Transaction) string { return t.StatementDate }),
		func(t models.Transaction) string { return t.StatementDate }},
}

func anyString(get func(models.Transaction) string) func([]models.Transaction) bool {
	return func(txns []models.Transaction) bool {
		for _, t := range txns {
			if get(t) != "" {
				return true
			}
		}
		return false
	}
}

// GenerateCSV projects the record list onto the bank-dependent column
// order and serializes it with a header row. Columns no record carries are
// dropped. An empty record list yields an empty string.
func GenerateCSV(txns []models.Transaction, bank models.BankType) (string, error) {
	if len(txns) == 0 {
		return "", nil
	}

	candidates := accountColumns
	if bank == models.BankCreditCard {
		candidates = creditCardColumns
	}

	var cols []column
	for _, c := range candidates {
		if c.present(txns) {
			cols = append(cols, c)
		}
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(cols))
	for _, t := range txns {
		for i, c := range cols {
			row[i] = c.value(t)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.String(), nil
}
