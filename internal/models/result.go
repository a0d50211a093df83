package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DateRange is the span of transaction dates in a parsed document.
type DateRange struct {
	StartDate Date `json:"start_date"`
	EndDate   Date `json:"end_date"`
}

// Summary holds aggregate statistics for one parsed document.
type Summary struct {
	TotalTransactions int             `json:"total_transactions"`
	CreditCount       int             `json:"credit_count"`
	DebitCount        int             `json:"debit_count"`
	TotalCredits      decimal.Decimal `json:"total_credits"`
	TotalDebits       decimal.Decimal `json:"total_debits"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	DateRange         *DateRange      `json:"date_range,omitempty"`
}

// IsEmpty reports whether the summary was built from zero transactions.
func (s Summary) IsEmpty() bool {
	return s.TotalTransactions == 0
}

// MarshalJSON renders an empty summary as {} rather than a struct
// full of zero values.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return []byte("{}"), nil
	}
	type alias Summary
	return json.Marshal(alias(s))
}

// Result is the outcome of processing one document. A failure carries an
// Error string and empty transactions/CSV; zero transactions with no error
// is a valid, successful outcome.
type Result struct {
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
	BankType       BankType      `json:"bank_type,omitempty"`
	Transactions   []Transaction `json:"transactions"`
	CSV            string        `json:"csv_content,omitempty"`
	Summary        Summary       `json:"summary"`
	ProcessingTime float64       `json:"processing_time"`
}
