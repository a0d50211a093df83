package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankType identifies which statement layout a record came from.
type BankType string

const (
	BankMaybank    BankType = "maybank"
	BankCIMB       BankType = "cimb"
	BankAlliance   BankType = "alliance"
	BankCreditCard BankType = "credit_card"
)

// ParseBankType maps a caller-supplied hint to a supported bank type.
// The second return value reports whether the hint was recognized.
func ParseBankType(s string) (BankType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "maybank", "malayan banking":
		return BankMaybank, true
	case "cimb":
		return BankCIMB, true
	case "alliance":
		return BankAlliance, true
	case "credit_card", "credit-card", "creditcard":
		return BankCreditCard, true
	}
	return "", false
}

// TransactionType marks the direction of a transaction.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// Date is a calendar date that marshals as ISO 8601 (YYYY-MM-DD).
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Transaction is a single normalized statement record.
//
// Sign convention: negative amount = debit/outflow, positive = credit/inflow.
// Credit-card records are the exception: they carry an unsigned magnitude
// plus an explicit transaction type.
type Transaction struct {
	Date        Date             `json:"date"`
	PostingDate *Date            `json:"posting_date,omitempty"` // credit card only
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Balance     *decimal.Decimal `json:"balance,omitempty"` // absent for some Alliance records
	Type        TransactionType  `json:"transaction_type"`
	Bank        BankType         `json:"bank"`

	// Bank-specific optional fields.
	ChequeNo      string `json:"cheque_no,omitempty"` // CIMB
	CardType      string `json:"card_type,omitempty"`
	CardNumber    string `json:"card_number,omitempty"`
	Notes         string `json:"notes,omitempty"`
	StatementDate string `json:"statement_date,omitempty"`
}
