package writer

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maherduit/statement-parser/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestGenerateCSV_AccountColumns(t *testing.T) {
	txns := []models.Transaction{
		{
			Date:        models.NewDate(2024, time.January, 1),
			Description: "SALARY",
			Amount:      dec("100.00"),
			Balance:     decPtr("500.00"),
			Type:        models.Debit,
			Bank:        models.BankMaybank,
		},
		{
			Date:        models.NewDate(2024, time.January, 2),
			Description: "TRANSFER, RENT",
			Amount:      dec("-250.00"),
			Balance:     decPtr("250.00"),
			Type:        models.Debit,
			Bank:        models.BankMaybank,
		},
	}

	out, err := GenerateCSV(txns, models.BankMaybank)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"date", "description", "amount", "balance", "transaction_type"}, records[0])
	assert.Equal(t, []string{"2024-01-01", "SALARY", "100.00", "500.00", "debit"}, records[1])
	// Embedded comma survives the round trip.
	assert.Equal(t, "TRANSFER, RENT", records[2][1])
	assert.Equal(t, "-250.00", records[2][2])
}

func TestGenerateCSV_BalanceColumnDroppedWhenAbsent(t *testing.T) {
	txns := []models.Transaction{
		{
			Date:        models.NewDate(2024, time.March, 5),
			Description: "SERVICE CHARGE",
			Amount:      dec("-10.00"),
			Type:        models.Debit,
			Bank:        models.BankAlliance,
		},
	}

	out, err := GenerateCSV(txns, models.BankAlliance)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "description", "amount", "transaction_type"}, records[0])
}

func TestGenerateCSV_CreditCardColumns(t *testing.T) {
	posting := models.NewDate(2024, time.February, 1)
	txns := []models.Transaction{
		{
			Date:          models.NewDate(2024, time.February, 3),
			PostingDate:   &posting,
			Description:   "ONLINE PURCHASE",
			Amount:        dec("25.50"),
			Type:          models.Debit,
			Bank:          models.BankCreditCard,
			CardType:      "VISA",
			CardNumber:    "4520-1234-5678-9012",
			Notes:         "TRANSACTED AMOUNT USD 5.99",
			StatementDate: "15/02/2024",
		},
	}

	out, err := GenerateCSV(txns, models.BankCreditCard)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"posting_date", "date", "description", "amount", "transaction_type",
		"card_type", "card_number", "notes", "statement_date",
	}, records[0])
	assert.Equal(t, []string{
		"2024-02-01", "2024-02-03", "ONLINE PURCHASE", "25.50", "debit",
		"VISA", "4520-1234-5678-9012", "TRANSACTED AMOUNT USD 5.99", "15/02/2024",
	}, records[1])
}

func TestGenerateCSV_CreditCardOptionalColumnsDropped(t *testing.T) {
	txns := []models.Transaction{
		{
			Date:        models.NewDate(2024, time.February, 3),
			Description: "PURCHASE",
			Amount:      dec("10.00"),
			Type:        models.Debit,
			Bank:        models.BankCreditCard,
		},
	}

	out, err := GenerateCSV(txns, models.BankCreditCard)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "description", "amount", "transaction_type"}, records[0])
}

func TestGenerateCSV_Empty(t *testing.T) {
	out, err := GenerateCSV(nil, models.BankMaybank)
	require.NoError(t, err)
	assert.Empty(t, out)
}
