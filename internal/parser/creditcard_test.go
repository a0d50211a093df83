package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maherduit/statement-parser/internal/models"
)

func TestCreditCardParser_WrappedAmountAndNotes(t *testing.T) {
	p := &CreditCardParser{SourceName: "statement_2024.pdf"}

	pages := []string{
		`Statement Date : 15/02/2024
Posting Date / Transaction Date
01/02 03/02 ONLINE PURCHASE AMAZON.COM
25.50
TRANSACTED AMOUNT USD 5.99
TOTAL CREDIT THIS MONTH`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, "25.50", txn.Amount.StringFixed(2))
	assert.Equal(t, models.Debit, txn.Type)
	assert.Contains(t, txn.Notes, "TRANSACTED AMOUNT USD 5.99")
	assert.Equal(t, "ONLINE PURCHASE AMAZON.COM", txn.Description)

	require.NotNil(t, txn.PostingDate)
	assert.Equal(t, "2024-02-01", txn.PostingDate.String())
	assert.Equal(t, "2024-02-03", txn.Date.String())
	assert.Equal(t, "15/02/2024", txn.StatementDate)
}

func TestCreditCardParser_CRMarkerIsRepayment(t *testing.T) {
	p := &CreditCardParser{SourceName: "statement_2024.pdf"}

	pages := []string{
		`Posting Date / Transaction Date
05/02 05/02 PAYMENT RECEIVED - THANK YOU 500.00 CR
06/02 06/02 GRAB RIDES KUALA LUMPUR 18.40
SUB TOTAL/JUMLAH`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, models.Credit, txns[0].Type)
	assert.Equal(t, "500.00", txns[0].Amount.StringFixed(2))

	assert.Equal(t, models.Debit, txns[1].Type)
	assert.Equal(t, "18.40", txns[1].Amount.StringFixed(2))
}

func TestCreditCardParser_CardContext(t *testing.T) {
	p := &CreditCardParser{SourceName: "card_2024_03.pdf"}

	pages := []string{
		`JOHN DOE A/L JANE
VISA GOLD 4520-1234-5678-9012
Posting Date / Transaction Date
01/03 01/03 PETRONAS STATION 80.00
TOTAL CREDIT THIS MONTH`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "VISA", txns[0].CardType)
	assert.Equal(t, "4520-1234-5678-9012", txns[0].CardNumber)
	assert.Equal(t, models.BankCreditCard, txns[0].Bank)
}

func TestCreditCardParser_MultiCardContextSwitch(t *testing.T) {
	p := &CreditCardParser{SourceName: "statement_2024.pdf"}

	pages := []string{
		`AHMAD BIN ABU
MASTERCARD PLATINUM 5234-0000-1111-2222
Posting Date / Transaction Date
02/04 02/04 SHOPEE PURCHASE 45.00
TOTAL CREDIT THIS MONTH
SITI BINTI ALI
VISA CLASSIC 4111-2222-3333-4444
Posting Date / Transaction Date
03/04 03/04 TNG RELOAD 100.00
TOTAL CREDIT THIS MONTH`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "MASTERCARD", txns[0].CardType)
	assert.Equal(t, "5234-0000-1111-2222", txns[0].CardNumber)
	assert.Equal(t, "VISA", txns[1].CardType)
	assert.Equal(t, "4111-2222-3333-4444", txns[1].CardNumber)
}

func TestCreditCardParser_USDAnnotationRewrite(t *testing.T) {
	p := &CreditCardParser{SourceName: "statement_2024.pdf"}

	pages := []string{
		`Posting Date / Transaction Date
10/04 12/04 NETFLIX.COM TRANSACTED AMOUNT USD 15.99 69.90
TOTAL CREDIT THIS MONTH`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "NETFLIX.COM (USD 15.99)", txns[0].Description)
	assert.Equal(t, "69.90", txns[0].Amount.StringFixed(2))
}

func TestCreditCardParser_EntriesWithoutAmountDropped(t *testing.T) {
	p := &CreditCardParser{SourceName: "statement_2024.pdf"}

	pages := []string{
		`Posting Date / Transaction Date
20/04 20/04 DANGLING ENTRY NO AMOUNT ANYWHERE
TOTAL CREDIT THIS MONTH`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestStatementYear(t *testing.T) {
	assert.Equal(t, 2024, statementYear("statement_2024.pdf"))
	assert.Equal(t, 2023, statementYear("maybank-cc-2023-11.pdf"))
	// No year in the name falls back to the clock; just check it is sane.
	assert.GreaterOrEqual(t, statementYear("statement.pdf"), 2024)
}
