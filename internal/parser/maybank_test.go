package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maherduit/statement-parser/internal/models"
)

func TestMaybankParser_Parse(t *testing.T) {
	p := &MaybankParser{}

	pages := []string{
		`MALAYAN BANKING BERHAD
URUSNIAGA AKAUN
01/01/2024 100.00 500.00 SALARY
ENDING BALANCE`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, "2024-01-01", txn.Date.String())
	assert.Equal(t, "SALARY", txn.Description)
	assert.Equal(t, "100.00", txn.Amount.StringFixed(2))
	require.NotNil(t, txn.Balance)
	assert.Equal(t, "500.00", txn.Balance.StringFixed(2))
	assert.Equal(t, models.BankMaybank, txn.Bank)
	// Positive printed amounts are debits on this layout, even for rows
	// that read like inflows.
	assert.Equal(t, models.Debit, txn.Type)
}

func TestMaybankParser_MultipleRows(t *testing.T) {
	p := &MaybankParser{}

	pages := []string{
		`URUSNIAGA AKAUN
02/01/2024 1,250.50 4,750.50 ATM WITHDRAWAL KL SENTRAL
03/01/2024 85.90 4,664.60 POS PURCHASE TESCO EXTRA
ENDING BALANCE 4,664.60`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "1250.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "ATM WITHDRAWAL KL SENTRAL", txns[0].Description)
	assert.Equal(t, "POS PURCHASE TESCO EXTRA", txns[1].Description)
	assert.Equal(t, "4664.60", txns[1].Balance.StringFixed(2))
}

func TestMaybankParser_IgnoresTextOutsideSection(t *testing.T) {
	p := &MaybankParser{}

	pages := []string{
		`Account summary
01/01/2024 999.99 999.99 SHOULD NOT APPEAR
URUSNIAGA AKAUN
05/01/2024 50.00 450.00 SERVICE CHARGE
ENDING BALANCE
06/01/2024 75.00 375.00 AFTER END ALSO IGNORED`,
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "SERVICE CHARGE", txns[0].Description)
}

func TestMaybankParser_SectionResetsPerPage(t *testing.T) {
	p := &MaybankParser{}

	// The section flag does not carry over: page two never re-opens the
	// transaction section, so its rows are skipped.
	pages := []string{
		"ACCOUNT TRANSACTIONS\n01/01/2024 10.00 100.00 FIRST PAGE ROW",
		"02/01/2024 20.00 80.00 SECOND PAGE ROW WITHOUT HEADER",
	}

	txns, err := p.Parse(pages)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "FIRST PAGE ROW", txns[0].Description)
}

func TestMaybankParser_EmptyDocument(t *testing.T) {
	p := &MaybankParser{}

	txns, err := p.Parse([]string{"no transaction markers anywhere"})
	require.NoError(t, err)
	assert.Empty(t, txns)
}
