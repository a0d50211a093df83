package parser

import (
	"regexp"
	"strings"

	"github.com/maherduit/statement-parser/internal/models"
)

// MaybankParser handles Maybank/MAE savings and current account statements.
//
// The layout is single-line: every transaction prints its date, amount,
// running balance, and description on one row inside the bilingual
// "URUSNIAGA AKAUN / ACCOUNT TRANSACTIONS" section.
//
//	01/01/2024  100.00  5,100.00  SALARY CREDIT
type MaybankParser struct{}

func (p *MaybankParser) Bank() models.BankType { return models.BankMaybank }

// Date, amount, balance, then whatever remains is the description.
var maybankTxnPattern = regexp.MustCompile(
	`(\d{2}/\d{2}/\d{4}).*?([\d,]+\.\d{2}).*?([\d,]+\.\d{2})(.+)`)

var maybankDatePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

func (p *MaybankParser) Parse(pages []string) ([]models.Transaction, error) {
	var transactions []models.Transaction

	for _, page := range pages {
		inSection := false
		pending := "" // one held-back fragment, prefixed to the next line only

		for _, line := range pageLines(page) {
			if strings.Contains(line, "URUSNIAGA AKAUN") ||
				strings.Contains(line, "ACCOUNT TRANSACTIONS") {
				inSection = true
				continue
			}
			if isSectionEnd(line) {
				inSection = false
				continue
			}
			if !inSection {
				continue
			}

			if pending != "" {
				line = pending + " " + line
				pending = ""
			}

			m := maybankTxnPattern.FindStringSubmatch(line)
			if m == nil {
				// Hold a dateless fragment so a row split across two
				// extracted lines still parses on the next pass.
				if line != "" && !maybankDatePattern.MatchString(line) {
					pending = line
				}
				continue
			}

			date, err := parseDMY(m[1])
			if err != nil {
				continue
			}
			amount, err := parseAmount(m[2])
			if err != nil {
				continue
			}
			balance, err := parseAmount(m[3])
			if err != nil {
				continue
			}

			// Maybank amounts are taken as printed: a positive match is
			// treated as a debit. This mirrors the statement convention
			// and deliberately skips balance-delta inference.
			txType := models.Credit
			if amount.IsPositive() {
				txType = models.Debit
			}

			bal := balance
			transactions = append(transactions, models.Transaction{
				Date:        models.Date{Time: date},
				Description: strings.TrimSpace(m[4]),
				Amount:      amount,
				Balance:     &bal,
				Type:        txType,
				Bank:        models.BankMaybank,
			})
		}
	}

	return finalizeMaybank(transactions), nil
}

// finalizeMaybank trims description text. Maybank records are created
// fully formed, so no sign inference happens here.
func finalizeMaybank(txns []models.Transaction) []models.Transaction {
	out := txns[:0]
	for _, t := range txns {
		t.Description = collapseSpaces(t.Description)
		if t.Description == "" && t.Amount.IsZero() {
			continue
		}
		out = append(out, t)
	}
	return out
}
