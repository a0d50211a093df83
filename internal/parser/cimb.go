package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maherduit/statement-parser/internal/models"
)

// CIMBParser handles CIMB current/savings account statements.
//
// The layout is a multi-line table. A row starts with a DD/MM/YYYY date;
// the amount and running balance appear as the two trailing decimals either
// on the same line or on a later continuation line. An 8+ character
// alphanumeric token just before the amounts is the cheque/reference
// number. Debit or credit direction is not printed: it is inferred after
// the scan from balance deltas between consecutive rows.
type CIMBParser struct{}

func (p *CIMBParser) Bank() models.BankType { return models.BankCIMB }

// Bilingual table headers matched exactly, plus the keyword fallback used
// for layout revisions that reword the header.
var cimbHeaderPhrases = []string{
	"Date Description Cheque / Ref No Amount Balance",
	"Tarikh Keterangan No Cek / Ruj Jumlah Baki",
}

var (
	cimbTxnStart        = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s*(.*)$`)
	cimbTrailingAmounts = regexp.MustCompile(`^(.*?)\s*([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`)
	// Cheque/reference token: 8+ alphanumerics with at least one digit,
	// so plain uppercase description words are not swallowed.
	cimbRefToken     = regexp.MustCompile(`([A-Za-z]*\d[A-Za-z0-9]*)$`)
	cimbChequeDigits = regexp.MustCompile(`^\d{1,8}$`)
)

// cimbRow accumulates one table row while the scanner walks its lines.
// It is promoted to a Transaction at finalization, or dropped if the
// trailing amounts never showed up.
type cimbRow struct {
	date       time.Time
	desc       []string
	chequeNo   string
	amount     decimal.Decimal
	balance    decimal.Decimal
	inProgress bool // still waiting for the trailing amount pair
}

func (r *cimbRow) appendDesc(s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		r.desc = append(r.desc, s)
	}
}

func (p *CIMBParser) Parse(pages []string) ([]models.Transaction, error) {
	var rows []cimbRow

	for _, page := range pages {
		inSection := false
		var open *cimbRow

		flush := func() {
			if open != nil {
				rows = append(rows, *open)
				open = nil
			}
		}

		for _, line := range pageLines(page) {
			if isCIMBHeader(line) {
				inSection = true
				continue
			}
			if isCIMBUnitsLine(line) {
				continue
			}
			if isSectionEnd(line) {
				flush()
				inSection = false
				continue
			}
			if !inSection {
				continue
			}

			if m := cimbTxnStart.FindStringSubmatch(line); m != nil {
				date, err := parseDMY(m[1])
				if err != nil {
					continue
				}
				flush()
				open = &cimbRow{date: date, inProgress: true}
				p.consumeRemainder(open, m[2])
				continue
			}

			if open == nil {
				continue
			}

			// Continuation line for the open row.
			if line == "" || strings.Contains(line, "PRIVATE TRANSACTION") {
				continue
			}
			if open.inProgress {
				if p.tryTrailingAmounts(open, line) {
					continue
				}
				if open.chequeNo != "" && cimbChequeDigits.MatchString(line) {
					// Cheque number split across lines.
					open.chequeNo += line
					continue
				}
			}
			open.appendDesc(line)
		}

		flush()
	}

	return finalizeCIMB(rows), nil
}

// consumeRemainder parses the text after the date on a transaction-start
// line. With the trailing amount pair present the row completes inline;
// otherwise the remainder seeds the description.
func (p *CIMBParser) consumeRemainder(row *cimbRow, remainder string) {
	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return
	}
	if p.tryTrailingAmounts(row, remainder) {
		return
	}
	row.appendDesc(remainder)
}

// tryTrailingAmounts matches "... amount balance" at the end of a line.
// On success it fills the row's amounts, splits off a cheque/reference
// token if one precedes them, and appends any leading text to the
// description.
func (p *CIMBParser) tryTrailingAmounts(row *cimbRow, line string) bool {
	m := cimbTrailingAmounts.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	amount, err := parseAmount(m[2])
	if err != nil {
		return false
	}
	balance, err := parseAmount(m[3])
	if err != nil {
		return false
	}

	head := strings.TrimSpace(m[1])
	if ref := cimbRefToken.FindString(head); len(ref) >= 8 {
		row.chequeNo = ref
		head = strings.TrimSpace(strings.TrimSuffix(head, ref))
	}
	row.appendDesc(head)

	row.amount = amount
	row.balance = balance
	row.inProgress = false
	return true
}

func isCIMBHeader(line string) bool {
	for _, phrase := range cimbHeaderPhrases {
		if line == phrase {
			return true
		}
	}
	return strings.Contains(line, "Date") &&
		strings.Contains(line, "Description") &&
		(strings.Contains(line, "Amount") || strings.Contains(line, "Balance"))
}

// isCIMBUnitsLine matches the "(RM) (RM) (RM) (RM)" units row printed
// directly under the table header.
func isCIMBUnitsLine(line string) bool {
	if !strings.Contains(line, "(RM)") {
		return false
	}
	return strings.TrimSpace(strings.ReplaceAll(line, "(RM)", "")) == ""
}

// finalizeCIMB drops rows that never found their amounts, then infers
// debit/credit from balance deltas. The first row compares its balance to
// balance-minus-amount; every later row compares against the previous
// row's printed balance, so one missing or out-of-order balance skews the
// rest of the chain. That fragility is inherent to the layout: CIMB
// prints no direction marker at all.
func finalizeCIMB(rows []cimbRow) []models.Transaction {
	var txns []models.Transaction
	var prevBalance decimal.Decimal

	for _, row := range rows {
		if row.inProgress {
			continue
		}

		amount := row.amount
		var txType models.TransactionType
		if len(txns) == 0 {
			if row.balance.GreaterThan(row.balance.Sub(amount)) {
				txType = models.Credit
			} else {
				txType = models.Debit
				amount = amount.Neg()
			}
		} else {
			if row.balance.GreaterThan(prevBalance) {
				txType = models.Credit
				amount = amount.Abs()
			} else {
				txType = models.Debit
				amount = amount.Abs().Neg()
			}
		}
		prevBalance = row.balance

		bal := row.balance
		txns = append(txns, models.Transaction{
			Date:        models.Date{Time: row.date},
			Description: collapseSpaces(strings.Join(row.desc, " ")),
			Amount:      amount,
			Balance:     &bal,
			Type:        txType,
			Bank:        models.BankCIMB,
			ChequeNo:    row.chequeNo,
		})
	}

	return txns
}
