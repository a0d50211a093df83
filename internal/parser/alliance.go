package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maherduit/statement-parser/internal/models"
)

// AllianceParser handles Alliance Bank account statements.
//
// Alliance is the least regular of the supported layouts: date formats,
// column counts, and header wording all vary between statement revisions,
// so the parser works through ordered fallback patterns. Dates come in
// three shapes (DD/MM/YYYY, all-digit DDMMYY, "DD Mon YYYY") and the
// amount columns in four, from a full description/amount/balance/CR row
// down to a lone amount. A row that finds its amounts stays open so that
// trailing descriptive lines still extend it.
type AllianceParser struct{}

func (p *AllianceParser) Bank() models.BankType { return models.BankAlliance }

var allianceHeaderPhrases = []string{
	"Date Description Amount Balance",
	"Tarikh Keterangan Jumlah Baki",
	"Date Transaction Details Withdrawal Deposit Balance",
	"Tarikh Butiran Urusniaga Pengeluaran Deposit Baki",
}

// Date shapes tried in order against the start of a line.
var allianceDatePatterns = []struct {
	re    *regexp.Regexp
	parse func(string) (time.Time, error)
}{
	{regexp.MustCompile(`^(\d{2}/\d{2}/(?:\d{4}|\d{2}))\s*(.*)$`), parseDMY},
	{regexp.MustCompile(`^(\d{6,8})\b\s*(.*)$`), parseCompactDate},
	{regexp.MustCompile(`(?i)^(\d{1,2} (?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) \d{4})\s*(.*)$`), parseMonthName},
}

func parseMonthName(s string) (time.Time, error) {
	return time.Parse("2 Jan 2006", s)
}

// Amount shapes tried in order; the ordering is load-bearing and must not
// be rearranged.
var allianceAmountPatterns = []struct {
	re    *regexp.Regexp
	apply func(*allianceRow, []string)
}{
	{
		// description, amount, balance, optional CR/DR marker
		regexp.MustCompile(`^(.*?)\s*([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*(CR|DR)?$`),
		func(r *allianceRow, m []string) {
			r.appendDesc(m[1])
			r.setAmount(m[2])
			r.setBalance(m[3])
			if m[4] == "CR" {
				r.credit = true
			}
		},
	},
	{
		// description, withdrawal, deposit, balance
		regexp.MustCompile(`^(.*?)\s*([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`),
		func(r *allianceRow, m []string) {
			r.appendDesc(m[1])
			if dep, err := parseAmount(m[3]); err == nil && dep.IsPositive() {
				r.amount = dep
				r.hasAmounts = true
				r.credit = true
			} else {
				r.setAmount(m[2])
			}
			r.setBalance(m[4])
		},
	},
	{
		// description, amount, balance
		regexp.MustCompile(`^(.*?)\s*([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`),
		func(r *allianceRow, m []string) {
			r.appendDesc(m[1])
			r.setAmount(m[2])
			r.setBalance(m[3])
		},
	},
	{
		// lone amount
		regexp.MustCompile(`^(.*?)\s*([\d,]+\.\d{2})$`),
		func(r *allianceRow, m []string) {
			r.appendDesc(m[1])
			r.setAmount(m[2])
		},
	},
}

// Boilerplate lines that must not become continuation text.
var allianceSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^CR$`),
	regexp.MustCompile(`^DR$`),
	regexp.MustCompile(`^\(RM\)$`),
	regexp.MustCompile(`(?i)^page \d+( of \d+)?$`),
	regexp.MustCompile(`^\d+\s*/\s*\d+$`),
}

type allianceRow struct {
	date       time.Time
	desc       []string
	amount     decimal.Decimal
	balance    *decimal.Decimal
	hasAmounts bool
	credit     bool
}

func (r *allianceRow) appendDesc(s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		r.desc = append(r.desc, s)
	}
}

func (r *allianceRow) setAmount(s string) {
	if a, err := parseAmount(s); err == nil {
		r.amount = a
		r.hasAmounts = true
	}
}

func (r *allianceRow) setBalance(s string) {
	if b, err := parseAmount(s); err == nil {
		r.balance = &b
	}
}

func (p *AllianceParser) Parse(pages []string) ([]models.Transaction, error) {
	var rows []allianceRow

	for _, page := range pages {
		inSection := false
		var open *allianceRow

		flush := func() {
			if open != nil {
				rows = append(rows, *open)
				open = nil
			}
		}

		for _, line := range pageLines(page) {
			if isAllianceHeader(line) {
				inSection = true
				continue
			}
			if isSectionEnd(line) {
				flush()
				inSection = false
				continue
			}
			if !inSection || line == "" {
				continue
			}
			if isAllianceSkipLine(line) {
				continue
			}

			if date, remainder, ok := matchAllianceDate(line); ok {
				flush()
				open = &allianceRow{date: date}
				if !applyAllianceAmounts(open, remainder) {
					open.appendDesc(remainder)
				}
				if containsCRMarker(line) {
					open.credit = true
				}
				continue
			}

			if open == nil {
				continue
			}

			if !open.hasAmounts {
				// Still hunting for the amount columns.
				if applyAllianceAmounts(open, line) {
					if containsCRMarker(line) {
						open.credit = true
					}
					continue
				}
			}
			// Trailing descriptive text after the amount line.
			open.appendDesc(line)
		}

		flush()
	}

	return finalizeAlliance(rows), nil
}

// matchAllianceDate tries the three date shapes in order and returns the
// parsed date plus the rest of the line.
func matchAllianceDate(line string) (time.Time, string, bool) {
	for _, dp := range allianceDatePatterns {
		m := dp.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := dp.parse(m[1])
		if err != nil {
			continue
		}
		return date, strings.TrimSpace(m[2]), true
	}
	return time.Time{}, "", false
}

// applyAllianceAmounts runs the ordered amount patterns against a line
// fragment; the first match fills the row and wins.
func applyAllianceAmounts(row *allianceRow, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, ap := range allianceAmountPatterns {
		if m := ap.re.FindStringSubmatch(s); m != nil {
			ap.apply(row, m)
			if row.hasAmounts {
				return true
			}
		}
	}
	return false
}

// containsCRMarker reports whether a line carries the literal credit
// marker. Alliance prints it as an uppercase suffix.
func containsCRMarker(line string) bool {
	return strings.Contains(strings.ToUpper(line), "CR")
}

func isAllianceHeader(line string) bool {
	for _, phrase := range allianceHeaderPhrases {
		if line == phrase {
			return true
		}
	}
	return strings.Contains(line, "Date") &&
		(strings.Contains(line, "Transaction") ||
			strings.Contains(line, "Amount") ||
			strings.Contains(line, "Balance") ||
			strings.Contains(line, "Description"))
}

func isAllianceSkipLine(line string) bool {
	for _, re := range allianceSkipPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// finalizeAlliance keeps rows that found amounts, trims their text, and
// re-asserts the sign convention: debits negative, credits positive.
func finalizeAlliance(rows []allianceRow) []models.Transaction {
	var txns []models.Transaction
	for _, row := range rows {
		if !row.hasAmounts {
			continue
		}

		txType := models.Debit
		amount := row.amount.Abs().Neg()
		if row.credit {
			txType = models.Credit
			amount = row.amount.Abs()
		}

		txns = append(txns, models.Transaction{
			Date:        models.Date{Time: row.date},
			Description: collapseSpaces(strings.Join(row.desc, " ")),
			Amount:      amount,
			Balance:     row.balance,
			Type:        txType,
			Bank:        models.BankAlliance,
		})
	}
	return txns
}
