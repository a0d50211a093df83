package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maherduit/statement-parser/internal/models"
)

// CreditCardParser handles Malaysian credit-card statements.
//
// Card statements differ from account statements in three ways: rows carry
// a posting date and a transaction date (both day/month only, completed
// from the statement year), several cards can share one statement (the
// active card context is re-detected as the scan moves down the document),
// and amounts are unsigned magnitudes with a trailing "CR" marking
// repayments. Amounts and foreign-currency notes frequently wrap onto the
// lines below the row that started the transaction.
type CreditCardParser struct {
	// SourceName is the uploaded file name; its first 4-digit run supplies
	// the statement year. Falls back to the current year, so statements
	// without a year in the name are parsed relative to the clock.
	SourceName string
}

func (p *CreditCardParser) Bank() models.BankType { return models.BankCreditCard }

var (
	ccTxnStart     = regexp.MustCompile(`^(\d{2}/\d{2})\s+(\d{2}/\d{2})\s+(.*)$`)
	ccTrailing     = regexp.MustCompile(`^(.*?)\s*([\d,]+\.\d{2})\s*(CR)?$`)
	ccBareAmount   = regexp.MustCompile(`^([\d,]+\.\d{2})\s*(CR)?$`)
	ccYearInName   = regexp.MustCompile(`\d{4}`)
	ccCardNumber   = regexp.MustCompile(`(?:[0-9Xx*]{4}[- ]){3}[0-9]{4}`)
	ccNameMarker   = regexp.MustCompile(`^[A-Z][A-Z '/.-]{4,39}$`)
	ccCurrencyCode = regexp.MustCompile(`\b(USD|SGD|EUR|GBP|AUD|JPY|CNY|THB|IDR)\b`)
	ccUSDRewrite   = regexp.MustCompile(`TRANSACTED AMOUNT\s+USD\s+([\d,]+(?:\.\d+)?)`)
)

var ccStatementDateLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)statement date\s*[:/]?\s*(\S.*)$`),
	regexp.MustCompile(`(?i)tarikh penyata\s*[:/]?\s*(\S.*)$`),
}

var ccBoilerplate = []string{
	"PAGE", "STATEMENT", "TOTAL", "MINIMUM", "PAYMENT DUE", "CREDIT LIMIT",
	"PLEASE", "SILA", "RETAIL INTEREST", "FINANCE CHARGE",
}

// ccEntry accumulates one card transaction while its amount and notes are
// being collected from the following lines.
type ccEntry struct {
	postingDate time.Time
	txnDate     time.Time
	desc        []string
	amount      decimal.Decimal // negative while a debit is in flight
	credit      bool
	hasAmount   bool
	notes       []string
	cardType    string
	cardNumber  string
}

func (e *ccEntry) appendDesc(s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		e.desc = append(e.desc, s)
	}
}

func (e *ccEntry) setAmount(raw, crMark string) {
	a, err := parseAmount(raw)
	if err != nil {
		return
	}
	if crMark == "CR" {
		e.credit = true
		e.amount = a
	} else {
		e.amount = a.Neg()
	}
	e.hasAmount = true
}

func (p *CreditCardParser) Parse(pages []string) ([]models.Transaction, error) {
	year := statementYear(p.SourceName)

	statementDate := ""
	if len(pages) > 0 {
		statementDate = findStatementDate(pageLines(pages[0]))
	}

	var entries []ccEntry
	cardType, cardNumber := "", ""
	inSection := false

	for _, page := range pages {
		lines := pageLines(page)

		for i := 0; i < len(lines); i++ {
			line := lines[i]

			// Card context switches can appear anywhere, including between
			// transaction sections of a multi-card statement.
			if ct, cn, ok := matchCardContext(lines, i); ok {
				cardType, cardNumber = ct, cn
				continue
			}

			if strings.Contains(line, "Posting Date /") ||
				strings.Contains(line, "Transaction Date /") {
				inSection = true
				continue
			}
			if strings.Contains(line, "TOTAL CREDIT THIS MONTH") ||
				strings.Contains(line, "SUB TOTAL/JUMLAH") {
				inSection = false
				continue
			}
			if !inSection {
				continue
			}

			m := ccTxnStart.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			posting, err := shortDate(m[1], year)
			if err != nil {
				continue
			}
			txnDate, err := shortDate(m[2], year)
			if err != nil {
				continue
			}

			entry := ccEntry{
				postingDate: posting,
				txnDate:     txnDate,
				cardType:    cardType,
				cardNumber:  cardNumber,
			}

			remainder := strings.TrimSpace(m[3])
			if am := ccTrailing.FindStringSubmatch(remainder); am != nil && am[2] != "" {
				entry.appendDesc(am[1])
				entry.setAmount(am[2], am[3])
			} else {
				entry.appendDesc(remainder)
				// Amount wrapped below: look at the next two lines.
				i += scanWrappedAmount(&entry, lines, i)
			}

			if entry.hasAmount {
				i += scanNotes(&entry, lines, i)
			}

			entries = append(entries, entry)
		}
	}

	return finalizeCreditCard(entries, statementDate), nil
}

// scanWrappedAmount looks up to two lines ahead for a bare amount token,
// appending any skipped line to the description. It returns how many lines
// were consumed.
func scanWrappedAmount(entry *ccEntry, lines []string, i int) int {
	for j := 1; j <= 2 && i+j < len(lines); j++ {
		next := lines[i+j]
		if ccTxnStart.MatchString(next) || isCCSectionBoundary(next) {
			return j - 1
		}
		if am := ccBareAmount.FindStringSubmatch(next); am != nil {
			entry.setAmount(am[1], am[2])
			return j
		}
		entry.appendDesc(next)
	}
	return 0
}

// scanNotes collects up to three annotation lines below a completed
// transaction: foreign-currency details and other free text that belongs
// to the row above. Scanning stops at the first line that looks like a new
// transaction, a section boundary, or boilerplate.
func scanNotes(entry *ccEntry, lines []string, i int) int {
	consumed := 0
	for j := 1; j <= 3 && i+j < len(lines); j++ {
		next := lines[i+j]
		if ccTxnStart.MatchString(next) || isCCSectionBoundary(next) ||
			ccBareAmount.MatchString(next) {
			break
		}
		if !isCCNote(next) {
			break
		}
		entry.notes = append(entry.notes, next)
		consumed = j
	}
	return consumed
}

func isCCNote(line string) bool {
	if line == "" {
		return false
	}
	if strings.Contains(line, "TRANSACTED AMOUNT") ||
		strings.Contains(line, "EXCHANGE RATE") ||
		ccCurrencyCode.MatchString(line) {
		return true
	}
	if len(line) <= 10 {
		return false
	}
	upper := strings.ToUpper(line)
	for _, phrase := range ccBoilerplate {
		if strings.Contains(upper, phrase) {
			return false
		}
	}
	return true
}

func isCCSectionBoundary(line string) bool {
	return strings.Contains(line, "Posting Date /") ||
		strings.Contains(line, "Transaction Date /") ||
		strings.Contains(line, "TOTAL CREDIT THIS MONTH") ||
		strings.Contains(line, "SUB TOTAL/JUMLAH")
}

// matchCardContext checks whether the line at i is a cardholder-name
// marker with a card number printed within the next few lines. The card
// type comes from whichever network keyword appears in that window.
func matchCardContext(lines []string, i int) (cardType, cardNumber string, ok bool) {
	if !ccNameMarker.MatchString(lines[i]) {
		return "", "", false
	}
	for j := 1; j <= 4 && i+j < len(lines); j++ {
		window := lines[i+j]
		num := ccCardNumber.FindString(window)
		if num == "" {
			continue
		}
		cardType = cardTypeFromLabel(lines[i : i+j+1])
		return cardType, num, true
	}
	return "", "", false
}

func cardTypeFromLabel(window []string) string {
	joined := strings.ToUpper(strings.Join(window, " "))
	switch {
	case strings.Contains(joined, "MASTERCARD"), strings.Contains(joined, "MASTER CARD"):
		return "MASTERCARD"
	case strings.Contains(joined, "VISA"):
		return "VISA"
	case strings.Contains(joined, "AMERICAN EXPRESS"), strings.Contains(joined, "AMEX"):
		return "AMEX"
	}
	return ""
}

// statementYear pulls the statement year out of the source file name
// (first 4-digit run), defaulting to the current year.
func statementYear(name string) int {
	if m := ccYearInName.FindString(name); m != "" {
		var year int
		fmt.Sscanf(m, "%d", &year)
		return year
	}
	return time.Now().Year()
}

// findStatementDate returns the raw value printed after the statement
// date label on the first page, or "".
func findStatementDate(lines []string) string {
	for _, line := range lines {
		for _, re := range ccStatementDateLabels {
			if m := re.FindStringSubmatch(line); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

// shortDate completes a DD/MM token with the statement year.
func shortDate(s string, year int) (time.Time, error) {
	return time.Parse("02/01/2006", fmt.Sprintf("%s/%d", s, year))
}

// finalizeCreditCard drops entries that never found an amount and builds
// the final records: unsigned magnitudes with an explicit type, and the
// verbose foreign-currency annotation compacted.
func finalizeCreditCard(entries []ccEntry, statementDate string) []models.Transaction {
	var txns []models.Transaction
	for _, e := range entries {
		if !e.hasAmount {
			continue
		}

		desc := collapseSpaces(strings.Join(e.desc, " "))
		desc = ccUSDRewrite.ReplaceAllString(desc, "(USD $1)")

		txType := models.Debit
		if e.credit {
			txType = models.Credit
		}

		posting := models.Date{Time: e.postingDate}
		txns = append(txns, models.Transaction{
			Date:          models.Date{Time: e.txnDate},
			PostingDate:   &posting,
			Description:   desc,
			Amount:        e.amount.Abs(),
			Type:          txType,
			Bank:          models.BankCreditCard,
			CardType:      e.cardType,
			CardNumber:    e.cardNumber,
			Notes:         strings.Join(e.notes, "; "),
			StatementDate: statementDate,
		})
	}
	return txns
}
