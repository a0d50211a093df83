package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount token as printed on Malaysian statements: 1,234.56 or 12.00,
// optionally prefixed with the RM currency marker.
var amountPattern = regexp.MustCompile(`(?:RM\s*)?([\d,]+\.\d{2})`)

// parseAmount converts a statement amount string like "1,234.56" or
// "RM 1,234.56" into a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "RM")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "")
	if s == "" || s == "-" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// parseDMY parses DD/MM/YYYY or DD/MM/YY dates. Two-digit years are
// assumed to fall in 2000-2099, matching how the statements print them.
func parseDMY(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t, nil
	}
	t, err := time.Parse("02/01/06", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// parseCompactDate parses the all-digit DDMMYY or DDMMYYYY form used by
// Alliance statements.
func parseCompactDate(s string) (time.Time, error) {
	switch len(s) {
	case 6:
		return time.Parse("020106", s)
	case 8:
		return time.Parse("02012006", s)
	}
	return time.Time{}, fmt.Errorf("compact date %q: want 6 or 8 digits", s)
}

// isSectionEnd reports whether a line closes a transaction section.
func isSectionEnd(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "ENDING BALANCE") ||
		strings.Contains(upper, "BAKI AKHIR") ||
		strings.Contains(upper, "CLOSING BALANCE")
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	return strings.TrimSpace(line)
}

// pageLines splits a page text into trimmed lines.
func pageLines(page string) []string {
	raw := strings.Split(page, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, normalizeLine(l))
	}
	return lines
}

// collapseSpaces squashes runs of whitespace inside description text.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
