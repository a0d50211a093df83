package parser

import (
	"strings"

	"github.com/maherduit/statement-parser/internal/models"
)

// Strong credit-card indicators. These are checked before bank-name
// keywords: a card statement usually also names the issuing bank, so the
// ordering is a precedence policy, not an accident.
var creditCardIndicators = []string{
	"statement of credit card account",
	"penyata akaun kad kredit",
	"penyata kad kredit",
	"tax invoice",
	"invois cukai",
	"gst registration no",
}

var bankKeywords = []struct {
	keyword string
	bank    models.BankType
}{
	{"maybank", models.BankMaybank},
	{"malayan banking", models.BankMaybank},
	{"maybank islamic", models.BankMaybank},
	{"cimb", models.BankCIMB},
	{"commerce international", models.BankCIMB},
	{"alliance bank", models.BankAlliance},
	{"alliance", models.BankAlliance},
}

// Detect identifies the bank type from the full extracted text of a
// document. It is a pure function of the lower-cased text: ordered rules,
// first match wins, defaulting to Maybank when nothing matches.
func Detect(pages []string) models.BankType {
	text := strings.ToLower(strings.Join(pages, "\n"))

	for _, phrase := range creditCardIndicators {
		if strings.Contains(text, phrase) {
			return models.BankCreditCard
		}
	}

	for _, kw := range bankKeywords {
		if strings.Contains(text, kw.keyword) {
			return kw.bank
		}
	}

	// Generic card-network + statement pairs.
	if strings.Contains(text, "statement") {
		if strings.Contains(text, "mastercard") ||
			strings.Contains(text, "visa") ||
			strings.Contains(text, "credit card") {
			return models.BankCreditCard
		}
	}

	return models.BankMaybank
}
