package parser

import (
	"fmt"

	"github.com/maherduit/statement-parser/internal/models"
)

// Parser turns extracted statement page texts into finalized transactions.
type Parser interface {
	// Parse consumes the ordered page texts and returns the finalized
	// transaction records in document order.
	Parse(pages []string) ([]models.Transaction, error)
	// Bank returns the bank type this parser produces records for.
	Bank() models.BankType
}

// New returns the parser for the given bank type. The switch is exhaustive
// over the supported set; adding a bank means adding a case here.
func New(bank models.BankType, sourceName string) (Parser, error) {
	switch bank {
	case models.BankMaybank:
		return &MaybankParser{}, nil
	case models.BankCIMB:
		return &CIMBParser{}, nil
	case models.BankAlliance:
		return &AllianceParser{}, nil
	case models.BankCreditCard:
		return &CreditCardParser{SourceName: sourceName}, nil
	default:
		return nil, fmt.Errorf("unsupported bank type: %q", bank)
	}
}
