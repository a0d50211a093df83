package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maherduit/statement-parser/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  models.BankType
	}{
		{
			name:  "maybank keyword",
			pages: []string{"MALAYAN BANKING BERHAD\nURUSNIAGA AKAUN"},
			want:  models.BankMaybank,
		},
		{
			name:  "cimb keyword",
			pages: []string{"CIMB Bank Berhad\nPenyata Akaun"},
			want:  models.BankCIMB,
		},
		{
			name:  "alliance keyword",
			pages: []string{"Alliance Bank Malaysia Berhad"},
			want:  models.BankAlliance,
		},
		{
			name:  "credit card indicator",
			pages: []string{"STATEMENT OF CREDIT CARD ACCOUNT"},
			want:  models.BankCreditCard,
		},
		{
			name:  "malay credit card indicator",
			pages: []string{"PENYATA KAD KREDIT"},
			want:  models.BankCreditCard,
		},
		{
			name:  "card network plus statement fallback",
			pages: []string{"Monthly Statement\nVISA Platinum"},
			want:  models.BankCreditCard,
		},
		{
			name:  "nothing recognizable defaults to maybank",
			pages: []string{"completely unrelated text"},
			want:  models.BankMaybank,
		},
		{
			name:  "empty input defaults to maybank",
			pages: nil,
			want:  models.BankMaybank,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.pages))
		})
	}
}

func TestDetect_CreditCardIndicatorBeatsBankName(t *testing.T) {
	// A card statement usually names its issuing bank too; the indicator
	// phrase must win over the bank keyword.
	pages := []string{"Maybank Berhad\nTAX INVOICE\nGST Registration No: 000123456789"}
	assert.Equal(t, models.BankCreditCard, Detect(pages))
}

func TestDetect_Deterministic(t *testing.T) {
	pages := []string{"CIMB Bank\nStatement of Account"}
	first := Detect(pages)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Detect(pages))
	}
}
