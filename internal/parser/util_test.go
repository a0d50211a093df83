package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1,234.56", "1234.56", false},
		{"RM 1,234.56", "1234.56", false},
		{"12.00", "12.00", false},
		{"1,000,000.99", "1000000.99", false},
		{"", "", true},
		{"-", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2), "input %q", tt.in)
	}
}

func TestParseDMY(t *testing.T) {
	d, err := parseDMY("01/02/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", d.Format("2006-01-02"))

	d, err = parseDMY("01/02/24")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", d.Format("2006-01-02"))

	_, err = parseDMY("2024-02-01")
	assert.Error(t, err)

	_, err = parseDMY("32/01/2024")
	assert.Error(t, err)
}

func TestParseCompactDate(t *testing.T) {
	d, err := parseCompactDate("030224")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03", d.Format("2006-01-02"))

	d, err = parseCompactDate("03022024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03", d.Format("2006-01-02"))

	_, err = parseCompactDate("0302024")
	assert.Error(t, err)
}

func TestIsSectionEnd(t *testing.T) {
	assert.True(t, isSectionEnd("ENDING BALANCE 1,234.56"))
	assert.True(t, isSectionEnd("Baki Akhir"))
	assert.True(t, isSectionEnd("closing balance"))
	assert.False(t, isSectionEnd("OPENING BALANCE"))
	assert.False(t, isSectionEnd(""))
}

func TestNormalizeLine(t *testing.T) {
	assert.Equal(t, "AB", normalizeLine("A\u200BB"))
	assert.Equal(t, "A B", normalizeLine("A\u00A0B"))
	assert.Equal(t, "trimmed", normalizeLine("  trimmed  "))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "A B C", collapseSpaces("  A   B\tC "))
	assert.Equal(t, "", collapseSpaces("   "))
}
