package extractor

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a PDF file and returns the text content of each page,
// one string per page with newline-separated lines. Scanned or image-only
// PDFs are rejected rather than returned as garbage: downstream parsing is
// line-oriented and cannot recover from binary noise.
func ExtractText(filePath string) ([]string, error) {
	pages, err := extractWithLibrary(filePath)
	if err != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", err)
	}
	if !isReadableText(pages) {
		return nil, fmt.Errorf("no readable text could be extracted; the PDF may be scanned/image-based or use undecodable font encodings")
	}
	return pages, nil
}

// extractWithLibrary tries the library's extraction methods in order of
// layout fidelity. The library panics on some malformed files, so the
// whole pass runs under a recover.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	plain := extractPlainText(r)
	if isReadableText([]string{plain}) {
		return []string{plain}, nil
	}

	return pages, nil
}

// extractByRow uses GetTextByRow, which preserves table rows best.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reconstructs rows from raw text fragments by grouping
// on the Y coordinate and ordering by X. Used when GetTextByRow scrambles
// the table layout.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type fragment struct {
			x float64
			s string
		}
		rowMap := make(map[int][]fragment)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], fragment{x: t.X, s: t.S})
		}

		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		// PDF Y runs bottom-to-top.
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			frags := rowMap[y]
			sort.Slice(frags, func(a, b int) bool { return frags[a].x < frags[b].x })

			var parts []string
			var prevX float64
			for j, frag := range frags {
				if j > 0 && frag.x-prevX > 15 {
					// Wide gap between fragments marks a column boundary.
					parts = append(parts, "  ")
				}
				parts = append(parts, frag.s)
				prevX = frag.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractPlainText is the whole-document fallback path.
func extractPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Words expected in virtually every Malaysian bank statement, in either
// language. Extraction that produces none of these is treated as garbage.
var statementWords = []string{
	"bank", "account", "akaun", "balance", "baki", "date", "tarikh",
	"statement", "penyata", "transaction", "urusniaga", "amount", "jumlah",
	"credit", "debit", "kredit", "total", "page",
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of readable ASCII characters to total.
// The strict ASCII check is deliberate: identity-encoded fonts decode to
// accented garbage that unicode.IsLetter would happily accept.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"%&@#!?+=*`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// isReadableText requires enough text, a high readable-character ratio,
// and at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}
