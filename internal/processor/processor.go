package processor

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/maherduit/statement-parser/internal/extractor"
	"github.com/maherduit/statement-parser/internal/models"
	"github.com/maherduit/statement-parser/internal/parser"
	"github.com/maherduit/statement-parser/internal/writer"
)

// ExtractFunc turns a PDF path into ordered page texts.
type ExtractFunc func(path string) ([]string, error)

// Processor runs the full pipeline for one document: extract text, pick a
// bank, parse, and generate the CSV and summary. Each call is independent
// and keeps no state, so callers may process documents concurrently as
// long as each document gets its own invocation.
type Processor struct {
	extract ExtractFunc
	log     *slog.Logger
}

// New returns a Processor backed by the PDF extractor.
func New() *Processor {
	return &Processor{extract: extractor.ExtractText, log: slog.Default()}
}

// NewWithExtractor returns a Processor with a custom extraction function.
// Used by tests and by callers that receive pre-extracted text.
func NewWithExtractor(fn ExtractFunc) *Processor {
	return &Processor{extract: fn, log: slog.Default()}
}

// ProcessFile extracts text from the PDF at path and parses it. An
// extraction failure is a document-level failure: no partial transactions
// are returned.
func (p *Processor) ProcessFile(path, bankHint string) *models.Result {
	start := time.Now()
	pages, err := p.extract(path)
	if err != nil {
		p.log.Error("extraction failed", "path", path, "err", err)
		return failureResult(err, start)
	}
	return p.process(pages, filepath.Base(path), bankHint, start)
}

// ProcessPages parses already-extracted page texts. sourceName is the
// original file name; the credit-card parser reads the statement year
// from it.
func (p *Processor) ProcessPages(pages []string, sourceName, bankHint string) *models.Result {
	return p.process(pages, sourceName, bankHint, time.Now())
}

func (p *Processor) process(pages []string, sourceName, bankHint string, start time.Time) (res *models.Result) {
	// A fault in one document must surface as a failure result, never as
	// a panic past this boundary.
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("parse panic recovered", "source", sourceName, "panic", r)
			res = failureResult(fmt.Errorf("internal parse failure: %v", r), start)
		}
	}()

	bank := p.resolveBank(pages, bankHint)

	pr, err := parser.New(bank, sourceName)
	if err != nil {
		return failureResult(err, start)
	}

	txns, err := pr.Parse(pages)
	if err != nil {
		return failureResult(err, start)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	csvContent, err := writer.GenerateCSV(txns, bank)
	if err != nil {
		return failureResult(err, start)
	}

	p.log.Info("document processed",
		"source", sourceName, "bank", bank, "transactions", len(txns))

	return &models.Result{
		Success:        true,
		BankType:       bank,
		Transactions:   txns,
		CSV:            csvContent,
		Summary:        writer.Summarize(txns),
		ProcessingTime: time.Since(start).Seconds(),
	}
}

// resolveBank applies the hint-then-detect policy: a recognized hint wins,
// an unrecognized hint downgrades to Maybank, and no hint runs detection.
func (p *Processor) resolveBank(pages []string, hint string) models.BankType {
	if hint == "" {
		return parser.Detect(pages)
	}
	if bank, ok := models.ParseBankType(hint); ok {
		return bank
	}
	p.log.Warn("unsupported bank hint, falling back to maybank", "hint", hint)
	return models.BankMaybank
}

func failureResult(err error, start time.Time) *models.Result {
	return &models.Result{
		Success:        false,
		Error:          err.Error(),
		Transactions:   []models.Transaction{},
		ProcessingTime: time.Since(start).Seconds(),
	}
}
