package api

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/maherduit/statement-parser/internal/models"
	"github.com/maherduit/statement-parser/internal/processor"
	"github.com/maherduit/statement-parser/internal/storage"
)

// maxDownloadBytes caps how much we will pull from a source_url.
const maxDownloadBytes = 32 << 20

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Processor     *processor.Processor
	Store         storage.CSVStore
	MaxBatchFiles int
	Version       string

	log *slog.Logger
}

// NewHandler wires the API against a processor and an optional CSV store.
func NewHandler(p *processor.Processor, store storage.CSVStore, maxBatchFiles int, version string) *Handler {
	if maxBatchFiles <= 0 {
		maxBatchFiles = 10
	}
	return &Handler{
		Processor:     p,
		Store:         store,
		MaxBatchFiles: maxBatchFiles,
		Version:       version,
		log:           slog.Default(),
	}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.handleRoot)
	app.Get("/health", h.handleHealth)
	app.Post("/process", h.handleProcess)
	app.Post("/process-batch", h.handleProcessBatch)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// processData is the per-document payload returned by /process and for
// each file inside a /process-batch response.
type processData struct {
	ProcessingID     string               `json:"processing_id"`
	Filename         string               `json:"filename"`
	BankDetected     models.BankType      `json:"bank_detected"`
	Transactions     []models.Transaction `json:"transactions"`
	TransactionCount int                  `json:"transaction_count"`
	CSVPath          string               `json:"csv_path,omitempty"`
	Summary          models.Summary       `json:"summary"`
	ProcessingTime   float64              `json:"processing_time"`
	Metadata         processMetadata      `json:"metadata"`
}

type processMetadata struct {
	UserID      string `json:"user_id,omitempty"`
	ProcessedAt string `json:"processed_at"`
}

func (h *Handler) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "statement-parser",
		"version": h.Version,
		"status":  "running",
	})
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   h.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleProcess accepts either an uploaded PDF (form field "file") or a
// remote one (form field "source_url"), plus optional "bank" and
// "user_id" fields.
func (h *Handler) handleProcess(c *fiber.Ctx) error {
	path, filename, cleanup, err := h.obtainPDF(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer cleanup()

	bankHint := c.FormValue("bank")
	userID := c.FormValue("user_id")

	data, err := h.processOne(path, filename, bankHint, userID)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(envelope{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(envelope{
		Success: true,
		Message: "statement processed",
		Data:    data,
	})
}

// handleProcessBatch accepts multiple PDFs under the form field "files".
// Each file is processed independently; one bad statement never fails
// the batch.
func (h *Handler) handleProcessBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "expected multipart form data")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return badRequest(c, "no files uploaded, use form field 'files'")
	}
	if len(files) > h.MaxBatchFiles {
		return badRequest(c, fmt.Sprintf("too many files: %d exceeds the batch limit of %d", len(files), h.MaxBatchFiles))
	}

	bankHint := c.FormValue("bank")
	userID := c.FormValue("user_id")

	type batchItem struct {
		Filename string       `json:"filename"`
		Success  bool         `json:"success"`
		Error    string       `json:"error,omitempty"`
		Result   *processData `json:"result,omitempty"`
	}

	items := make([]batchItem, 0, len(files))
	succeeded, totalTxns := 0, 0

	for _, fh := range files {
		item := batchItem{Filename: fh.Filename}

		path, cleanup, saveErr := h.saveUpload(c, fh)
		if saveErr != nil {
			item.Error = saveErr.Error()
			items = append(items, item)
			continue
		}

		data, procErr := h.processOne(path, fh.Filename, bankHint, userID)
		cleanup()
		if procErr != nil {
			item.Error = procErr.Error()
		} else {
			item.Success = true
			item.Result = data
			succeeded++
			totalTxns += data.TransactionCount
		}
		items = append(items, item)
	}

	return c.JSON(envelope{
		Success: true,
		Message: fmt.Sprintf("processed %d of %d files", succeeded, len(files)),
		Data: fiber.Map{
			"total_files":        len(files),
			"successful_files":   succeeded,
			"failed_files":       len(files) - succeeded,
			"total_transactions": totalTxns,
			"results":            items,
		},
	})
}

// processOne runs the pipeline on a stored PDF and, when a store is
// configured, persists the CSV artifact.
func (h *Handler) processOne(path, filename, bankHint, userID string) (*processData, error) {
	result := h.Processor.ProcessFile(path, bankHint)
	if !result.Success {
		return nil, fmt.Errorf("processing %s: %s", filename, result.Error)
	}

	csvPath := ""
	if h.Store != nil && result.CSV != "" {
		name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".csv"
		stored, err := h.Store.Save(name, []byte(result.CSV))
		if err != nil {
			// The parse succeeded; losing the artifact is not fatal.
			h.log.Error("failed to store CSV", "filename", filename, "err", err)
		} else {
			csvPath = stored
		}
	}

	return &processData{
		ProcessingID:     uuid.New().String(),
		Filename:         filename,
		BankDetected:     result.BankType,
		Transactions:     result.Transactions,
		TransactionCount: len(result.Transactions),
		CSVPath:          csvPath,
		Summary:          result.Summary,
		ProcessingTime:   result.ProcessingTime,
		Metadata: processMetadata{
			UserID:      userID,
			ProcessedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// obtainPDF resolves the request's PDF to a local temp file, from either
// the uploaded "file" field or a "source_url" download.
func (h *Handler) obtainPDF(c *fiber.Ctx) (path, filename string, cleanup func(), err error) {
	if fh, fileErr := c.FormFile("file"); fileErr == nil {
		if err := validatePDFName(fh.Filename); err != nil {
			return "", "", nil, err
		}
		path, cleanup, err := h.saveUpload(c, fh)
		if err != nil {
			return "", "", nil, err
		}
		return path, fh.Filename, cleanup, nil
	}

	if srcURL := c.FormValue("source_url"); srcURL != "" {
		path, filename, cleanup, err := h.downloadPDF(srcURL)
		if err != nil {
			return "", "", nil, fmt.Errorf("fetching source_url: %w", err)
		}
		return path, filename, cleanup, nil
	}

	return "", "", nil, fmt.Errorf("no PDF provided, use form field 'file' or 'source_url'")
}

func (h *Handler) saveUpload(c *fiber.Ctx, fh *multipart.FileHeader) (string, func(), error) {
	if err := validatePDFName(fh.Filename); err != nil {
		return "", nil, err
	}
	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmp.Close()
	if err := c.SaveFile(fh, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("saving upload: %w", err)
	}
	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}

func (h *Handler) downloadPDF(srcURL string) (string, string, func(), error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(srcURL)
	if err != nil {
		return "", "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxDownloadBytes)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", nil, fmt.Errorf("downloading: %w", err)
	}
	tmp.Close()

	filename := filepath.Base(srcURL)
	if idx := strings.IndexAny(filename, "?#"); idx >= 0 {
		filename = filename[:idx]
	}
	if filename == "" || filename == "." || filename == "/" {
		filename = "statement.pdf"
	}
	name := tmp.Name()
	return name, filename, func() { os.Remove(name) }, nil
}

func validatePDFName(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return fmt.Errorf("only PDF files are supported, got %q", filename)
	}
	return nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(envelope{
		Success: false,
		Error:   msg,
	})
}
