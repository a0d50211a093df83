package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/maherduit/statement-parser/internal/api"
	"github.com/maherduit/statement-parser/internal/config"
	"github.com/maherduit/statement-parser/internal/processor"
	"github.com/maherduit/statement-parser/internal/storage"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "statement-parser",
		Short:   "Malaysian bank statement PDF to CSV converter",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConvertCommand() *cobra.Command {
	var bankFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "convert <input.pdf> [input2.pdf ...]",
		Short: "Convert statement PDFs to CSV files",
		Long: `Converts bank statement PDFs from Maybank, CIMB, Alliance Bank and
Malaysian credit card statements into structured CSV files.

The bank is auto-detected from the statement text unless --bank is given.
Supported banks: maybank, cimb, alliance, credit_card.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, inputPath := range args {
				if err := convertFile(inputPath, bankFlag, outputFlag, len(args) > 1); err != nil {
					return fmt.Errorf("processing %s: %w", inputPath, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "bank type: maybank, cimb, alliance, credit_card (auto-detected if omitted)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output CSV path (defaults to the input name with a .csv extension)")
	return cmd
}

func convertFile(inputPath, bankHint, outputPath string, multi bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	result := processor.New().ProcessFile(inputPath, bankHint)
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	fmt.Printf("  Bank: %s\n", result.BankType)
	fmt.Printf("  Found %d transaction(s)\n", len(result.Transactions))
	if len(result.Transactions) == 0 {
		fmt.Println("  Warning: no transactions found. Try --bank if auto-detection picked the wrong layout.")
	}

	outPath := outputPath
	if outPath == "" || multi {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".csv"
	}
	if err := os.WriteFile(outPath, []byte(result.CSV), 0o644); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	fmt.Printf("  Output: %s\n", outPath)

	s := result.Summary
	if s.TotalTransactions > 0 {
		fmt.Printf("  Credits: %d (%s)  Debits: %d (%s)  Net: %s\n",
			s.CreditCount, s.TotalCredits.StringFixed(2),
			s.DebitCount, s.TotalDebits.StringFixed(2),
			s.NetAmount.StringFixed(2))
	}
	fmt.Println("  Done.")
	return nil
}

func newServeCommand() *cobra.Command {
	var configPath string
	var portFlag int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the statement processing HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}
			if portFlag != 0 {
				cfg.Server.Port = portFlag
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().IntVarP(&portFlag, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func serve(cfg config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var store storage.CSVStore
	if cfg.Processing.OutputDir != "" {
		local, err := storage.NewLocalStore(cfg.Processing.OutputDir)
		if err != nil {
			return err
		}
		store = local
	}

	app := fiber.New(fiber.Config{
		AppName:   "statement-parser " + version,
		BodyLimit: 64 << 20,
	})

	handler := api.NewHandler(processor.New(), store, cfg.Processing.MaxBatchFiles, version)
	handler.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("starting server", "addr", addr, "max_batch_files", cfg.Processing.MaxBatchFiles)
	return app.Listen(addr)
}
