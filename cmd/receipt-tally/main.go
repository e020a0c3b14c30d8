package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"receipt-tally/internal/extraction"
	"receipt-tally/internal/history"
	"receipt-tally/internal/receipts"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	rootFlags := ff.NewFlagSet("receipt-tally")
	showVersion := rootFlags.BoolLong("version", "Show version information")

	processFlags := ff.NewFlagSet("process").SetParent(rootFlags)
	var (
		dir           = processFlags.StringLong("dir", "./receipt_pdfs", "Directory containing receipt files")
		extractedPath = processFlags.StringLong("extracted", "extracted_receipts.json", "Path for the raw extracted record list")
		outPath       = processFlags.StringLong("out", "aggregated_receipts.json", "Path for the aggregated totals")
		dbPath        = processFlags.StringLong("db", "receipt-tally.db", "Run history database path")
		extractorType = processFlags.StringLong("extractor", "gemini", "Extractor type: 'gemini' or 'ollama'")
		geminiKey     = processFlags.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = processFlags.StringLong("gemini-model", "gemini-1.5-flash", "Google Gemini model name")
		ollamaURL     = processFlags.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = processFlags.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
	)

	historyFlags := ff.NewFlagSet("history").SetParent(rootFlags)
	historyDB := historyFlags.StringLong("db", "receipt-tally.db", "Run history database path")

	processCmd := &ff.Command{
		Name:      "process",
		Usage:     "receipt-tally process [flags]",
		ShortHelp: "Extract receipts from a directory and aggregate totals per company",
		Flags:     processFlags,
		Exec: func(ctx context.Context, args []string) error {
			return runProcess(*dir, *extractedPath, *outPath, *dbPath,
				*extractorType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
		},
	}

	historyCmd := &ff.Command{
		Name:      "history",
		Usage:     "receipt-tally history [flags]",
		ShortHelp: "Show recorded aggregation runs",
		Flags:     historyFlags,
		Exec: func(ctx context.Context, args []string) error {
			return runHistory(*historyDB)
		},
	}

	rootCmd := &ff.Command{
		Name:        "receipt-tally",
		Usage:       "receipt-tally <subcommand> [flags]",
		Flags:       rootFlags,
		Subcommands: []*ff.Command{processCmd, historyCmd},
		Exec: func(ctx context.Context, args []string) error {
			if *showVersion {
				fmt.Println(version)
				return nil
			}
			return ff.ErrHelp
		},
	}

	err := rootCmd.ParseAndRun(context.Background(), os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_TALLY"),
	)
	switch {
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(rootCmd))
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runProcess(dir, extractedPath, outPath, dbPath, extractorType, geminiKey, geminiModel, ollamaURL, ollamaModel string) error {
	var extractor extraction.Extractor
	var err error
	switch extractorType {
	case "gemini":
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini extractor...", "model", geminiModel)
		extractor, err = extraction.NewGemini(apiKey, geminiModel)
		if err != nil {
			return fmt.Errorf("initializing gemini: %w", err)
		}
	case "ollama":
		slog.Info("Initializing Ollama extractor...", "url", ollamaURL, "model", ollamaModel)
		extractor, err = extraction.NewOllama(ollamaURL, ollamaModel)
		if err != nil {
			return fmt.Errorf("initializing ollama: %w", err)
		}
	default:
		return fmt.Errorf("invalid extractor type %q: want 'gemini' or 'ollama'", extractorType)
	}
	defer extractor.Close()

	store, err := history.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer store.Close()

	service := receipts.NewService(extractor, store)

	slog.Info("Processing receipts...", "dir", dir)
	result, err := service.ProcessDirectory(dir, extractedPath, outPath)
	if err != nil {
		return err
	}
	slog.Info("Done",
		"receipts", result.Run.ReceiptCount,
		"companies", result.Run.CompanyCount,
		"extracted", extractedPath,
		"aggregate", outPath,
	)

	printSummary(result)
	return nil
}

func printSummary(result *receipts.Result) {
	fmt.Println("Spending per company:")
	for _, company := range result.Totals.Companies() {
		total, _ := result.Totals.Sum(company)
		name := company
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("  %s: $%.2f\n", name, total)
	}
	fmt.Printf("Total spending: $%.2f\n", result.Totals.GrandTotal())
}

func runHistory(dbPath string) error {
	store, err := history.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  receipts=%d companies=%d total=$%.2f  %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.ReceiptCount,
			run.CompanyCount,
			run.GrandTotal,
			run.SourceDir,
		)
	}
	return nil
}
