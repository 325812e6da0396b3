// Package main is the invoice-analyzer CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/analyzer"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/config"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/llm"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/models"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/server"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "version", "--version", "-v":
		fmt.Printf("invoice-analyzer version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := newLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	gen, err := llm.NewGeminiClient(ctx, llm.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
	if err != nil {
		logger.Fatal("Failed to create model client", zap.Error(err))
	}
	defer gen.Close()

	a := analyzer.NewAnalyzer(gen, logger)
	srv := server.NewServer(a, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 2 {
		fmt.Println("Usage: invoice-analyzer analyze [flags] <policy.pdf> <invoices.zip>")
		os.Exit(1)
	}
	policyPath := fs.Arg(0)
	archivePath := fs.Arg(1)

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	policyBytes, err := os.ReadFile(policyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read policy: %v\n", err)
		os.Exit(1)
	}
	archiveBytes, err := os.ReadFile(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read invoices archive: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	gen, err := llm.NewGeminiClient(ctx, llm.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create model client: %v\n", err)
		os.Exit(1)
	}
	defer gen.Close()

	a := analyzer.NewAnalyzer(gen, logger)
	batch, err := a.AnalyzeInvoices(ctx,
		filepath.Base(policyPath), policyBytes,
		filepath.Base(archivePath), archiveBytes,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeBatchText(os.Stdout, batch)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// writeBatchText renders a batch as one line per invoice plus a total.
func writeBatchText(w io.Writer, batch *models.AnalysisBatch) {
	for _, a := range batch.Analyses {
		fmt.Fprintf(w, "%-30s %-22s %8d  %s\n",
			a.InvoiceID, a.ReimbursementStatus, a.ReimbursableAmount, a.Reason)
	}
	fmt.Fprintf(w, "total invoices processed: %d\n", batch.TotalInvoicesProcessed)
}

func printUsage() {
	fmt.Println(`invoice-analyzer - Invoice reimbursement analysis against an HR policy

Usage:
  invoice-analyzer server [flags]                          Start the HTTP server
  invoice-analyzer analyze [flags] <policy.pdf> <inv.zip>  Analyze local files once
  invoice-analyzer version                                 Show version
  invoice-analyzer help                                    Show this help

Server Flags:
  --config string    Config file path (default: config.yaml)
  --debug            Enable debug logging

Analyze Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

The Gemini API key is read from GEMINI_API_KEY (a .env file is honored).

Examples:
  invoice-analyzer server
  invoice-analyzer analyze policy.pdf invoices.zip
  invoice-analyzer analyze --output json policy.pdf invoices.zip`)
}
