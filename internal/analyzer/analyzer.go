// Package analyzer evaluates invoice batches against a reimbursement
// policy by delegating the policy reasoning to an external model.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/apperr"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/extract"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/models"
	"go.uber.org/zap"
)

// TextGenerator is the external model collaborator: an instruction block
// and a user message in, free-form text out.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Analyzer runs the full policy-vs-invoices evaluation for one request.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	gen    TextGenerator
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer backed by the given generator.
func NewAnalyzer(gen TextGenerator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{gen: gen, logger: logger}
}

// AnalyzeInvoices validates both uploads, extracts the policy and every
// invoice text, issues one model call covering the entire invoice set, and
// returns the parsed batch. Any failure aborts the request; no partial
// results are returned and nothing is retried.
func (a *Analyzer) AnalyzeInvoices(ctx context.Context, policyName string, policyBytes []byte, archiveName string, archiveBytes []byte) (*models.AnalysisBatch, error) {
	if !strings.HasSuffix(strings.ToLower(policyName), ".pdf") {
		return nil, apperr.New(apperr.ErrInvalidInput, "HR policy must be a PDF file")
	}
	if !strings.HasSuffix(strings.ToLower(archiveName), ".zip") {
		return nil, apperr.New(apperr.ErrInvalidInput, "invoices must be in a ZIP file")
	}

	policyText, err := extract.ExtractPDF(policyBytes)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", policyName, err)
	}
	if strings.TrimSpace(policyText) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "could not extract text from policy PDF")
	}

	invoices, err := extract.LoadInvoices(archiveBytes)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, apperr.New(apperr.ErrInvalidInput, "no PDF invoices found in ZIP file")
	}

	prompt := ComposePrompt(policyText, invoices)
	a.logger.Debug("invoking model",
		zap.Int("invoices", len(invoices)),
		zap.Int("prompt_bytes", len(prompt)),
	)

	output, err := a.gen.Generate(ctx, SystemInstruction(), prompt)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrModel, "invoice analysis failed", err)
	}

	analyses, err := ParseAnalyses(output)
	if err != nil {
		return nil, err
	}
	return models.NewAnalysisBatch(analyses), nil
}
