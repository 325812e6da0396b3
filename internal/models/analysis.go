// Package models defines the request-scoped entities of the reimbursement
// analysis pipeline.
package models

// Classification literals the model is instructed to emit for each invoice.
const (
	StatusFullyReimbursed     = "Fully Reimbursed"
	StatusPartiallyReimbursed = "Partially Reimbursed"
	StatusDeclined            = "Declined"
)

// InvoiceAnalysis is the reimbursement decision for a single invoice.
// ReimbursableAmount is always a whole, non-negative number.
type InvoiceAnalysis struct {
	InvoiceID           string `json:"invoice_id"`
	ReimbursementStatus string `json:"reimbursement_status"`
	ReimbursableAmount  int    `json:"reimbursable_amount"`
	Reason              string `json:"reason"`
}

// AnalysisBatch holds every analysis produced for one request, in the
// order the model returned them. Built once per request and not mutated.
type AnalysisBatch struct {
	Analyses               []InvoiceAnalysis `json:"analyses"`
	TotalInvoicesProcessed int               `json:"total_invoices_processed"`
}

// NewAnalysisBatch builds a batch whose count equals the number of analyses.
func NewAnalysisBatch(analyses []InvoiceAnalysis) *AnalysisBatch {
	return &AnalysisBatch{
		Analyses:               analyses,
		TotalInvoicesProcessed: len(analyses),
	}
}

// KnownStatus reports whether s is one of the three classification literals.
func KnownStatus(s string) bool {
	switch s {
	case StatusFullyReimbursed, StatusPartiallyReimbursed, StatusDeclined:
		return true
	}
	return false
}
