package analyzer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/apperr"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/models"
)

// jsonArrayRe finds the earliest "[" through the last "]", across newlines.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// ParseAnalyses locates the JSON array embedded in the model's free-form
// output and decodes it into validated analyses. When no array substring
// is present the entire output is parsed as JSON. The first element that
// violates the output contract rejects the whole batch; model ordering is
// preserved.
func ParseAnalyses(output string) ([]models.InvoiceAnalysis, error) {
	payload := output
	if m := jsonArrayRe.FindString(output); m != "" {
		payload = m
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, apperr.Wrap(apperr.ErrAnalysisParse, "model output is not a JSON array of objects", err)
	}

	analyses := make([]models.InvoiceAnalysis, 0, len(raw))
	for i, el := range raw {
		a, err := decodeAnalysis(el)
		if err != nil {
			return nil, fmt.Errorf("analysis element %d: %w", i, err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

func decodeAnalysis(el map[string]any) (models.InvoiceAnalysis, error) {
	id, err := stringField(el, "invoice_id")
	if err != nil {
		return models.InvoiceAnalysis{}, err
	}
	// Accepted verbatim: the status is not forced into the three literals here.
	status, err := stringField(el, "reimbursement_status")
	if err != nil {
		return models.InvoiceAnalysis{}, err
	}
	amount, err := amountField(el, "reimbursable_amount")
	if err != nil {
		return models.InvoiceAnalysis{}, err
	}
	reason, err := stringField(el, "reason")
	if err != nil {
		return models.InvoiceAnalysis{}, err
	}
	return models.InvoiceAnalysis{
		InvoiceID:           id,
		ReimbursementStatus: status,
		ReimbursableAmount:  amount,
		Reason:              reason,
	}, nil
}

func stringField(el map[string]any, key string) (string, error) {
	v, ok := el[key]
	if !ok {
		return "", apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("missing field %q", key))
	}
	s, ok := v.(string)
	if !ok {
		return "", apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is not a string", key))
	}
	return s, nil
}

// amountField coerces the reimbursable amount to a whole number.
// Fractional values are truncated toward zero; numeric strings are
// accepted; anything non-numeric, negative, or beyond the int32 range
// rejects the element.
func amountField(el map[string]any, key string) (int, error) {
	v, ok := el[key]
	if !ok {
		return 0, apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("missing field %q", key))
	}
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, apperr.Wrap(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is not numeric", key), err)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, apperr.Wrap(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is not numeric", key), err)
		}
		f = parsed
	default:
		return 0, apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is not numeric", key))
	}
	f = math.Trunc(f)
	switch {
	case math.IsNaN(f):
		return 0, apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is not numeric", key))
	case f < 0:
		return 0, apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is negative", key))
	case f > math.MaxInt32:
		return 0, apperr.New(apperr.ErrAnalysisParse, fmt.Sprintf("field %q is out of range", key))
	}
	return int(f), nil
}
