package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/analyzer"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/config"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/models"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/testutil"
	"go.uber.org/zap"
)

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (s *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func newTestServer(gen analyzer.TextGenerator) *Server {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	a := analyzer.NewAnalyzer(gen, zap.NewNop())
	return NewServer(a, cfg, zap.NewNop())
}

type filePart struct {
	filename string
	content  []byte
}

// multipartRequest builds a POST /analyze-invoices request with the given
// named file parts.
func multipartRequest(t *testing.T, parts map[string]filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, p := range parts {
		fw, err := mw.CreateFormFile(field, p.filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(p.content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/analyze-invoices", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validParts() map[string]filePart {
	return map[string]filePart{
		"hr_policy": {
			filename: "policy.pdf",
			content:  testutil.PDF("Meals are reimbursed up to 30 USD per day."),
		},
		"invoices_zip": {
			filename: "invoices.zip",
			content: testutil.ZIP(map[string][]byte{
				"lunch.pdf": testutil.PDF("Lunch 18 USD"),
			}),
		},
	}
}

func TestAnalyzeInvoicesEndpoint(t *testing.T) {
	gen := &stubGenerator{output: `[{"invoice_id": "lunch.pdf", "reimbursement_status": "Fully Reimbursed", "reimbursable_amount": 18, "reason": "Under the daily meal cap"}]`}
	srv := newTestServer(gen)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, multipartRequest(t, validParts()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}

	var batch models.AnalysisBatch
	if err := json.Unmarshal(rec.Body.Bytes(), &batch); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if batch.TotalInvoicesProcessed != 1 || len(batch.Analyses) != 1 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if batch.Analyses[0].InvoiceID != "lunch.pdf" || batch.Analyses[0].ReimbursableAmount != 18 {
		t.Errorf("unexpected analysis: %+v", batch.Analyses[0])
	}
	if gen.calls != 1 {
		t.Errorf("generator calls: got %d, want 1", gen.calls)
	}
}

func TestAnalyzeInvoicesEndpoint_wrongPolicyExtension(t *testing.T) {
	gen := &stubGenerator{}
	srv := newTestServer(gen)

	parts := validParts()
	parts["hr_policy"] = filePart{filename: "policy.docx", content: []byte("doc")}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, multipartRequest(t, parts))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "HR policy must be a PDF file") {
		t.Errorf("body: %s", rec.Body.String())
	}
	if gen.calls != 0 {
		t.Error("model should not be called for a rejected upload")
	}
}

func TestAnalyzeInvoicesEndpoint_missingPart(t *testing.T) {
	srv := newTestServer(&stubGenerator{})

	parts := validParts()
	delete(parts, "invoices_zip")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, multipartRequest(t, parts))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invoices_zip file is required") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestAnalyzeInvoicesEndpoint_emptyInvoiceSet(t *testing.T) {
	srv := newTestServer(&stubGenerator{})

	parts := validParts()
	parts["invoices_zip"] = filePart{
		filename: "invoices.zip",
		content:  testutil.ZIP(map[string][]byte{"notes.txt": []byte("none")}),
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, multipartRequest(t, parts))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no PDF invoices found in ZIP file") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestAnalyzeInvoicesEndpoint_unparsableModelOutput(t *testing.T) {
	srv := newTestServer(&stubGenerator{output: "I cannot determine this."})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, multipartRequest(t, validParts()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body should carry a message")
	}
}

func TestAnalyzeInvoicesEndpoint_modelFailure(t *testing.T) {
	srv := newTestServer(&stubGenerator{err: errors.New("deadline exceeded")})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, multipartRequest(t, validParts()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
}

func TestAnalyzeInvoicesEndpoint_notMultipart(t *testing.T) {
	srv := newTestServer(&stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/analyze-invoices", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(&stubGenerator{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "analyze-invoices") {
		t.Errorf("body should point at the analysis endpoint: %s", rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubGenerator{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q", body["status"])
	}
}

func TestRequestID_incomingHeaderIsEchoed(t *testing.T) {
	srv := newTestServer(&stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("request id: got %q, want abc-123", got)
	}
}
