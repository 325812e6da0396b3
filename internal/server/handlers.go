package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/apperr"
	"go.uber.org/zap"
)

func (s *Server) handleAnalyzeInvoices(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.Upload.MaxSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	policyName, policyBytes, err := formFileBytes(r, "hr_policy")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "hr_policy file is required")
		return
	}
	archiveName, archiveBytes, err := formFileBytes(r, "invoices_zip")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invoices_zip file is required")
		return
	}

	batch, err := s.analyzer.AnalyzeInvoices(r.Context(), policyName, policyBytes, archiveName, archiveBytes)
	if err != nil {
		status := apperr.Status(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("analysis failed", zap.Error(err))
		} else {
			s.logger.Debug("request rejected", zap.Error(err))
		}
		s.respondError(w, status, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Invoice Reimbursement Analysis API",
		"analyze": "POST /analyze-invoices (multipart: hr_policy PDF, invoices_zip ZIP)",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// formFileBytes reads the named multipart part fully into memory and
// returns its declared filename with the content.
func formFileBytes(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
