// Package extract converts uploaded documents into plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/apperr"
	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the page-ordered plain text of a PDF, trimmed of
// surrounding whitespace. An empty result is valid: a scanned PDF carries
// no extractable text, and the caller decides whether that is an error.
func ExtractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", apperr.Wrap(apperr.ErrDocumentParse, "open PDF", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperr.Wrap(apperr.ErrDocumentParse, fmt.Sprintf("extract page %d", i), err)
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
