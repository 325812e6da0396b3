package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/apperr"
)

// LoadInvoices maps each PDF member of a ZIP archive to its extracted
// text, keyed by the member path as recorded in the archive. Members
// qualify only when the name ends in a case-insensitive ".pdf"; everything
// else, directories included, is skipped. Any member that cannot be read
// or parsed aborts the whole load; duplicate member names overwrite.
func LoadInvoices(content []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrArchive, "open invoices archive", err)
	}
	invoices := make(map[string]string)
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".pdf") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrArchive, fmt.Sprintf("open member %s", f.Name), err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrArchive, fmt.Sprintf("read member %s", f.Name), err)
		}
		text, err := ExtractPDF(data)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", f.Name, err)
		}
		invoices[f.Name] = text
	}
	return invoices, nil
}
