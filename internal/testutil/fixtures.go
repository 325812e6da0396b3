// Package testutil builds minimal document fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// PDF returns a minimal PDF with one page per argument, each drawing its
// text in Helvetica. Object offsets are computed while writing so the
// cross-reference table is exact. Page texts must avoid the characters
// "(", ")" and "\".
func PDF(pages ...string) []byte {
	n := len(pages)
	fontNum := 3 + 2*n
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}

	type object struct {
		body   string
		stream string
	}
	objects := []object{
		{body: "<< /Type /Catalog /Pages 2 0 R >>"},
		{body: fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)},
	}
	for i, text := range pages {
		contentNum := 3 + 2*i + 1
		objects = append(objects, object{
			body: fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
				fontNum, contentNum),
		})
		objects = append(objects, object{
			stream: fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text),
		})
	}
	objects = append(objects, object{body: "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"})

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, o := range objects {
		offsets[i+1] = buf.Len()
		if o.stream != "" {
			fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", i+1, len(o.stream), o.stream)
			continue
		}
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o.body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// ZIP packs the given members into an archive. Member names ending in "/"
// become directory entries.
func ZIP(members map[string][]byte) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		fw, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write(content); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
