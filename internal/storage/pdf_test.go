package storage

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// minimalPDF builds a syntactically valid single-page PDF with a classic
// cross-reference table.
func minimalPDF() []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 4)
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n",
	}
	for i, obj := range objects {
		offsets[i+1] = b.Len()
		b.WriteString(obj)
	}

	xref := b.Len()
	b.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes()
}

func TestPDFProcessorEmbedsTracking(t *testing.T) {
	orig := minimalPDF()
	info := TrackingInfo{
		DocumentID:     "doc-1",
		VersionLabel:   "1.2",
		CheckUpdateURL: "https://docs.example.com/api/public/abc/check-update",
	}

	out, err := NewPDFProcessor().Process(orig, info)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// Incremental update: the original bytes are an untouched prefix
	if !bytes.HasPrefix(out, orig) {
		t.Fatal("processed PDF does not start with the original bytes")
	}

	s := string(out)
	for _, want := range []string{
		"/Type /LivingDocInfo",
		"/DocumentID (doc-1)",
		"/Version (1.2)",
		"/CheckUpdate (https://docs.example.com/api/public/abc/check-update)",
		"/Prev ",
		"/Root 1 0 R",
		"/Size 5",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("processed PDF missing %q", want)
		}
	}

	// The appended section ends with its own EOF marker
	if !strings.HasSuffix(s, "%%EOF\n") {
		t.Errorf("processed PDF missing trailing %s", "%%EOF")
	}
}

func TestPDFProcessorEscapesStrings(t *testing.T) {
	info := TrackingInfo{
		DocumentID:   `doc(1)`,
		VersionLabel: `1.0\x`,
	}
	out, err := NewPDFProcessor().Process(minimalPDF(), info)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `/DocumentID (doc\(1\))`) {
		t.Errorf("parentheses not escaped in %q", s[len(minimalPDF()):])
	}
	if !strings.Contains(s, `/Version (1.0\\x)`) {
		t.Errorf("backslash not escaped in %q", s[len(minimalPDF()):])
	}
}

func TestPDFProcessorRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello world")},
		{"header only", []byte("%PDF-1.4\n")},
		{"no trailer", []byte("%PDF-1.4\nstartxref\n9\n%%EOF\n")},
		{"bad offset", []byte("%PDF-1.4\ntrailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n999999\n%%EOF\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPDFProcessor().Process(tt.data, TrackingInfo{}); err == nil {
				t.Error("Process() succeeded on malformed input")
			}
		})
	}
}
