package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PDFProcessor embeds tracking metadata into PDF blobs as an incremental
// update: a new metadata object referenced from an appended trailer. The
// original bytes are left untouched, so any PDF reader keeps working even
// if it ignores the extra object. Encrypted or cross-reference-stream
// PDFs are not rewritten; the caller falls back to the original bytes.
type PDFProcessor struct{}

// NewPDFProcessor returns the default PDF metadata processor
func NewPDFProcessor() *PDFProcessor {
	return &PDFProcessor{}
}

var (
	startxrefRe = regexp.MustCompile(`startxref\s+(\d+)`)
	sizeRe      = regexp.MustCompile(`/Size\s+(\d+)`)
	rootRe      = regexp.MustCompile(`/Root\s+(\d+)\s+(\d+)\s+R`)
)

// Process appends the tracking object and a new trailer. Any parse
// failure returns an error so the store keeps the original blob.
func (p *PDFProcessor) Process(data []byte, info TrackingInfo) ([]byte, error) {
	if !strings.HasPrefix(string(data[:min(8, len(data))]), "%PDF-") {
		return nil, fmt.Errorf("not a PDF header")
	}

	// Previous cross-reference offset from the last startxref keyword
	sxMatches := startxrefRe.FindAllSubmatch(data, -1)
	if len(sxMatches) == 0 {
		return nil, fmt.Errorf("no startxref keyword")
	}
	prevXref, err := strconv.Atoi(string(sxMatches[len(sxMatches)-1][1]))
	if err != nil || prevXref <= 0 || prevXref >= len(data) {
		return nil, fmt.Errorf("invalid startxref offset")
	}

	// The last classic trailer dictionary carries /Size and /Root.
	// PDFs using cross-reference streams have no trailer keyword.
	trailerIdx := strings.LastIndex(string(data), "trailer")
	if trailerIdx < 0 {
		return nil, fmt.Errorf("no trailer dictionary (xref stream?)")
	}
	tail := data[trailerIdx:]

	sizeMatch := sizeRe.FindSubmatch(tail)
	if sizeMatch == nil {
		return nil, fmt.Errorf("trailer missing /Size")
	}
	size, err := strconv.Atoi(string(sizeMatch[1]))
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("invalid /Size")
	}

	rootMatch := rootRe.FindSubmatch(tail)
	if rootMatch == nil {
		return nil, fmt.Errorf("trailer missing /Root")
	}
	rootNum := string(rootMatch[1])
	rootGen := string(rootMatch[2])

	objNum := size

	var b strings.Builder
	b.Write(data)
	if data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}

	objOffset := b.Len()
	fmt.Fprintf(&b, "%d 0 obj\n<< /Type /LivingDocInfo /DocumentID (%s) /Version (%s) /CheckUpdate (%s) >>\nendobj\n",
		objNum,
		escapePDFString(info.DocumentID),
		escapePDFString(info.VersionLabel),
		escapePDFString(info.CheckUpdateURL),
	)

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n%d 1\n%010d 00000 n \n", objNum, objOffset)
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root %s %s R /Prev %d /LivingDocInfo %d 0 R >>\n",
		objNum+1, rootNum, rootGen, prevXref, objNum)
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return []byte(b.String()), nil
}

// escapePDFString escapes the delimiters of a PDF literal string
func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
