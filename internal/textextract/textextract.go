// Package textextract pulls plain text out of uploaded resume files (PDF,
// DOCX, TXT) and normalizes it for the extraction pipeline.
package textextract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType is wrapped into errors for file types the extractor
// does not handle.
var ErrUnsupportedType = fmt.Errorf("unsupported file type")

var (
	xmlTagRe        = regexp.MustCompile(`<[^>]+>`)
	multiNewlineRe  = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe    = regexp.MustCompile(` {2,}`)
)

// FromFile extracts and cleans text from a resume file, dispatching on the
// extension of name. data is the raw file content.
func FromFile(name string, data []byte) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	var (
		raw string
		err error
	)
	switch ext {
	case "pdf":
		raw, err = FromPDF(data)
	case "docx", "doc":
		raw, err = FromDOCX(data)
	case "txt":
		raw, err = FromTXT(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err != nil {
		return "", err
	}
	return Clean(raw), nil
}

// FromPDF extracts the plain text of every page of a PDF document.
func FromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", fmt.Errorf("no text could be extracted from pdf")
	}
	return buf.String(), nil
}

// FromDOCX extracts text from a DOCX archive by flattening the main document
// part. Paragraph ends become newlines and tabs are preserved.
func FromDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("read docx: missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	xml := string(content)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	text := xmlTagRe.ReplaceAllString(xml, "")

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text could be extracted from docx")
	}
	return text, nil
}

// FromTXT decodes a plain-text file, falling back to Latin-1 when the bytes
// are not valid UTF-8.
func FromTXT(data []byte) (string, error) {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		text = string(runes)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text file is empty")
	}
	return text, nil
}

// Clean normalizes extracted text: control characters are dropped, line
// breaks unified, runs of blank lines and spaces collapsed, and every line
// trimmed.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
