// Package extract pulls plain text out of uploaded resume files.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-builder/internal/validation"
)

// MaxTextBytes bounds the text returned for one file.
const MaxTextBytes = 1 << 20

// UnsupportedTypeError is returned for files that are neither PDF nor DOCX.
type UnsupportedTypeError struct {
	MIMEType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q", e.MIMEType)
}

// FromBytes returns the text content of a PDF or DOCX file. fileName is
// used only to resolve a generic or missing MIME type.
func FromBytes(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mimeType = resolveMIMEType(mimeType, fileName)
	var (
		text string
		err  error
	)
	switch mimeType {
	case validation.MIMETypePDF:
		text, err = pdfText(data)
	case validation.MIMETypeDOCX:
		text, err = docxText(data)
	default:
		return "", &UnsupportedTypeError{MIMEType: mimeType}
	}
	if err != nil {
		return "", err
	}
	return normalizeText(text), nil
}

// MIMEFromExt maps a file extension to the upload MIME type.
func MIMEFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return validation.MIMETypePDF, nil
	case ".docx":
		return validation.MIMETypeDOCX, nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(path))
	}
}

func resolveMIMEType(mimeType, fileName string) string {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	if base == "" || base == "application/octet-stream" {
		if byExt, err := MIMEFromExt(fileName); err == nil {
			return byExt
		}
	}
	return base
}

func pdfText(data []byte) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	out, err := io.ReadAll(io.LimitReader(plain, MaxTextBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return truncateText(string(out)), nil
}

// truncateText cuts s to MaxTextBytes on a rune boundary.
func truncateText(s string) string {
	if len(s) <= MaxTextBytes {
		return s
	}
	cut := MaxTextBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// normalizeText trims lines, collapses runs of blank lines and strips NULs
// some PDF producers emit.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
