package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// MaxDocumentPartBytes caps the decompressed size of word/document.xml.
const MaxDocumentPartBytes = 16 << 20

// ErrTooLarge is returned when a file decompresses or extracts past the
// package limits.
var ErrTooLarge = errors.New("file content exceeds extraction limit")

// docxText reads the main document part and returns one line per paragraph.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("failed to open DOCX: missing %s", documentPart)
	}
	if part.UncompressedSize64 > MaxDocumentPartBytes {
		return "", fmt.Errorf("%s is %d bytes uncompressed: %w", documentPart, part.UncompressedSize64, ErrTooLarge)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer func() { _ = rc.Close() }()

	return paragraphs(&capReader{r: rc, left: MaxDocumentPartBytes})
}

// capReader fails with ErrTooLarge once more than left bytes are read, so
// a part whose header understates its size is still bounded.
type capReader struct {
	r    io.Reader
	left int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return 0, ErrTooLarge
	}
	return n, err
}

// paragraphs walks WordprocessingML tokens. Text runs (w:t) are joined
// within a paragraph (w:p); tabs and breaks become whitespace. Output past
// MaxTextBytes is dropped.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		sb     strings.Builder
		line   strings.Builder
		inText bool
	)
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" && sb.Len() < MaxTextBytes {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
		line.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if errors.Is(err, ErrTooLarge) {
			return "", fmt.Errorf("%s exceeds %d bytes: %w", documentPart, MaxDocumentPartBytes, ErrTooLarge)
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte('\t')
			case "br", "cr":
				line.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText && line.Len() < MaxTextBytes {
				line.Write(t)
			}
		}
	}
	flush()
	return truncateText(sb.String()), nil
}
