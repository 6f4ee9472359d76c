package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/jonathan/resume-builder/internal/validation"
)

// DOCXContentType is the MIME type of a WordprocessingML package.
const DOCXContentType = validation.MIMETypeDOCX

// Paragraph styles of the default godocx template.
const (
	styleBullet = "List Bullet"
	titleLevel  = 0
	headLevel   = 2
)

// DOCX returns doc as DOCX bytes.
func DOCX(doc Document) ([]byte, error) {
	root, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX template: %w", err)
	}
	if err := fill(root, doc); err != nil {
		return nil, err
	}

	// The library packages to a path, so the archive goes through a
	// private temp dir that is removed before returning.
	dir, err := os.MkdirTemp("", "resume-docx-")
	if err != nil {
		return nil, fmt.Errorf("failed to create DOCX workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, DOCXFileName)
	if err := root.SaveTo(path); err != nil {
		return nil, fmt.Errorf("failed to package DOCX: %w", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX: %w", err)
	}
	if !bytes.HasPrefix(out, []byte("PK")) {
		return nil, fmt.Errorf("failed to package DOCX: output is not a zip archive")
	}
	return out, nil
}

// fill writes the sections in order. Header lines sit under a Title
// paragraph; other sections open with an upper-case level 2 heading.
func fill(root *docx.RootDoc, doc Document) error {
	heading := func(text string, level uint) error {
		if _, err := root.AddHeading(cleanText(text), level); err != nil {
			return fmt.Errorf("failed to add heading %q: %w", text, err)
		}
		return nil
	}

	for _, s := range doc.Sections {
		if s.Kind == KindHeader {
			for _, e := range s.Entries {
				if err := heading(e.Heading, titleLevel); err != nil {
					return err
				}
				for _, l := range e.Lines {
					root.AddParagraph(cleanText(l))
				}
			}
			continue
		}

		if err := heading(strings.ToUpper(s.Title), headLevel); err != nil {
			return err
		}
		for _, e := range s.Entries {
			if e.Heading != "" {
				root.AddParagraph("").AddText(cleanText(e.Heading)).Bold(true)
			}
			if meta := joinNonEmpty(" | ", e.Subheading, e.Dates); meta != "" {
				root.AddParagraph("").AddText(cleanText(meta)).Italic(true)
			}
			for _, l := range e.Lines {
				p := root.AddParagraph(cleanText(l))
				if s.Kind == KindExperience {
					p.Style(styleBullet)
				}
			}
		}
	}
	return nil
}

// cleanText drops characters XML 1.0 cannot carry.
func cleanText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' || r >= 0x20 {
			return r
		}
		return -1
	}, s)
}
