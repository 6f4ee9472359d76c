package export

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultPDFConcurrency is the number of simultaneous headless prints.
const DefaultPDFConcurrency = 2

// Attachment file names.
const (
	PDFFileName  = "resume.pdf"
	DOCXFileName = "resume.docx"
)

// Error wraps a failed export.
type Error struct {
	Format  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s export failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s export failed: %s", e.Format, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Exporter renders sessions to PDF and DOCX. PDF prints are bounded by a
// semaphore and identical concurrent requests share one print.
type Exporter struct {
	pdf   PDFRenderer
	sem   *semaphore.Weighted
	group singleflight.Group
}

// NewExporter creates an exporter. concurrency below 1 uses
// DefaultPDFConcurrency.
func NewExporter(renderer PDFRenderer, concurrency int64) *Exporter {
	if concurrency < 1 {
		concurrency = DefaultPDFConcurrency
	}
	return &Exporter{pdf: renderer, sem: semaphore.NewWeighted(concurrency)}
}

// Key identifies one session version for coalescing.
func Key(sess *types.Session) string {
	if sess == nil {
		return ""
	}
	return fmt.Sprintf("%s@%d", sess.ID, sess.Version)
}

// DOCX builds the Word rendition of doc.
func (e *Exporter) DOCX(doc types.Document) ([]byte, error) {
	out, err := DOCX(BuildDocument(resume.Normalize(doc)))
	if err != nil {
		return nil, &Error{Format: "docx", Message: "failed to build document", Cause: err}
	}
	return out, nil
}

// PDF prints doc styled by its presentation. Calls sharing a non-empty key
// while a print is in flight receive that print's result. Each caller may
// stop waiting when its own ctx ends.
func (e *Exporter) PDF(ctx context.Context, key string, doc types.Document) ([]byte, error) {
	if e.pdf == nil {
		return nil, &Error{Format: "pdf", Message: "no PDF renderer configured"}
	}
	html, err := rendering.RenderDocument(doc, nil)
	if err != nil {
		return nil, &Error{Format: "pdf", Message: "failed to render html", Cause: err}
	}
	if key == "" {
		return e.print(ctx, html)
	}

	// The shared print must outlive any single waiter.
	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(key, func() (any, error) {
		return e.print(shared, html)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Printf("[export] coalesced PDF request for %s", key)
		}
		return res.Val.([]byte), nil
	}
}

func (e *Exporter) print(ctx context.Context, html string) ([]byte, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)

	out, err := e.pdf.RenderPDF(ctx, html)
	if err != nil {
		return nil, &Error{Format: "pdf", Message: "failed to print", Cause: err}
	}
	return out, nil
}
