package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/validation"
)

// PDFContentType is the MIME type of a PDF export.
const PDFContentType = validation.MIMETypePDF

// DefaultPDFTimeout bounds one headless print.
const DefaultPDFTimeout = 60 * time.Second

// PDFRenderer prints an HTML document to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// PDFRendererFunc adapts a function to PDFRenderer.
type PDFRendererFunc func(ctx context.Context, html string) ([]byte, error)

// RenderPDF calls f.
func (f PDFRendererFunc) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	return f(ctx, html)
}

// ChromeRenderer prints through headless Chrome on A4 paper with
// backgrounds enabled.
type ChromeRenderer struct {
	ChromePath string
	Timeout    time.Duration
}

// NewChromeRenderer returns a renderer using the Chrome binary at
// chromePath, or the one chromedp finds when empty.
func NewChromeRenderer(chromePath string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &ChromeRenderer{ChromePath: chromePath, Timeout: timeout}
}

// RenderPDF loads html from a temporary file and prints it.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "resume-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write print html: %w", err)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, fetch.AllocatorOptions(r.ChromePath)...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
	defer cancel()

	start := time.Now()
	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("headless print failed: %w", err)
	}

	log.Printf("[export] printed %d byte PDF in %s", len(buf), time.Since(start).Round(time.Millisecond))
	return buf, nil
}
