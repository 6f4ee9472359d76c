package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"sync"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var (
	parseOnce sync.Once
	parsed    *template.Template
	parseErr  error
)

func templates() (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, parseErr = template.New("resume").ParseFS(templateFS, "templates/*.html.tmpl")
		if parseErr != nil {
			parseErr = &TemplateError{Template: "templates/*.html.tmpl", Message: "failed to parse templates", Cause: parseErr}
		}
	})
	return parsed, parseErr
}

// Render draws data with the strategy selected by p. Nil data renders an
// empty resume. The output depends only on the inputs.
func Render(data *types.ResumeData, p types.Presentation) (string, error) {
	tmpl, err := templates()
	if err != nil {
		return "", err
	}
	if data == nil {
		data = resume.Normalize(nil)
	}

	resolved := ResolvePresentation(&p)
	name := ResolveTemplate(resolved.TemplateID)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, buildView(data, resolved)); err != nil {
		return "", &TemplateError{Template: name, Message: "failed to execute template", Cause: err}
	}
	return buf.String(), nil
}

// RenderDocument normalizes doc and renders it with its stored
// presentation, after applying override when given.
func RenderDocument(doc types.Document, override *types.PresentationPatch) (string, error) {
	data := resume.Normalize(doc)
	p := override.Apply(ResolvePresentation(data.Presentation))
	return Render(data, p)
}
