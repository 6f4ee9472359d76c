// Package rendering turns resume data plus a presentation into an HTML
// document using one of the embedded template strategies.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an HTML template
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s (%s): %v", e.Message, e.Template, e.Cause)
	}
	return fmt.Sprintf("template error: %s (%s)", e.Message, e.Template)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
